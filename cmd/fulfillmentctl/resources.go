package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/innabox/fulfillment-console/internal/api"
	"github.com/innabox/fulfillment-console/internal/fulfillment"
)

// maxParallelGets bounds the number of concurrent Get calls of one command.
const maxParallelGets = 8

func hubsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hubs",
		Short: "Manage hubs",
	}
	pick := func(c *api.Client) *api.Resource[fulfillment.Hub] { return c.Hubs }
	cmd.AddCommand(listCmd(a, "hubs", readerOf(pick)), getCmd(a, "hub", readerOf(pick)), deleteCmd(a, "hub", pick))
	return cmd
}

func clustersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clusters",
		Short: "Manage clusters",
	}
	pick := func(c *api.Client) *api.Resource[fulfillment.Cluster] { return c.Clusters }
	cmd.AddCommand(listCmd(a, "clusters", readerOf(pick)), getCmd(a, "cluster", readerOf(pick)), deleteCmd(a, "cluster", pick))
	return cmd
}

func hostsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hosts",
		Short: "Manage hosts",
	}
	pick := func(c *api.Client) *api.Resource[fulfillment.Host] { return c.Hosts }
	cmd.AddCommand(listCmd(a, "hosts", readerOf(pick)), getCmd(a, "host", readerOf(pick)), deleteCmd(a, "host", pick))
	return cmd
}

func templatesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "templates",
		Aliases: []string{"cluster-templates"},
		Short:   "Inspect cluster templates",
	}
	pick := func(c *api.Client) *api.Reader[fulfillment.ClusterTemplate] { return c.ClusterTemplates }
	cmd.AddCommand(listCmd(a, "cluster templates", pick), getCmd(a, "cluster template", pick))
	return cmd
}

func readerOf[T any](pick func(*api.Client) *api.Resource[T]) func(*api.Client) *api.Reader[T] {
	return func(c *api.Client) *api.Reader[T] { return pick(c).Reader }
}

func listCmd[T any](a *app, plural string, pick func(*api.Client) *api.Reader[T]) *cobra.Command {
	var (
		offset, limit int32
		filter        string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List " + plural,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.api()
			if err != nil {
				return err
			}
			req := fulfillment.ListRequest{Filter: filter}
			if cmd.Flags().Changed("offset") {
				req.Offset = &offset
			}
			if cmd.Flags().Changed("limit") {
				req.Limit = &limit
			}
			resp, err := pick(c).List(cmd.Context(), req)
			if err != nil {
				return err
			}
			return a.printValue(resp)
		},
	}
	cmd.Flags().Int32Var(&offset, "offset", 0, "Index of the first item to return")
	cmd.Flags().Int32Var(&limit, "limit", 0, "Maximum number of items to return")
	cmd.Flags().StringVar(&filter, "filter", "", "Server side filter expression")
	return cmd
}

func getCmd[T any](a *app, noun string, pick func(*api.Client) *api.Reader[T]) *cobra.Command {
	return &cobra.Command{
		Use:   "get ID...",
		Short: fmt.Sprintf("Show one or more %ss", noun),
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.api()
			if err != nil {
				return err
			}
			objs, err := getAll(cmd.Context(), pick(c), args)
			if err != nil {
				return err
			}
			if len(objs) == 1 {
				return a.printValue(objs[0])
			}
			return a.printValue(objs)
		},
	}
}

// getAll fetches ids concurrently and returns the objects in argument order.
func getAll[T any](ctx context.Context, r *api.Reader[T], ids []string) ([]*T, error) {
	objs := make([]*T, len(ids))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelGets)
	for i, id := range ids {
		g.Go(func() error {
			obj, err := r.Get(ctx, id)
			if err != nil {
				return err
			}
			objs[i] = obj
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return objs, nil
}

func deleteCmd[T any](a *app, noun string, pick func(*api.Client) *api.Resource[T]) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID...",
		Short: fmt.Sprintf("Delete one or more %ss", noun),
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.api()
			if err != nil {
				return err
			}
			for _, id := range args {
				if err := pick(c).Delete(cmd.Context(), id); err != nil {
					return err
				}
				fmt.Fprintf(a.stdout, "%s %s deleted\n", noun, id)
			}
			return nil
		},
	}
}
