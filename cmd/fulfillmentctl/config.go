package main

import (
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
)

const redacted = "<redacted>"

func configCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or persist the effective configuration",
	}
	cmd.AddCommand(configViewCmd(a), configSaveCmd(a))
	return cmd
}

func configViewCmd(a *app) *cobra.Command {
	var showToken bool
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Print the configuration after file, environment and flags are merged",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := *a.cfg
			if cfg.Token != "" && !showToken {
				cfg.Token = redacted
			}
			data, err := yaml.Marshal(&cfg)
			if err != nil {
				return err
			}
			_, err = a.stdout.Write(data)
			return err
		},
	}
	cmd.Flags().BoolVar(&showToken, "show-token", false, "Print the token instead of masking it")
	return cmd
}

func configSaveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "save PATH",
		Short: "Write the effective configuration to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.cfg.Save(args[0]); err != nil {
				return fmt.Errorf("save config: %w", err)
			}
			fmt.Fprintf(a.stdout, "configuration written to %s\n", args[0])
			return nil
		},
	}
}
