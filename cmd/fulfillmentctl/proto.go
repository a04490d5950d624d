package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/innabox/fulfillment-console/internal/protoreg"
)

func protoCmd(a *app) *cobra.Command {
	var (
		outDir string
		file   string
	)
	cmd := &cobra.Command{
		Use:   "proto",
		Short: "Print the .proto schema the client speaks",
		Long: `Print the protobuf schema matching the messages this client encodes and
decodes. With --out the files are written below that directory instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := protoreg.Build()
			if err != nil {
				return err
			}
			if outDir == "" {
				return protoreg.Print(reg, file, a.stdout)
			}
			written, err := protoreg.Render(reg, outDir)
			if err != nil {
				return err
			}
			for _, p := range written {
				fmt.Fprintln(a.stdout, p)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&outDir, "out", "", "Directory to write .proto files to")
	cmd.Flags().StringVar(&file, "file", "", "Print only this file, e.g. fulfillment/v1/types.proto")
	return cmd
}
