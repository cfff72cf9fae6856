package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"nugetctl/internal/artifact"
)

func newPushCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "push <nupkg|glob|->",
		Short: "Publish a package to the configured source",
		Long: "Publish a package to the configured source.\n\n" +
			"Use - to read the package from stdin; it is staged in the work dir and removed afterwards.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer ctx.close()
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			svc, err := ctx.packagingService()
			if err != nil {
				return err
			}

			src := artifact.PathSource(args[0])
			label := args[0]
			if args[0] == "-" {
				src = artifact.StreamSource(cmd.InOrStdin(), "")
				label = "stdin"
			}
			if err := svc.Push(cmd.Context(), src); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Pushed %s to %s\n", label, cfg.NuGet.Source)
			return nil
		},
	}
}
