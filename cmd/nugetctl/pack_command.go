package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"nugetctl/internal/artifact"
	"nugetctl/internal/config"
)

func newPackCommand(ctx *commandContext) *cobra.Command {
	var outputDir string

	cmd := &cobra.Command{
		Use:   "pack <nuspec|glob>",
		Short: "Build a package from a .nuspec descriptor",
		Long: "Build a package from a .nuspec descriptor.\n\n" +
			"The argument may be a path or a glob (** supported) that matches exactly one file. " +
			"Every file the descriptor declares must exist before NuGet is invoked.",
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

			ref, err := svc.Pack(cmd.Context(), artifact.PathSource(args[0]))
			if err != nil {
				return err
			}

			target := cfg.Paths.WorkDir
			if dir := strings.TrimSpace(outputDir); dir != "" {
				if target, err = config.ExpandPath(dir); err != nil {
					return fmt.Errorf("resolve output dir: %w", err)
				}
			}
			written, err := ref.Save(target)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Packed %s (%d bytes)\n", written, len(ref.Contents))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Directory to write the package to (default: work dir)")
	return cmd
}
