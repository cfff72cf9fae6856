package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newSetAPIKeyCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "setapikey [key]",
		Short: "Store the API key NuGet uses for push",
		Long: "Store the API key NuGet uses for push.\n\n" +
			"Without an argument the key comes from nuget.api_key or NUGET_API_KEY.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer ctx.close()
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			key := cfg.NuGet.APIKey
			if len(args) == 1 {
				key = strings.TrimSpace(args[0])
			}
			if key == "" {
				return errors.New("api key required: pass it as an argument or set nuget.api_key / NUGET_API_KEY")
			}

			svc, err := ctx.packagingService()
			if err != nil {
				return err
			}
			if err := svc.SetAPIKey(cmd.Context(), key); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "API key stored")
			return nil
		},
	}
}
