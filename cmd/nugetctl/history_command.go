package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"nugetctl/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent pack, push and setapikey runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defer ctx.close()
			store, err := requireHistory(ctx)
			if err != nil {
				return err
			}
			runs, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}
			fmt.Fprintln(out, renderTable(out, historyHeaders, historyRows(runs), historyAligns))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of runs to show (0 for all)")

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Delete every recorded run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defer ctx.close()
			store, err := requireHistory(ctx)
			if err != nil {
				return err
			}
			removed, err := store.Clear(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d run(s)\n", removed)
			return nil
		},
	})
	return cmd
}

var (
	historyHeaders = []string{"Started", "Operation", "Status", "Input", "Artifact", "Duration", "Error"}
	historyAligns  = []columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft}
)

func requireHistory(ctx *commandContext) (*history.Store, error) {
	store, err := ctx.historyStore()
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, errors.New("run history is disabled (set history.enabled = true)")
	}
	return store, nil
}

func historyRows(runs []history.Run) [][]string {
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		errText := run.Error
		if run.ErrorKind != "" {
			errText = fmt.Sprintf("[%s] %s", run.ErrorKind, run.Error)
		}
		rows = append(rows, []string{
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			titleLabel(run.Operation),
			titleLabel(string(run.Status)),
			run.Input,
			run.Artifact,
			run.Duration().Round(time.Millisecond).String(),
			errText,
		})
	}
	return rows
}
