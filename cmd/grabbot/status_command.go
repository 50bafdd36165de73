package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"grabbot/internal/history"
	"grabbot/internal/preflight"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show readiness checks and job totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			for _, line := range renderSectionHeader("Readiness", colorize) {
				fmt.Fprintln(out, line)
			}
			results := preflight.RunAll(cmd.Context(), cfg)
			for _, result := range results {
				kind := statusError
				if result.Passed {
					kind = statusOK
				}
				fmt.Fprintln(out, renderStatusLine(result.Name, kind, result.Detail, colorize))
			}

			for _, line := range renderSectionHeader("History", colorize) {
				fmt.Fprintln(out, line)
			}
			ledger, err := history.Open(cfg.Paths.LogDir)
			if err != nil {
				fmt.Fprintln(out, renderStatusLine("Ledger", statusError, err.Error(), colorize))
				return fmt.Errorf("open history ledger: %w", err)
			}
			defer ledger.Close()

			summary, err := ledger.Summarize(cmd.Context())
			if err != nil {
				return fmt.Errorf("summarize history: %w", err)
			}
			fmt.Fprintln(out, renderStatusLine("Total jobs", statusInfo, fmt.Sprintf("%d", summary.Total), colorize))
			fmt.Fprintln(out, renderStatusLine("Delivered", statusOK, fmt.Sprintf("%d", summary.Delivered), colorize))
			fmt.Fprintln(out, renderStatusLine("Declined", statusInfo, fmt.Sprintf("%d", summary.Declined), colorize))
			kind := statusInfo
			if summary.Failed > 0 {
				kind = statusError
			}
			fmt.Fprintln(out, renderStatusLine("Failed", kind, fmt.Sprintf("%d", summary.Failed), colorize))

			if !preflight.Ready(results) {
				return fmt.Errorf("some checks failed")
			}
			return nil
		},
	}
}
