package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"grabbot/internal/history"
	"grabbot/internal/textutil"
)

const historyURLWidth = 48

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent jobs from the outcome ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			ledger, err := history.Open(cfg.Paths.LogDir)
			if err != nil {
				return fmt.Errorf("open history ledger: %w", err)
			}
			defer ledger.Close()

			records, err := ledger.Recent(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("read history: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintln(out, "No jobs recorded yet.")
				return nil
			}

			titleCaser := cases.Title(language.English)
			rows := make([][]string, 0, len(records))
			for _, rec := range records {
				size := ""
				if rec.SizeBytes > 0 {
					size = humanize.IBytes(uint64(rec.SizeBytes))
				}
				rows = append(rows, []string{
					rec.FinishedAt.Local().Format(time.DateTime),
					titleCaser.String(rec.Mode),
					string(rec.Outcome),
					size,
					textutil.Truncate(rec.URL, historyURLWidth),
				})
			}

			fmt.Fprintln(out, renderTable(
				[]string{"Finished", "Mode", "Outcome", "Size", "URL"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of jobs to list")
	return cmd
}
