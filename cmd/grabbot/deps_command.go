package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"grabbot/internal/deps"
)

func newDepsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "Check availability of required external tools",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			statuses := deps.CheckBinaries(deps.Requirements(cfg))
			rows := make([][]string, 0, len(statuses))
			missing := 0
			for _, status := range statuses {
				state := "found"
				detail := status.Command
				if !status.Available {
					state = "missing"
					detail = status.Detail
					missing++
				}
				rows = append(rows, []string{status.Name, state, detail, status.Description})
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Tool", "State", "Location", "Purpose"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
			))
			if missing > 0 {
				return fmt.Errorf("%d required tool(s) missing", missing)
			}
			return nil
		},
	}
}
