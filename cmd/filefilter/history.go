package main

import (
	"errors"

	"github.com/spf13/cobra"

	"filefilter/internal/audit"
)

func newHistoryCmd(a *app) *cobra.Command {
	var last int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past runs recorded in the audit trail",
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.NoArgs(cmd, args); err != nil {
				return &usageError{err: err}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := a.loadOptions(cmd, nil)
			if err != nil {
				return err
			}
			if opts.AuditDir == "" {
				return &usageError{err: errors.New("no audit directory: pass --audit-dir or set [audit] dir in the config file")}
			}

			runs, err := audit.NewReader(opts.AuditDir).ListRuns()
			if err != nil {
				return err
			}
			if last > 0 && len(runs) > last {
				runs = runs[len(runs)-last:]
			}
			a.out.PrintRuns(runs)
			return nil
		},
	}
	cmd.Flags().IntVarP(&last, "last", "n", 0, "show only the most recent runs")
	return cmd
}
