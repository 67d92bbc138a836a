package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"cleanbot/internal/history"
)

func historyCmd() *cobra.Command {
	var (
		db    string
		limit int
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent cleaning runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := history.Open(cmd.Context(), db)
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no runs recorded")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "WHEN\tFILE\tROWS\tREMOVED\tMISSING\tOUTLIERS\tDATES\tDUPES")
			for _, r := range runs {
				fmt.Fprintf(w, "%s\t%s\t%d→%d\t%d\t%d\t%d\t%d\t%d\n",
					r.CreatedAt.Format("2006-01-02 15:04"), r.Filename,
					r.Summary.OriginalRows, r.Summary.CleanedRows,
					r.Summary.RowsRemoved, r.Summary.MissingValuesHandled,
					r.Summary.OutliersReplaced, r.Summary.DateColumnsFixed,
					r.Summary.DuplicatesRemoved)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&db, "db", "", "SQLite history database path")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum runs to list")
	_ = cmd.MarkFlagRequired("db")
	return cmd
}
