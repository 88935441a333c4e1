package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func newHistoryCmd(opts *rootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			appCtx, cleanup, err := bootstrap(opts, true, true)
			if err != nil {
				return err
			}
			defer cleanup()

			runs, err := appCtx.Store.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSTARTED\tOUTCOME\tURL\tARTIFACT")
			for _, r := range runs {
				outcome := string(r.Kind)
				if r.ErrorKind != "" {
					outcome += " (" + string(r.ErrorKind) + ")"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", r.RunID, r.StartedAt.Local().Format(time.DateTime), outcome, r.URL, r.Artifact)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of runs to show")
	return cmd
}
