package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// errRunFailed makes the process exit non-zero after the outcome is printed
var errRunFailed = errors.New("run failed")

func newFetchCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "fetch <url>",
		Short: "Download one URL into a new timestamped folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			appCtx, cleanup, err := bootstrap(opts, true, false)
			if err != nil {
				return err
			}
			defer cleanup()

			// Ctrl+C terminates the download tool along with us
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			outcome := appCtx.Fetch(ctx, args[0])

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s\n\n%s\n", outcome.Title, outcome.Message)

			if !outcome.Succeeded() {
				cmd.SilenceErrors = true
				return errRunFailed
			}
			return nil
		},
	}
}
