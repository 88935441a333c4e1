package main

import (
	"fmt"

	"github.com/datallboy/pagefetch/internal/app"
	"github.com/datallboy/pagefetch/internal/infra/config"
	"github.com/datallboy/pagefetch/internal/infra/logger"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "pagefetch",
		Short:        "Download a single URL with wget and convert it to Markdown",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "path to config.yaml")

	cmd.AddCommand(
		newFetchCmd(opts),
		newServeCmd(opts),
		newHistoryCmd(opts),
		newCheckCmd(opts),
	)

	return cmd
}

// bootstrap loads config and the logger. When withStore is set it also
// opens the history store; a store failure is only fatal if requireStore is set.
func bootstrap(opts *rootOptions, withStore, requireStore bool) (*app.Context, func(), error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("config error: %w", err)
	}

	log, err := logger.New(cfg.Log.Path, logger.ParseLevel(cfg.Log.Level), cfg.Log.IncludeStdout)
	if err != nil {
		return nil, nil, fmt.Errorf("could not open log file %s: %w", cfg.Log.Path, err)
	}

	cleanup := func() { log.Close() }

	if !withStore {
		return app.NewContext(cfg, log, nil), cleanup, nil
	}

	st, err := app.OpenStore(cfg.Store)
	if err != nil {
		if requireStore {
			log.Close()
			return nil, nil, fmt.Errorf("history store: %w", err)
		}
		log.Warn("history disabled: %v", err)
		return app.NewContext(cfg, log, nil), cleanup, nil
	}

	return app.NewContext(cfg, log, st), func() {
		st.Close()
		log.Close()
	}, nil
}
