package app

import (
	"context"

	"github.com/datallboy/pagefetch/internal/convert"
	"github.com/datallboy/pagefetch/internal/domain"
	"github.com/datallboy/pagefetch/internal/fetcher"
	"github.com/datallboy/pagefetch/internal/infra/config"
	"github.com/datallboy/pagefetch/internal/infra/logger"
	"github.com/datallboy/pagefetch/internal/pipeline"
	"github.com/datallboy/pagefetch/internal/platform"
	"github.com/datallboy/pagefetch/internal/processor"
	"github.com/datallboy/pagefetch/internal/store"
	"github.com/datallboy/pagefetch/internal/workspace"
)

// Runner executes one pipeline run
type Runner interface {
	Run(ctx context.Context, rawURL string) domain.Outcome
}

// Context holds the core environment and shared resources for pagefetch.
type Context struct {
	Config *config.Config
	Logger *logger.Logger
	Store  store.Store

	Resolver  *platform.Resolver
	Converter *convert.Stage
	Runner    Runner
}

// NewContext wires the pipeline from configuration. The conversion
// capability is decided here, once, from convert.enabled.
func NewContext(cfg *config.Config, log *logger.Logger, st store.Store) *Context {
	resolver := platform.NewResolver(cfg.Download.ToolName, cfg.Download.FallbackTool)

	var capability convert.Capability
	if cfg.Convert.Enabled {
		capability = convert.NewDefaultRegistry()
	}
	stage := convert.NewStage(capability)

	p := pipeline.New(
		workspace.NewAllocator(cfg.Download.BaseDir, cfg.Download.FolderPrefix),
		resolver,
		func(toolPath string) fetcher.Fetcher { return fetcher.NewWget(toolPath) },
		processor.NewNormalizer(cfg.Download.DefaultExt),
		stage,
		cfg.Download.Placeholder,
		log,
	)

	return &Context{
		Config:    cfg,
		Logger:    log,
		Store:     st,
		Resolver:  resolver,
		Converter: stage,
		Runner:    p,
	}
}

// Fetch runs the pipeline and records the outcome. A history failure is
// logged and never changes the outcome. The outcome is recorded even when
// ctx was cancelled during the run.
func (c *Context) Fetch(ctx context.Context, rawURL string) domain.Outcome {
	outcome := c.Runner.Run(ctx, rawURL)

	if c.Store != nil {
		if err := c.Store.SaveRun(context.WithoutCancel(ctx), outcome); err != nil {
			c.Logger.Warn("failed to record run %s: %v", outcome.RunID, err)
		}
	}

	return outcome
}

// OpenStore opens the history store selected by cfg.Store.Driver
func OpenStore(cfg config.StoreConfig) (store.Store, error) {
	if cfg.Driver == config.DriverPostgres {
		return store.NewPostgresStore(cfg.PostgresDSN)
	}
	return store.NewSQLiteStore(cfg.SQLitePath)
}
