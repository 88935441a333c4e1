package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/datallboy/pagefetch/internal/domain"
	"github.com/datallboy/pagefetch/internal/infra/config"
	"github.com/datallboy/pagefetch/internal/infra/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Download: config.DownloadConfig{
			BaseDir:      t.TempDir(),
			FolderPrefix: "download_",
			ToolName:     "wget",
			FallbackTool: "wget.exe",
			DefaultExt:   ".html",
			Placeholder:  "index",
		},
		Convert: config.ConvertConfig{Enabled: true},
		Store:   config.StoreConfig{Driver: config.DriverSQLite, SQLitePath: filepath.Join(t.TempDir(), "runs.db")},
	}
}

func TestNewContext_ConversionFlag(t *testing.T) {
	cfg := testConfig(t)

	ctx := NewContext(cfg, logger.NewNop(), nil)
	assert.True(t, ctx.Converter.Available())

	cfg.Convert.Enabled = false
	ctx = NewContext(cfg, logger.NewNop(), nil)
	assert.False(t, ctx.Converter.Available())
}

func TestFetch_RecordsOutcome(t *testing.T) {
	cfg := testConfig(t)
	st, err := OpenStore(cfg.Store)
	require.NoError(t, err)
	defer st.Close()

	appCtx := NewContext(cfg, logger.NewNop(), st)

	// Empty input fails before any stage runs, which keeps this test offline
	outcome := appCtx.Fetch(context.Background(), "  ")
	assert.Equal(t, domain.KindInvalidRequest, outcome.ErrorKind)

	got, err := st.GetRun(context.Background(), outcome.RunID)
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeFailure, got.Kind)
	assert.Equal(t, "Input Required", got.Title)
}

func TestFetch_RecordsOutcomeAfterCancel(t *testing.T) {
	cfg := testConfig(t)
	st, err := OpenStore(cfg.Store)
	require.NoError(t, err)
	defer st.Close()

	appCtx := NewContext(cfg, logger.NewNop(), st)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	outcome := appCtx.Fetch(ctx, "")

	_, err = st.GetRun(context.Background(), outcome.RunID)
	assert.NoError(t, err)
}
