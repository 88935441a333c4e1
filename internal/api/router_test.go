package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/datallboy/pagefetch/internal/app"
	"github.com/datallboy/pagefetch/internal/domain"
	"github.com/datallboy/pagefetch/internal/infra/logger"
	"github.com/datallboy/pagefetch/internal/store"
	"github.com/labstack/echo/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	outcome domain.Outcome
	urls    []string
	ctxErrs []error
}

func (f *fakeRunner) Run(ctx context.Context, rawURL string) domain.Outcome {
	f.urls = append(f.urls, rawURL)
	f.ctxErrs = append(f.ctxErrs, ctx.Err())
	o := f.outcome
	o.URL = rawURL
	return o
}

type memStore struct {
	mu   sync.Mutex
	runs []domain.Outcome
}

func (m *memStore) SaveRun(ctx context.Context, o domain.Outcome) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs = append(m.runs, o)
	return nil
}

func (m *memStore) ListRuns(_ context.Context, limit int) ([]domain.Outcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if limit <= 0 || limit > len(m.runs) {
		limit = len(m.runs)
	}
	return append([]domain.Outcome(nil), m.runs[:limit]...), nil
}

func (m *memStore) GetRun(_ context.Context, id string) (domain.Outcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.runs {
		if r.RunID == id {
			return r, nil
		}
	}
	return domain.Outcome{}, store.ErrRunNotFound
}

func (m *memStore) Close() error { return nil }

func newServer(runner *fakeRunner, st store.Store) *echo.Echo {
	appCtx := &app.Context{Logger: logger.NewNop(), Runner: runner, Store: st}
	e := echo.New()
	RegisterRoutes(e, appCtx)
	return e
}

func do(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestFetch_Success(t *testing.T) {
	runner := &fakeRunner{outcome: domain.Outcome{RunID: "run-1", Kind: domain.OutcomeSuccessConverted, Converted: "x/report.md"}}
	st := &memStore{}
	e := newServer(runner, st)

	rec := do(e, http.MethodPost, "/api/fetch", `{"url":"https://example.com/report"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var got domain.Outcome
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "run-1", got.RunID)
	assert.Equal(t, domain.OutcomeSuccessConverted, got.Kind)
	assert.Equal(t, []string{"https://example.com/report"}, runner.urls)
	assert.Len(t, st.runs, 1, "outcome should be recorded")
}

func TestFetch_StatusCodes(t *testing.T) {
	tests := []struct {
		kind domain.ErrorKind
		want int
	}{
		{domain.KindInvalidRequest, http.StatusBadRequest},
		{domain.KindDownload, http.StatusBadGateway},
		{domain.KindToolNotFound, http.StatusInternalServerError},
		{domain.KindConversion, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			runner := &fakeRunner{outcome: domain.Outcome{RunID: "r", Kind: domain.OutcomeFailure, ErrorKind: tt.kind}}
			rec := do(newServer(runner, nil), http.MethodPost, "/api/fetch", `{"url":"u"}`)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestFetch_ClientDisconnectDoesNotCancelRun(t *testing.T) {
	runner := &fakeRunner{outcome: domain.Outcome{RunID: "run-1", Kind: domain.OutcomeSuccess}}
	st := &memStore{}
	e := newServer(runner, st)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req := httptest.NewRequest(http.MethodPost, "/api/fetch", strings.NewReader(`{"url":"https://example.com/x"}`)).WithContext(ctx)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Len(t, runner.ctxErrs, 1)
	assert.NoError(t, runner.ctxErrs[0], "run must not see the request cancellation")
	assert.Len(t, st.runs, 1, "outcome should still be recorded")
}

func TestFetch_BadBody(t *testing.T) {
	runner := &fakeRunner{}
	rec := do(newServer(runner, nil), http.MethodPost, "/api/fetch", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, runner.urls)
}

func TestRuns(t *testing.T) {
	st := &memStore{runs: []domain.Outcome{
		{RunID: "b", Kind: domain.OutcomeSuccess},
		{RunID: "a", Kind: domain.OutcomeFailure, ErrorKind: domain.KindDownload},
	}}
	e := newServer(&fakeRunner{}, st)

	rec := do(e, http.MethodGet, "/api/runs?limit=1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []domain.Outcome
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "b", list[0].RunID)

	rec = do(e, http.MethodGet, "/api/runs?limit=abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(e, http.MethodGet, "/api/runs/a", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var one domain.Outcome
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &one))
	assert.Equal(t, domain.KindDownload, one.ErrorKind)

	rec = do(e, http.MethodGet, "/api/runs/zzz", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRuns_HistoryDisabled(t *testing.T) {
	rec := do(newServer(&fakeRunner{}, nil), http.MethodGet, "/api/runs", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
