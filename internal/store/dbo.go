package store

import (
	"database/sql"
	"time"

	"github.com/datallboy/pagefetch/internal/domain"
)

// runDBO maps to the runs table
type runDBO struct {
	ID         string         `db:"id"`
	Kind       string         `db:"kind"`
	ErrorKind  sql.NullString `db:"error_kind"`
	Title      string         `db:"title"`
	Message    string         `db:"message"`
	URL        string         `db:"url"`
	Workspace  sql.NullString `db:"workspace"`
	Artifact   sql.NullString `db:"artifact"`
	Converted  sql.NullString `db:"converted"`
	StartedAt  int64          `db:"started_at"`
	FinishedAt int64          `db:"finished_at"`
}

// Mapper: DBO to Domain Outcome
func (r *runDBO) ToDomain() domain.Outcome {
	return domain.Outcome{
		RunID:      r.ID,
		Kind:       domain.OutcomeKind(r.Kind),
		ErrorKind:  domain.ErrorKind(r.ErrorKind.String),
		Title:      r.Title,
		Message:    r.Message,
		URL:        r.URL,
		Workspace:  r.Workspace.String,
		Artifact:   r.Artifact.String,
		Converted:  r.Converted.String,
		StartedAt:  fromMillis(r.StartedAt),
		FinishedAt: fromMillis(r.FinishedAt),
	}
}

// Mapper: Domain Outcome to DBO
func (r *runDBO) FromDomain(o domain.Outcome) {
	r.ID = o.RunID
	r.Kind = string(o.Kind)
	r.ErrorKind = nullString(string(o.ErrorKind))
	r.Title = o.Title
	r.Message = o.Message
	r.URL = o.URL
	r.Workspace = nullString(o.Workspace)
	r.Artifact = nullString(o.Artifact)
	r.Converted = nullString(o.Converted)
	r.StartedAt = toMillis(o.StartedAt)
	r.FinishedAt = toMillis(o.FinishedAt)
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func toMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}
