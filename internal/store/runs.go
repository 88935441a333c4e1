package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/datallboy/pagefetch/internal/domain"
)

const defaultListLimit = 20

var runColumns = []string{
	"id", "kind", "error_kind", "title", "message", "url",
	"workspace", "artifact", "converted", "started_at", "finished_at",
}

const upsertRun = `ON CONFLICT (id) DO UPDATE SET
                kind = excluded.kind,
                error_kind = excluded.error_kind,
                title = excluded.title,
                message = excluded.message,
                workspace = excluded.workspace,
                artifact = excluded.artifact,
                converted = excluded.converted,
                finished_at = excluded.finished_at`

func (s *PersistentStore) SaveRun(ctx context.Context, o domain.Outcome) error {
	if o.RunID == "" {
		return errors.New("run id is required")
	}

	var r runDBO
	r.FromDomain(o)

	query, args, err := s.qb.
		Insert("runs").
		Columns(runColumns...).
		Values(r.ID, r.Kind, r.ErrorKind, r.Title, r.Message, r.URL,
			r.Workspace, r.Artifact, r.Converted, r.StartedAt, r.FinishedAt).
		Suffix(upsertRun).
		ToSql()
	if err != nil {
		return fmt.Errorf("build save query: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to save run %s: %w", o.RunID, err)
	}
	return nil
}

// ListRuns returns the most recent runs first
func (s *PersistentStore) ListRuns(ctx context.Context, limit int) ([]domain.Outcome, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	query, args, err := s.qb.
		Select(runColumns...).
		From("runs").
		OrderBy("started_at DESC", "id DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := make([]domain.Outcome, 0)
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r.ToDomain())
	}

	return runs, rows.Err()
}

func (s *PersistentStore) GetRun(ctx context.Context, id string) (domain.Outcome, error) {
	query, args, err := s.getRunQuery(id)
	if err != nil {
		return domain.Outcome{}, fmt.Errorf("build get query: %w", err)
	}

	r, err := scanRun(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Outcome{}, ErrRunNotFound
	}
	if err != nil {
		return domain.Outcome{}, err
	}
	return r.ToDomain(), nil
}

func (s *PersistentStore) getRunQuery(id string) (string, []any, error) {
	return s.qb.
		Select(runColumns...).
		From("runs").
		Where(squirrel.Eq{"id": id}).
		ToSql()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (*runDBO, error) {
	r := &runDBO{}
	err := sc.Scan(&r.ID, &r.Kind, &r.ErrorKind, &r.Title, &r.Message, &r.URL,
		&r.Workspace, &r.Artifact, &r.Converted, &r.StartedAt, &r.FinishedAt)
	if err != nil {
		return nil, err
	}
	return r, nil
}
