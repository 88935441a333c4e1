package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Masterminds/squirrel"
	"github.com/datallboy/pagefetch/internal/domain"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// ErrRunNotFound indicates no run exists with the requested ID
var ErrRunNotFound = errors.New("run not found")

// Store persists one record per pipeline run
type Store interface {
	SaveRun(ctx context.Context, o domain.Outcome) error
	ListRuns(ctx context.Context, limit int) ([]domain.Outcome, error)
	GetRun(ctx context.Context, id string) (domain.Outcome, error)
	Close() error
}

type dialect int

const (
	dialectSQLite dialect = iota
	dialectPostgres
)

type PersistentStore struct {
	db      *sql.DB
	dialect dialect
	qb      squirrel.StatementBuilderType
}

// NewSQLiteStore opens (creating if needed) the history database at dbPath
func NewSQLiteStore(dbPath string) (*PersistentStore, error) {
	dbDir := filepath.Dir(dbPath)

	// Ensure the database directory exists
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}

	return open(db, dialectSQLite)
}

// NewPostgresStore connects through pgx's database/sql driver
func NewPostgresStore(dsn string) (*PersistentStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	return open(db, dialectPostgres)
}

func open(db *sql.DB, d dialect) (*PersistentStore, error) {
	// Ping makes sure the database is actually reachable and the DSN is valid
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	store := &PersistentStore{db: db, dialect: d, qb: builderFor(d)}

	if err := store.RunMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("could not migrate database: %w", err)
	}

	return store, nil
}

// builderFor picks the placeholder format of the dialect
func builderFor(d dialect) squirrel.StatementBuilderType {
	if d == dialectPostgres {
		return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	}
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)
}

func (s *PersistentStore) Close() error {
	return s.db.Close()
}
