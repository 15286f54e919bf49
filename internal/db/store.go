// Package db persists analyzed profiles and their matches. Stores are available in
// memory, in PostgreSQL and in SQLite; the SQL schemas are applied with goose.
package db

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"sync"

	"github.com/pressly/goose/v3"

	"github.com/jonathan/jobmatch/internal/types"
)

// Supported drivers.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// ErrNotFound is returned when a profile does not exist.
var ErrNotFound = errors.New("not found")

// Store persists profiles and matches.
type Store interface {
	SaveProfile(ctx context.Context, p *types.Profile) error
	GetProfile(ctx context.Context, kind types.ProfileKind, id string) (*types.Profile, error)
	ListProfiles(ctx context.Context, kind types.ProfileKind) ([]types.Profile, error)
	// UpsertMatch inserts or refreshes the match of a candidate/job pair and returns the stored row.
	UpsertMatch(ctx context.Context, m types.StoredMatch) (*types.StoredMatch, error)
	// ListMatches returns the matches of a profile, best score first.
	ListMatches(ctx context.Context, kind types.ProfileKind, id string) ([]types.StoredMatch, error)
	Driver() string
	Close() error
}

// Open returns the Store for driver. SQL stores are migrated before use.
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	switch driver {
	case "", DriverMemory:
		return NewMemoryStore(), nil
	case DriverPostgres:
		return ConnectPostgres(ctx, dsn)
	case DriverSQLite:
		return OpenSQLite(ctx, dsn)
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}

//go:embed migrations/*/*.sql
var migrations embed.FS

// goose keeps its dialect and filesystem in package state.
var migrateMu sync.Mutex

// Migrate applies the embedded migrations of dialect ("postgres" or "sqlite3") to db.
func Migrate(ctx context.Context, db *sql.DB, dialect string) error {
	dir := "migrations/postgres"
	if dialect == "sqlite3" {
		dir = "migrations/sqlite"
	}

	migrateMu.Lock()
	defer migrateMu.Unlock()

	goose.SetBaseFS(migrations)
	defer goose.SetBaseFS(nil)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, dir); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

func matchColumn(kind types.ProfileKind) (string, error) {
	switch kind {
	case types.KindCandidate:
		return "candidate_id", nil
	case types.KindJob:
		return "job_id", nil
	default:
		return "", fmt.Errorf("unknown profile kind %q", kind)
	}
}
