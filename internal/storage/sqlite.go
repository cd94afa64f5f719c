// Package storage is the embedded SQLite store for embedding vectors and
// cached recipes. It uses the CGo-free modernc.org/sqlite driver.
package storage

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/jonathan/cocktail-advisor/internal/logging"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// goose keeps its configuration in package globals.
var gooseMu sync.Mutex

// Options tunes a SQLite store.
type Options struct {
	// MaxRecipes bounds the recipes table; 0 means unbounded.
	MaxRecipes int
}

// SQLite is a single-file store. One connection is used so writes serialize.
type SQLite struct {
	db         *sql.DB
	path       string
	maxRecipes int
}

// Open opens (creating if needed) the database at path and applies migrations.
func Open(ctx context.Context, path string, opts Options) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA busy_timeout=5000"} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate %s: %w", path, err)
	}

	logging.Debug().Str("path", path).Msg("sqlite store ready")
	return &SQLite{db: db, path: path, maxRecipes: opts.MaxRecipes}, nil
}

// RunMigrations applies the embedded goose migrations. A nil db is a no-op.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return nil
	}
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrationFiles)
	goose.SetLogger(gooseLogger{})
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, "migrations")
}

// Close closes the database.
func (s *SQLite) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file path.
func (s *SQLite) Path() string {
	return s.path
}

type gooseLogger struct{}

func (gooseLogger) Printf(format string, v ...interface{}) {
	logging.Debug().Msgf(format, v...)
}

func (gooseLogger) Fatalf(format string, v ...interface{}) {
	logging.Error().Msgf(format, v...)
}
