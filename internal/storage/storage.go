// Package storage bootstraps the local sqlite database: it opens the DSN,
// applies the embedded goose migrations and hands out the repositories.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/pixelyear/pixelyear/internal/repositories/annotations"
	"github.com/pixelyear/pixelyear/internal/repositories/metadata"
	"github.com/pixelyear/pixelyear/internal/storage/migrations"
)

// Store bundles the open database with the repositories built on it.
type Store struct {
	DB          *sql.DB
	Metadata    metadata.Repository
	Annotations annotations.Repository
}

// RunMigrations applies all embedded migrations that have not run yet.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens the sqlite database at dsn, migrates it and returns
// the ready-to-use Store.
func InitDatabase(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// sqlite allows a single writer, and :memory: databases live per
	// connection. One pooled connection serializes the REPL and the sync
	// goroutines instead of surfacing SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Store{
		DB:          db,
		Metadata:    metadata.NewSQLiteRepository(db),
		Annotations: annotations.NewSQLiteRepository(db),
	}, nil
}

func (s *Store) Close() error {
	return s.DB.Close()
}
