// Package storage bootstraps the client's local SQLite database: it opens
// the file, applies the embedded goose migrations, and hands out the
// metadata repository.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/wirescope/internal/client/migrations"
	"github.com/dmitrijs2005/wirescope/internal/client/repositories/metadata"
	"github.com/pressly/goose/v3"
)

// RunMigrations applies the embedded migrations to db.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens (creating if needed) the SQLite database at dsn,
// migrates it, and returns the handle together with the metadata repository.
func InitDatabase(ctx context.Context, dsn string) (*sql.DB, metadata.Repository, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("migrate database: %w", err)
	}

	return db, metadata.NewSQLiteRepository(db), nil
}
