// Package localdb opens the client's SQLite cache database and keeps its
// schema current.
package localdb

import (
	"context"
	"database/sql"
	"strings"

	"github.com/pressly/goose/v3"

	"github.com/arthlor/yeser/internal/client/migrations"
	"github.com/arthlor/yeser/internal/filex"
)

// RunMigrations applies the embedded goose migrations.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}

	return goose.UpContext(ctx, db, ".")
}

// Open opens (creating if needed) the local cache database at dsn and
// migrates it. The caller owns the returned handle.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	if dsn != ":memory:" && !strings.Contains(dsn, "mode=memory") {
		if _, err := filex.EnsureParentDir(strings.TrimPrefix(dsn, "file:")); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}
