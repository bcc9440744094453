// Package migrations creates and evolves the database schema. The SQL files are embedded into the
// binary, one directory per dialect, and applied with goose. Goose records every applied version,
// so running the migrations on each start is a no-op once the schema is current.
package migrations

import (
	"context"
	"database/sql"
	"embed"

	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
)

//go:embed mysql/*.sql sqlite/*.sql
var files embed.FS

// gooseDialects maps our driver names to goose dialect names.
var gooseDialects = map[string]string{
	"mysql":  "mysql",
	"sqlite": "sqlite3",
}

func setup(dialect string) (string, error) {
	gooseDialect, ok := gooseDialects[dialect]
	if !ok {
		return "", errors.Errorf("no migrations for dialect %q", dialect)
	}
	goose.SetBaseFS(files)
	goose.SetLogger(gooseLogger{})
	if err := goose.SetDialect(gooseDialect); err != nil {
		return "", errors.Wrap(err, "set goose dialect")
	}
	return dialect, nil
}

// Up applies all pending migrations.
func Up(ctx context.Context, db *sql.DB, dialect string) error {
	dir, err := setup(dialect)
	if err != nil {
		return err
	}
	if err := goose.UpContext(ctx, db, dir); err != nil {
		return errors.Wrap(err, "apply migrations")
	}
	return nil
}

// Down rolls back the most recent migration.
func Down(ctx context.Context, db *sql.DB, dialect string) error {
	dir, err := setup(dialect)
	if err != nil {
		return err
	}
	if err := goose.DownContext(ctx, db, dir); err != nil {
		return errors.Wrap(err, "roll back migration")
	}
	return nil
}

// Status logs the state of every migration.
func Status(ctx context.Context, db *sql.DB, dialect string) error {
	dir, err := setup(dialect)
	if err != nil {
		return err
	}
	return goose.StatusContext(ctx, db, dir)
}
