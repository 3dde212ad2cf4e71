// Package sqlite stores users in SQLite files. It serves local forum dumps
// and the in-memory databases used by tests.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/user-migrator/internal/domain/entity"
	"github.com/oksasatya/user-migrator/pkg/helpers"
)

//go:embed schema/*.sql
var schemaFS embed.FS

// DB wraps a SQLite handle and echoes every statement before running it.
type DB struct {
	sql    *sql.DB
	logger logrus.FieldLogger
	store  string
}

// Open opens (or creates) the database at path and pings it.
func Open(ctx context.Context, path string, logger logrus.FieldLogger, store string) (*DB, error) {
	if path == "" {
		return nil, errors.New("empty sqlite path")
	}
	return open(ctx, path, logger, store)
}

// OpenReadOnly opens an existing database file without write access.
// A missing file is an error and is never created.
func OpenReadOnly(ctx context.Context, path string, logger logrus.FieldLogger, store string) (*DB, error) {
	if path == "" {
		return nil, errors.New("empty sqlite path")
	}
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if fi.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	return open(ctx, "file:"+path+"?mode=ro", logger, store)
}

func open(ctx context.Context, dsn string, logger logrus.FieldLogger, store string) (*DB, error) {
	d, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	// one writer, and in-memory databases live per connection
	d.SetMaxOpenConns(1)
	if err := d.PingContext(ctx); err != nil {
		_ = d.Close()
		return nil, err
	}
	if _, err := d.ExecContext(ctx, `PRAGMA busy_timeout=5000`); err != nil {
		_ = d.Close()
		return nil, err
	}
	return &DB{sql: d, logger: logger, store: store}, nil
}

func (d *DB) Close() error { return d.sql.Close() }

// CreateSourceSchema creates the forum tables when absent.
func (d *DB) CreateSourceSchema(ctx context.Context) error { return d.applySchema(ctx, "source") }

// CreateTargetSchema creates the account table when absent.
func (d *DB) CreateTargetSchema(ctx context.Context) error { return d.applySchema(ctx, "target") }

func (d *DB) applySchema(ctx context.Context, name string) error {
	text, err := schemaFS.ReadFile("schema/" + name + ".sql")
	if err != nil {
		return err
	}
	if _, err := d.exec(ctx, d.sql, string(text)); err != nil {
		return fmt.Errorf("create %s schema: %w", name, err)
	}
	return nil
}

type execQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (d *DB) exec(ctx context.Context, q execQuerier, query string, args ...any) (sql.Result, error) {
	helpers.LogStatement(d.logger, d.store, query, len(args))
	return q.ExecContext(ctx, query, args...)
}

func (d *DB) query(ctx context.Context, q execQuerier, query string, args ...any) (*sql.Rows, error) {
	helpers.LogStatement(d.logger, d.store, query, len(args))
	return q.QueryContext(ctx, query, args...)
}

func (d *DB) queryRow(ctx context.Context, q execQuerier, query string, args ...any) *sql.Row {
	helpers.LogStatement(d.logger, d.store, query, len(args))
	return q.QueryRowContext(ctx, query, args...)
}

// quoteIdent quotes a column name for interpolation.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// mapWriteError turns a unique violation into entity.ErrDuplicateUser.
func mapWriteError(err error) error {
	var sqlErr sqlite3.Error
	if errors.As(err, &sqlErr) && sqlErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		return fmt.Errorf("%w: %s", entity.ErrDuplicateUser, sqlErr.Error())
	}
	return err
}

// Exec runs a statement outside any transaction.
func (d *DB) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return d.exec(ctx, d.sql, query, args...)
}

// QueryRow runs a single-row query outside any transaction.
func (d *DB) QueryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return d.queryRow(ctx, d.sql, query, args...)
}
