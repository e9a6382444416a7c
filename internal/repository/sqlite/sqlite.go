// Package sqlite stores staff, assignments, attendance and pay periods in a
// single SQLite file. Dates are TEXT in YYYY-MM-DD form and instants are TEXT
// RFC 3339 in UTC, so lexical order matches chronological order.
//
// The schema is migrated on Open. Use ":memory:" for tests.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cmlabs-hris/shift-backend-go/internal/domain/shift"
	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schema string

// Open opens (or creates) the database at path and applies the schema.
func Open(path string) (*sql.DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One writer at a time; also keeps ":memory:" on a single database.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(context.Background(), schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type rowScanner interface {
	Scan(dest ...any) error
}

func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

func now() time.Time {
	return time.Now().UTC()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func formatTimePtr(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*t), Valid: true}
}

// columnParser decodes TEXT columns of one row and keeps the first failure.
type columnParser struct {
	err error
}

func (p *columnParser) time(column, s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("invalid %s %q: %w", column, s, err)
	}
	return t
}

func (p *columnParser) timePtr(column string, s sql.NullString) *time.Time {
	if !s.Valid {
		return nil
	}
	t := p.time(column, s.String)
	return &t
}

func (p *columnParser) date(column, s string) time.Time {
	d, err := shift.ParseDate(s)
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("invalid %s %q: %w", column, s, err)
	}
	return d
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

func isUniqueConstraintError(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}

// pageClause returns the LIMIT/OFFSET suffix; limit 0 means no paging.
func pageClause(page, limit int, args []any) (string, []any) {
	if limit <= 0 {
		return "", args
	}
	if page < 1 {
		page = 1
	}
	return " LIMIT ? OFFSET ?", append(args, limit, (page-1)*limit)
}
