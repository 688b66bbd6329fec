// Package sqlite provides a SQLite-backed key registry.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/louisbranch/stblbuilder/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/stblbuilder/internal/platform/timeouts"
	"github.com/louisbranch/stblbuilder/internal/stbl/keystore"
	"github.com/louisbranch/stblbuilder/internal/stbl/keystore/sqlite/migrations"
)

// Store persists key assignments in SQLite.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite registry and applies embedded migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=%d&_synchronous=NORMAL", cleanPath, timeouts.StoreBusy.Milliseconds())
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.Apply(ctx, sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// GetAssignment returns one assignment.
func (s *Store) GetAssignment(ctx context.Context, scope, identifier string) (keystore.Assignment, error) {
	if err := ctx.Err(); err != nil {
		return keystore.Assignment{}, err
	}
	if s == nil || s.sqlDB == nil {
		return keystore.Assignment{}, fmt.Errorf("storage is not configured")
	}

	var (
		key        int64
		assignedAt int64
	)
	err := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT string_key, assigned_at FROM string_keys WHERE scope = ? AND identifier = ?`,
		scope,
		identifier,
	).Scan(&key, &assignedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return keystore.Assignment{}, keystore.ErrNotFound
	}
	if err != nil {
		return keystore.Assignment{}, fmt.Errorf("get assignment: %w", err)
	}
	return keystore.Assignment{
		Scope:      scope,
		Identifier: identifier,
		Key:        uint32(key),
		AssignedAt: fromMillis(assignedAt),
	}, nil
}

// ListAssignments returns every assignment in scope ordered by identifier.
func (s *Store) ListAssignments(ctx context.Context, scope string) ([]keystore.Assignment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT identifier, string_key, assigned_at FROM string_keys WHERE scope = ? ORDER BY identifier`,
		scope,
	)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	defer rows.Close()

	var out []keystore.Assignment
	for rows.Next() {
		var (
			identifier string
			key        int64
			assignedAt int64
		)
		if err := rows.Scan(&identifier, &key, &assignedAt); err != nil {
			return nil, fmt.Errorf("scan assignment: %w", err)
		}
		out = append(out, keystore.Assignment{
			Scope:      scope,
			Identifier: identifier,
			Key:        uint32(key),
			AssignedAt: fromMillis(assignedAt),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate assignments: %w", err)
	}
	return out, nil
}

// PutAssignment records or replaces the key of an identifier.
func (s *Store) PutAssignment(ctx context.Context, assignment keystore.Assignment) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	scope := strings.TrimSpace(assignment.Scope)
	if scope == "" {
		return fmt.Errorf("scope is required")
	}
	if assignment.Identifier == "" {
		return fmt.Errorf("identifier is required")
	}
	assignedAt := assignment.AssignedAt
	if assignedAt.IsZero() {
		assignedAt = time.Now()
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO string_keys (scope, identifier, string_key, assigned_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (scope, identifier) DO UPDATE SET
		   string_key = excluded.string_key,
		   assigned_at = excluded.assigned_at`,
		scope,
		assignment.Identifier,
		int64(assignment.Key),
		toMillis(assignedAt),
	)
	if err != nil {
		if isKeyUniqueViolation(err) {
			return keystore.ErrAlreadyExists
		}
		return fmt.Errorf("put assignment: %w", err)
	}
	return nil
}

func isKeyUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	message := strings.ToLower(err.Error())
	return strings.Contains(message, "unique constraint failed") &&
		strings.Contains(message, "string_keys.")
}

var _ keystore.Store = (*Store)(nil)
