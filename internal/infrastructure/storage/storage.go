// Package storage provides SQLite persistence for users, bank connections,
// transactions and invoices, plus the atomic transaction↔invoice relink.
package storage

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrNotFound is returned when a record does not exist or belongs to a
// different owner. Handlers map it to a 404.
var ErrNotFound = errors.New("record not found")

// Storage provides SQLite database access. It implements Repository.
type Storage struct {
	db *sql.DB
}

// Compile-time check that Storage implements Repository
var _ Repository = (*Storage)(nil)

// NewStorage opens (or creates) the SQLite database at dbPath and runs all
// pending migrations.
func NewStorage(dbPath string) (*Storage, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// Enable foreign key constraints (SQLite-specific)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := runMigrations(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Storage{db: db}, nil
}

// Close closes the database connection.
func (s *Storage) Close() error {
	return s.db.Close()
}

// runMigrations applies the embedded goose migrations.
func runMigrations(db *sql.DB) error {
	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// CreateUser inserts a user record and returns its id. Account creation
// itself belongs to the external auth collaborator; this exists for
// provisioning and tests.
func (s *Storage) CreateUser(email, name string) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO users (email, name) VALUES (?, ?)`,
		email, name,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

const dateLayout = "2006-01-02"

// dateString renders a nullable day for storage.
func dateString(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.Format(dateLayout)
}

// parseDate reads a nullable day column.
func parseDate(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s.String)
	if err != nil {
		return nil, fmt.Errorf("malformed date %q: %w", s.String, err)
	}
	return &t, nil
}

// parseTimestamp reads a nullable datetime column written either by
// CURRENT_TIMESTAMP or by this package.
func parseTimestamp(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	for _, layout := range []string{"2006-01-02 15:04:05", time.RFC3339, dateLayout} {
		if t, err := time.Parse(layout, s.String); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("malformed timestamp %q", s.String)
}

func timestampString(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04:05")
}

// nullableID converts an optional id for query parameters.
func nullableID(id *int64) interface{} {
	if id == nil {
		return nil
	}
	return *id
}
