// Package sqlite is a single-file alternative to the MongoDB adapters. It
// implements the identity, task and audit ports on modernc.org/sqlite.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// Store implements ports.IdentityStore, ports.TaskStore and
// ports.AuditRepository on one database.
type Store struct {
	db  *sql.DB
	log zerolog.Logger
}

// Open creates or opens the database at path, creating parent directories
// and the schema as needed.
func Open(path string, log zerolog.Logger) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	// Pragmas ride on the DSN so the driver applies them to every new connection.
	dsn := path + "?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// modernc's driver serialises writers anyway; one connection avoids
	// SQLITE_BUSY under concurrent requests.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, log: log.With().Str("component", "sqlite").Logger()}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	s.log.Info().Str("path", path).Msg("sqlite store initialized")
	return s, nil
}

func (s *Store) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS identities (
			id            TEXT PRIMARY KEY,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			role          TEXT NOT NULL,
			created_at    INTEGER NOT NULL,
			updated_at    INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS tasks (
			id          TEXT PRIMARY KEY,
			title       TEXT NOT NULL,
			description TEXT NOT NULL,
			status      TEXT NOT NULL,
			owner_id    TEXT NOT NULL REFERENCES identities(id),
			created_at  INTEGER NOT NULL,
			updated_at  INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_tasks_owner_created ON tasks(owner_id, created_at DESC);

		CREATE TABLE IF NOT EXISTS audit_events (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			kind        TEXT NOT NULL,
			identity_id TEXT,
			email       TEXT,
			resource    TEXT,
			reason      TEXT,
			at          INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_audit_at ON audit_events(at DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *Store) Close() error {
	s.log.Info().Msg("closing sqlite store")
	return s.db.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func isConstraintViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func toUnix(t time.Time) int64 { return t.UTC().UnixNano() }

func fromUnix(n int64) time.Time { return time.Unix(0, n).UTC() }

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
