package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// sqliteBackend keeps one row per session in a single-connection database.
type sqliteBackend struct {
	db *sql.DB
}

// OpenSQLite creates a store backed by the sqlite database at path.
func OpenSQLite(path string, opts ...Option) (*HistoryStore, error) {
	if path == "" {
		return nil, errors.New("empty sqlite path")
	}
	if err := os.MkdirAll(filepath.Dir(path), dirPermission); err != nil {
		return nil, fmt.Errorf("create sqlite directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return newHistoryStore(&sqliteBackend{db: db}, opts...), nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=FULL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("sqlite %s: %w", p, err)
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	const stmt = `CREATE TABLE IF NOT EXISTS session_history (
		session_id TEXT PRIMARY KEY,
		history TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);`
	if _, err := db.Exec(stmt); err != nil {
		return fmt.Errorf("sqlite schema: %w", err)
	}
	return nil
}

func (s *sqliteBackend) name() string { return BackendSQLite }

func (s *sqliteBackend) load(ctx context.Context, sessionID string) ([]byte, error) {
	var history string
	err := s.db.QueryRowContext(ctx,
		`SELECT history FROM session_history WHERE session_id = ?`, sessionID,
	).Scan(&history)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errNoRecord
	}
	if err != nil {
		return nil, err
	}
	return []byte(history), nil
}

func (s *sqliteBackend) save(ctx context.Context, sessionID string, data []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO session_history (session_id, history, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET history = excluded.history, updated_at = excluded.updated_at`,
		sessionID, string(data), time.Now().UTC().Format(time.RFC3339Nano),
	)
	return err
}

func (s *sqliteBackend) remove(ctx context.Context, sessionID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM session_history WHERE session_id = ?`, sessionID)
	return err
}

func (s *sqliteBackend) close() error { return s.db.Close() }
