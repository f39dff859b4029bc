// Package repository persists per-session attempt histories.
package repository

import (
	"context"
	"fmt"

	"github.com/okian/areacheck/internal/domain/model"
)

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendBadger = "badger"
	BackendMemory = "memory"
)

// Store provides durable, ordered, per-session attempt histories.
//
// Append and Clear are serialized per session id; different ids never block
// one another. A successful Append is visible to the next ReadAll or Append
// on the same id.
type Store interface {
	// Append adds attempt to the end of the session history, persists it and
	// returns the updated history. When persisting fails the updated history
	// is still returned together with an error wrapping ErrWrite.
	Append(ctx context.Context, sessionID string, attempt model.Attempt) ([]model.Attempt, error)

	// ReadAll returns the persisted history. A missing, unreadable or corrupt
	// record, or a closed store, reads as an empty history; the cause is
	// logged rather than returned.
	ReadAll(ctx context.Context, sessionID string) []model.Attempt

	// Clear removes the session history. Clearing an unknown session succeeds.
	Clear(ctx context.Context, sessionID string) error

	// Close releases the underlying storage.
	Close() error
}

// backend is a keyed blob store holding one encoded history per session.
type backend interface {
	name() string
	// load returns errNoRecord when the session has never been written.
	load(ctx context.Context, sessionID string) ([]byte, error)
	save(ctx context.Context, sessionID string, data []byte) error
	// remove succeeds when the record does not exist.
	remove(ctx context.Context, sessionID string) error
	close() error
}

// Open creates a store for the named backend. path is the session
// directory for file, the database file for sqlite and the database
// directory for badger; memory ignores it.
func Open(kind, path string, opts ...Option) (*HistoryStore, error) {
	switch kind {
	case BackendFile:
		return OpenFile(path, opts...)
	case BackendSQLite:
		return OpenSQLite(path, opts...)
	case BackendBadger:
		cfg := DefaultBadgerConfig()
		cfg.Path = path
		return OpenBadger(cfg, opts...)
	case BackendMemory:
		return NewMemory(opts...), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, kind)
	}
}
