package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/okian/areacheck/pkg/logger"
)

const badgerKeyPrefix = "session/"

// BadgerConfig configures the badger backend.
type BadgerConfig struct {
	// Path is the database directory. Ignored when InMemory is set.
	Path string
	// InMemory keeps everything in RAM. Useful for tests.
	InMemory   bool
	SyncWrites bool
	// NumVersionsToKeep is the number of versions retained per key.
	NumVersionsToKeep int
	// GCInterval is how often value log GC runs. Zero disables it.
	GCInterval     time.Duration
	GCDiscardRatio float64
}

// DefaultBadgerConfig returns durable production settings.
func DefaultBadgerConfig() BadgerConfig {
	return BadgerConfig{
		SyncWrites:        true,
		NumVersionsToKeep: 1,
		GCInterval:        5 * time.Minute,
		GCDiscardRatio:    0.5,
	}
}

// InMemoryBadgerConfig returns settings for tests.
func InMemoryBadgerConfig() BadgerConfig {
	return BadgerConfig{
		InMemory:          true,
		NumVersionsToKeep: 1,
	}
}

type badgerBackend struct {
	db     *badger.DB
	stop   chan struct{}
	wg     sync.WaitGroup
	logger logger.Logger
}

// badgerLogger adapts logger.Logger to badger's Logger interface.
type badgerLogger struct {
	l logger.Logger
}

func (b *badgerLogger) Errorf(format string, args ...any) {
	b.l.Error(context.Background(), fmt.Sprintf(format, args...))
}

func (b *badgerLogger) Warningf(format string, args ...any) {
	b.l.Warn(context.Background(), fmt.Sprintf(format, args...))
}

func (b *badgerLogger) Infof(format string, args ...any) {
	b.l.Debug(context.Background(), fmt.Sprintf(format, args...))
}

func (b *badgerLogger) Debugf(format string, args ...any) {
	b.l.Debug(context.Background(), fmt.Sprintf(format, args...))
}

// OpenBadger creates a store backed by a badger database.
func OpenBadger(cfg BadgerConfig, opts ...Option) (*HistoryStore, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("path is required for persistent badger database")
	}

	log := loggerFrom(opts).Named("badger")

	var bopts badger.Options
	if cfg.InMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, dirPermission); err != nil {
			return nil, fmt.Errorf("create badger directory %s: %w", cfg.Path, err)
		}
		bopts = badger.DefaultOptions(cfg.Path)
	}
	bopts = bopts.
		WithSyncWrites(cfg.SyncWrites).
		WithNumVersionsToKeep(cfg.NumVersionsToKeep).
		WithLogger(&badgerLogger{l: log})

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("open badger database: %w", err)
	}

	b := &badgerBackend{db: db, stop: make(chan struct{}), logger: log}
	if cfg.GCInterval > 0 && !cfg.InMemory {
		b.wg.Add(1)
		go b.runGC(cfg.GCInterval, cfg.GCDiscardRatio)
	}
	return newHistoryStore(b, opts...), nil
}

func (b *badgerBackend) runGC(interval time.Duration, ratio float64) {
	defer b.wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-b.stop:
			return
		case <-ticker.C:
			for {
				err := b.db.RunValueLogGC(ratio)
				if err != nil {
					if !errors.Is(err, badger.ErrNoRewrite) {
						b.logger.Warn(context.Background(), "value log gc failed", logger.Error(err))
					}
					break
				}
			}
		}
	}
}

func badgerKey(sessionID string) []byte {
	return []byte(badgerKeyPrefix + sessionID)
}

func (b *badgerBackend) name() string { return BackendBadger }

func (b *badgerBackend) load(_ context.Context, sessionID string) ([]byte, error) {
	var data []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(badgerKey(sessionID))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, errNoRecord
	}
	return data, err
}

func (b *badgerBackend) save(_ context.Context, sessionID string, data []byte) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(badgerKey(sessionID), data)
	})
}

func (b *badgerBackend) remove(_ context.Context, sessionID string) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(badgerKey(sessionID))
	})
}

func (b *badgerBackend) close() error {
	close(b.stop)
	b.wg.Wait()
	return b.db.Close()
}
