package repository

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/okian/areacheck/internal/domain/model"
	"github.com/okian/areacheck/pkg/logger"
	"github.com/okian/areacheck/pkg/metrics"
)

const nanosecondsPerMillisecond = 1e6

// HistoryStore implements Store on top of a keyed blob backend. The
// read-modify-write in Append and the delete in Clear run under a
// per-session lock.
type HistoryStore struct {
	backend backend
	locks   *keyedMutex
	logger  logger.Logger
	closed  atomic.Bool
}

var _ Store = (*HistoryStore)(nil)

func newHistoryStore(b backend, opts ...Option) *HistoryStore {
	s := &HistoryStore{
		backend: b,
		locks:   newKeyedMutex(),
		logger:  logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.Named("history").With(logger.String("backend", b.name()))
	return s
}

// Backend returns the backend name, e.g. "file".
func (s *HistoryStore) Backend() string {
	return s.backend.name()
}

// LockedSessions returns the number of sessions with an append or clear in
// flight.
func (s *HistoryStore) LockedSessions() int {
	return s.locks.Len()
}

// Append implements Store.
func (s *HistoryStore) Append(ctx context.Context, sessionID string, attempt model.Attempt) ([]model.Attempt, error) {
	if sessionID == "" {
		return nil, ErrInvalidSession
	}
	if s.closed.Load() {
		return nil, ErrClosed
	}
	start := time.Now()

	unlock := s.locks.Lock(sessionID)
	defer unlock()

	history := s.read(ctx, sessionID)
	history = append(history, attempt)

	data, err := model.MarshalHistory(history)
	if err == nil {
		err = s.backend.save(ctx, sessionID, data)
	}
	s.observe("append", start)
	if err != nil {
		metrics.RecordHistoryError(s.backend.name(), "append")
		s.logger.Error(ctx, "failed to persist history",
			logger.String("session", sessionID),
			logger.Int("length", len(history)),
			logger.Error(err),
		)
		return history, fmt.Errorf("%w: %w", ErrWrite, err)
	}
	metrics.RecordHistoryLength(len(history))
	return history, nil
}

// ReadAll implements Store. A closed store reads as empty and logs a warning.
func (s *HistoryStore) ReadAll(ctx context.Context, sessionID string) []model.Attempt {
	if sessionID == "" {
		return []model.Attempt{}
	}
	if s.closed.Load() {
		s.logger.Warn(ctx, "history read after close; treating as empty",
			logger.String("session", sessionID),
			logger.Error(ErrClosed),
		)
		return []model.Attempt{}
	}
	start := time.Now()
	history := s.read(ctx, sessionID)
	s.observe("read", start)
	return history
}

// Clear implements Store.
func (s *HistoryStore) Clear(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return ErrInvalidSession
	}
	if s.closed.Load() {
		return ErrClosed
	}
	start := time.Now()

	unlock := s.locks.Lock(sessionID)
	defer unlock()

	err := s.backend.remove(ctx, sessionID)
	s.observe("clear", start)
	if err != nil {
		metrics.RecordHistoryError(s.backend.name(), "clear")
		s.logger.Error(ctx, "failed to clear history", logger.String("session", sessionID), logger.Error(err))
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}

// Close implements Store. It is safe to call more than once.
func (s *HistoryStore) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	return s.backend.close()
}

// read loads and decodes a history, substituting an empty one for a missing,
// unreadable or corrupt record.
func (s *HistoryStore) read(ctx context.Context, sessionID string) []model.Attempt {
	data, err := s.backend.load(ctx, sessionID)
	if errors.Is(err, errNoRecord) {
		return []model.Attempt{}
	}
	if err != nil {
		metrics.RecordHistoryError(s.backend.name(), "read")
		s.logger.Warn(ctx, "history unreadable; treating as empty",
			logger.String("session", sessionID),
			logger.Error(fmt.Errorf("%w: %w", ErrRead, err)),
		)
		return []model.Attempt{}
	}
	history, err := model.UnmarshalHistory(data)
	if err != nil {
		metrics.RecordHistoryCorrupted(s.backend.name())
		s.logger.Warn(ctx, "history corrupt; treating as empty",
			logger.String("session", sessionID),
			logger.Int("bytes", len(data)),
			logger.Error(err),
		)
		return []model.Attempt{}
	}
	return history
}

func (s *HistoryStore) observe(op string, start time.Time) {
	metrics.RecordHistoryOperation(s.backend.name(), op, float64(time.Since(start).Nanoseconds())/nanosecondsPerMillisecond)
}
