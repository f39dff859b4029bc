// Package service wires validation, the hit test and the history store into
// the operations the HTTP API needs.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/areacheck/internal/adapters/repository"
	"github.com/okian/areacheck/internal/domain/area"
	"github.com/okian/areacheck/internal/domain/model"
	"github.com/okian/areacheck/pkg/logger"
	"github.com/okian/areacheck/pkg/metrics"
)

// Result is the outcome of one accepted attempt.
type Result struct {
	SessionID string
	Attempt   model.Attempt
	// History is the session history including Attempt. It is returned even
	// when persisting failed.
	History []model.Attempt
	// Minted is set when the session id was generated for this request.
	Minted bool
}

// Service implements the API dependencies for the area check.
type Service struct {
	mu sync.RWMutex

	variant   area.Variant
	validator *area.Validator
	store     repository.Store

	now     func() time.Time
	newID   func() string
	started bool

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStore sets the history store. The service closes it on Stop.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithVariant selects the bounds and hit rule.
func WithVariant(v area.Variant) Option {
	return func(s *Service) {
		s.variant = v
	}
}

// WithClock overrides the source of attempt server times.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithSessionIDGenerator overrides how new session ids are minted.
func WithSessionIDGenerator(gen func() string) Option {
	return func(s *Service) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// New constructs a Service. Without options it checks against the default
// variant and keeps histories in memory.
func New(opts ...Option) *Service {
	def, _ := area.LookupVariant(area.DefaultVariant)
	s := &Service{
		variant: def,
		now:     time.Now,
		newID:   uuid.NewString,
		logger:  nil, // resolved in Start
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.store == nil {
		s.store = repository.NewMemory()
	}
	s.validator = s.variant.Validator()
	return s
}

// Start resolves the logger and marks the service ready.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	s.started = true
	s.logger.Info(ctx, "area check service started",
		logger.String("variant", s.variant.Name),
		logger.String("bounds", s.variant.Bounds.String()),
		logger.String("rule", s.variant.Rule.String()),
	)
	return nil
}

// Stop closes the history store.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	if err := s.store.Close(); err != nil {
		s.logger.Error(context.Background(), "failed to close history store", logger.Error(err))
	}
	s.started = false
	s.logger.Info(context.Background(), "area check service stopped")
}

func (s *Service) log() logger.Logger {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.logger == nil {
		return logger.Nop()
	}
	return s.logger
}

// Variant returns the active variant.
func (s *Service) Variant() area.Variant {
	return s.variant
}

// Check validates raw, runs the hit test and appends the attempt to the
// session history. A blank sessionID starts a new session. Validation
// failures are returned as *area.ValidationError and leave the history
// untouched.
func (s *Service) Check(ctx context.Context, sessionID string, raw area.RawInput) (Result, error) {
	if err := checkSessionID(sessionID); err != nil {
		metrics.RecordValidationRejection("sessionId", area.KindInvalid.String())
		return Result{}, err
	}

	p, err := s.validator.Validate(raw)
	if err != nil {
		var ve *area.ValidationError
		if errors.As(err, &ve) {
			metrics.RecordValidationRejection(ve.Field, ve.Kind.String())
		}
		s.log().Debug(ctx, "attempt rejected", logger.Error(err))
		return Result{}, err
	}

	minted := false
	if sessionID == "" {
		sessionID = s.newID()
		minted = true
		metrics.RecordSessionMinted()
	}

	start := time.Now()
	hit := s.variant.IsHit(p)
	elapsed := time.Since(start)

	attempt := model.Attempt{
		X:                  p.X,
		Y:                  p.Y,
		R:                  p.R,
		Hit:                hit,
		ExecutionTimeNanos: elapsed.Nanoseconds(),
		ServerTime:         s.now(),
	}
	metrics.RecordAttempt(hit, attempt.ExecutionTimeNanos)

	history, err := s.store.Append(ctx, sessionID, attempt)
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrWrite):
		// The store already logged the failure; the answer is still valid.
		s.log().Warn(ctx, "attempt answered but not persisted", logger.String("session", sessionID))
	default:
		return Result{}, fmt.Errorf("%w: %w", ErrStorage, err)
	}

	return Result{
		SessionID: sessionID,
		Attempt:   attempt,
		History:   history,
		Minted:    minted,
	}, nil
}

// History returns the session history. A blank or unknown id has an empty
// history.
func (s *Service) History(ctx context.Context, sessionID string) ([]model.Attempt, error) {
	if err := checkSessionID(sessionID); err != nil {
		return nil, err
	}
	if sessionID == "" {
		return []model.Attempt{}, nil
	}
	return s.store.ReadAll(ctx, sessionID), nil
}

// Clear empties the session history and returns the history read back
// afterwards, which is empty unless a concurrent attempt landed in between.
func (s *Service) Clear(ctx context.Context, sessionID string) ([]model.Attempt, error) {
	if err := checkSessionID(sessionID); err != nil {
		return nil, err
	}
	if sessionID == "" {
		return []model.Attempt{}, nil
	}
	if err := s.store.Clear(ctx, sessionID); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	metrics.RecordSessionCleared()
	s.log().Debug(ctx, "session cleared", logger.String("session", sessionID))
	return s.store.ReadAll(ctx, sessionID), nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"started": s.started,
		"variant": s.variant.Name,
	}
	if hs, ok := s.store.(*repository.HistoryStore); ok {
		stats["backend"] = hs.Backend()
		stats["lockedSessions"] = hs.LockedSessions()
	}
	return stats
}
