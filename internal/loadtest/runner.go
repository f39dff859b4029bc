package loadtest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/areacheck/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0o750
	outputPermission    = 0o600
)

const percentageMultiplier = 100

// Run executes a complete load run and returns its statistics. It fails
// with ErrLostAppends when a session history holds fewer or more entries
// than the attempts the service accepted for it.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	stats := &Stats{StartTime: time.Now()}
	log := logger.Get()

	log.Info(ctx, "starting attempt load run",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("attempts", cfg.Attempts),
		logger.Int("sessions", cfg.Sessions),
		logger.Int("workers", cfg.Workers),
		logger.Duration("timeout", cfg.Timeout),
		logger.String("variant", cfg.Variant),
	)

	client := newHTTPClient(cfg.BaseURL, cfg.Timeout)

	// Step 1: Check service health
	if err := client.health(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnhealthy, err)
	}

	// Step 2: Generate attempts
	attempts, err := generateAttempts(ctx, cfg, stats)
	if err != nil {
		return nil, fmt.Errorf("attempt generation failed: %w", err)
	}

	// Step 3: Submit attempts concurrently
	accepted, err := submitAttempts(ctx, cfg, client, attempts, stats)
	if err != nil {
		return nil, fmt.Errorf("attempt submission failed: %w", err)
	}

	// Step 4: Verify every session history
	if err := verifyHistories(ctx, cfg, client, attempts, accepted, stats); err != nil {
		return stats, err
	}

	// Step 5: Clear sessions
	if cfg.Clear {
		if err := clearSessions(ctx, cfg, client, accepted, stats); err != nil {
			return stats, err
		}
	}

	// Step 6: Save attempts to file
	if cfg.OutputFile != "" {
		if err := saveAttempts(cfg.OutputFile, attempts); err != nil {
			log.Warn(ctx, "failed to save attempts to file", logger.Error(err))
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats)
	return stats, nil
}

// submitAttempts posts attempts with cfg.Workers concurrent requests and
// returns the number accepted per session.
func submitAttempts(ctx context.Context, cfg *Config, client *HTTPClient, attempts []Attempt, stats *Stats) (map[string]int, error) {
	var (
		mu       sync.Mutex
		accepted = make(map[string]int)

		submitted, ok, rejected, failed, hits atomic.Int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for _, a := range attempts {
		g.Go(func() error {
			submitted.Add(1)
			resp, err := client.check(gctx, a)
			var se *statusError
			switch {
			case err == nil:
				ok.Add(1)
				if resp.Hit {
					hits.Add(1)
				}
				mu.Lock()
				accepted[a.SessionID]++
				mu.Unlock()
			case errors.As(err, &se) && se.Status < 500:
				rejected.Add(1)
				if cfg.Verbose {
					logger.Get().Warn(gctx, "attempt rejected",
						logger.String("x", a.X), logger.String("y", a.Y), logger.String("r", a.R),
						logger.String("reason", se.Reason))
				}
			default:
				failed.Add(1)
				if cfg.Verbose {
					logger.Get().Warn(gctx, "attempt failed", logger.Error(err))
				}
			}
			return gctx.Err()
		})
	}
	err := g.Wait()

	stats.AttemptsSubmitted = int(submitted.Load())
	stats.AttemptsAccepted = int(ok.Load())
	stats.AttemptsRejected = int(rejected.Load())
	stats.AttemptsFailed = int(failed.Load())
	stats.Hits = int(hits.Load())

	logger.Get().Info(ctx, "attempt submission completed",
		logger.Int("accepted", stats.AttemptsAccepted),
		logger.Int("rejected", stats.AttemptsRejected),
		logger.Int("failed", stats.AttemptsFailed),
	)
	return accepted, err
}

// verifyHistories reads back every session and compares its length with the
// accepted count. Failed submissions may or may not have been persisted, so
// a session with failures only needs at least the accepted count.
func verifyHistories(ctx context.Context, cfg *Config, client *HTTPClient, attempts []Attempt, accepted map[string]int, stats *Stats) error {
	sessions := sessionIDs(attempts)
	tolerant := stats.AttemptsFailed > 0

	var (
		mu         sync.Mutex
		mismatches []string
		verified   atomic.Int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for _, id := range sessions {
		g.Go(func() error {
			resp, err := client.history(gctx, id)
			if err != nil {
				return fmt.Errorf("history of %s: %w", id, err)
			}
			want, got := accepted[id], len(resp.History)
			if got == want || (tolerant && got > want) {
				verified.Add(1)
				return nil
			}
			mu.Lock()
			mismatches = append(mismatches, fmt.Sprintf("%s: want %d, got %d", id, want, got))
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	stats.SessionsVerified = int(verified.Load())

	if len(mismatches) > 0 {
		sort.Strings(mismatches)
		logger.Get().Error(ctx, "session histories do not match", logger.Any("mismatches", mismatches))
		return fmt.Errorf("%w: %d sessions", ErrLostAppends, len(mismatches))
	}
	logger.Get().Info(ctx, "session histories verified", logger.Int("sessions", stats.SessionsVerified))
	return nil
}

func clearSessions(ctx context.Context, cfg *Config, client *HTTPClient, accepted map[string]int, stats *Stats) error {
	var cleared atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for id := range accepted {
		g.Go(func() error {
			resp, err := client.clear(gctx, id)
			if err != nil {
				return fmt.Errorf("clear %s: %w", id, err)
			}
			if len(resp.History) != 0 {
				return fmt.Errorf("%w: %s has %d entries", ErrNotCleared, id, len(resp.History))
			}
			cleared.Add(1)
			return nil
		})
	}
	err := g.Wait()
	stats.SessionsCleared = int(cleared.Load())
	return err
}

func sessionIDs(attempts []Attempt) []string {
	seen := make(map[string]struct{})
	var ids []string
	for _, a := range attempts {
		if _, ok := seen[a.SessionID]; ok {
			continue
		}
		seen[a.SessionID] = struct{}{}
		ids = append(ids, a.SessionID)
	}
	return ids
}

func saveAttempts(filename string, attempts []Attempt) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(attempts, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal attempts: %w", err)
	}
	return os.WriteFile(filename, data, outputPermission)
}

// displayFinalStats logs the final run statistics.
func displayFinalStats(ctx context.Context, stats *Stats) {
	var acceptRate, attemptsPerSecond float64
	if stats.AttemptsSubmitted > 0 {
		acceptRate = float64(stats.AttemptsAccepted) / float64(stats.AttemptsSubmitted) * percentageMultiplier
	}
	if stats.Duration > 0 {
		attemptsPerSecond = float64(stats.AttemptsSubmitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(ctx, "final statistics",
		logger.Int("attemptsGenerated", stats.AttemptsGenerated),
		logger.Int("attemptsSubmitted", stats.AttemptsSubmitted),
		logger.Int("attemptsAccepted", stats.AttemptsAccepted),
		logger.Int("attemptsRejected", stats.AttemptsRejected),
		logger.Int("attemptsFailed", stats.AttemptsFailed),
		logger.Int("hits", stats.Hits),
		logger.Int("sessionsVerified", stats.SessionsVerified),
		logger.Int("sessionsCleared", stats.SessionsCleared),
		logger.Duration("duration", stats.Duration),
		logger.Float64("acceptRate", acceptRate),
		logger.Float64("attemptsPerSecond", attemptsPerSecond),
	)
}
