// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	service "github.com/okian/areacheck/internal/app"
	"github.com/okian/areacheck/internal/domain/area"
	"github.com/okian/areacheck/internal/domain/model"
	"github.com/okian/areacheck/internal/domain/types"
	"github.com/okian/areacheck/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	Check(ctx context.Context, sessionID string, raw area.RawInput) (service.Result, error)
	History(ctx context.Context, sessionID string) ([]model.Attempt, error)
	Clear(ctx context.Context, sessionID string) ([]model.Attempt, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	areaCheckHandler *AreaCheckHandler
}

// Option configures the Server.
type Option func(*serverOptions)

type serverOptions struct {
	logger logger.Logger
	now    func() time.Time
}

// WithLogger sets the logger used for internal failures.
func WithLogger(l logger.Logger) Option {
	return func(o *serverOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithClock overrides the clock used for current_time.
func WithClock(now func() time.Time) Option {
	return func(o *serverOptions) {
		if now != nil {
			o.now = now
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	o := serverOptions{logger: logger.Nop(), now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		areaCheckHandler: NewAreaCheckHandler(deps, o.logger.Named("api"), o.now),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/area-check", MetricsMiddleware(s.areaCheckHandler.HandleAreaCheck, "area_check"))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, reason string, now time.Time) {
	writeJSON(w, status, types.ErrorResponse{
		Error:       true,
		Reason:      reason,
		CurrentTime: formatTime(now),
	})
}

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

// renderHistory converts stored attempts to their wire shape. Coordinates
// keep their exact decimal text.
func renderHistory(history []model.Attempt) []types.HistoryEntry {
	out := make([]types.HistoryEntry, len(history))
	for i, a := range history {
		out[i] = types.HistoryEntry{
			X:          json.Number(a.X.String()),
			Y:          json.Number(a.Y.String()),
			R:          json.Number(a.R.String()),
			Hit:        a.Hit,
			ExecTime:   a.ExecutionTimeNanos,
			ServerTime: formatTime(a.ServerTime),
		}
	}
	return out
}
