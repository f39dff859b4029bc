// Package loadtest drives a running area check service with concurrent
// attempts and verifies that no append was lost.
package loadtest

import (
	"errors"
	"time"
)

// Config holds configuration for a load run.
type Config struct {
	BaseURL    string        // Base URL of the service
	Attempts   int           // Number of attempts to submit
	Sessions   int           // Number of sessions the attempts are spread over
	Workers    int           // Number of concurrent workers
	Timeout    time.Duration // HTTP request timeout
	Variant    string        // Variant whose bounds the generator stays within
	Seed       uint64        // Generator seed; zero picks one from the clock
	Clear      bool          // Clear every session once verified
	OutputFile string        // Optional JSON dump of the generated attempts
	Verbose    bool          // Log every failed request
}

// Attempt is one generated request.
type Attempt struct {
	SessionID string `json:"sessionId"`
	X         string `json:"x"`
	Y         string `json:"y"`
	R         string `json:"r"`
}

// Stats holds run statistics.
type Stats struct {
	AttemptsGenerated int
	AttemptsSubmitted int
	AttemptsAccepted  int
	AttemptsRejected  int
	AttemptsFailed    int
	Hits              int
	SessionsVerified  int
	SessionsCleared   int
	StartTime         time.Time
	EndTime           time.Time
	Duration          time.Duration
}

// Sentinel kinds for load run failures.
var (
	ErrInvalidConfig = errors.New("invalid load test config")
	ErrUnhealthy     = errors.New("service unhealthy")
	ErrLostAppends   = errors.New("history does not match accepted attempts")
	ErrNotCleared    = errors.New("history not empty after clear")
)

func (c *Config) validate() error {
	switch {
	case c.BaseURL == "":
		return errors.Join(ErrInvalidConfig, errors.New("empty base URL"))
	case c.Attempts <= 0:
		return errors.Join(ErrInvalidConfig, errors.New("attempts must be positive"))
	case c.Sessions <= 0:
		return errors.Join(ErrInvalidConfig, errors.New("sessions must be positive"))
	case c.Workers <= 0:
		return errors.Join(ErrInvalidConfig, errors.New("workers must be positive"))
	}
	return nil
}
