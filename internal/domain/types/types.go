// Package types contains the wire shapes shared by the HTTP API and its clients.
package types

import "encoding/json"

// HistoryEntry is one attempt as rendered in a response. Coordinates are
// JSON numbers carrying the exact decimal text.
type HistoryEntry struct {
	X          json.Number `json:"x"`
	Y          json.Number `json:"y"`
	R          json.Number `json:"r"`
	Hit        bool        `json:"hit"`
	ExecTime   int64       `json:"execTime"`
	ServerTime string      `json:"serverTime"`
}

// CheckResponse is the success body for /area-check.
type CheckResponse struct {
	SessionID       *string        `json:"sessionId"`
	Hit             bool           `json:"hit"`
	ExecutionTimeNS int64          `json:"execution_time_ns"`
	CurrentTime     string         `json:"current_time"`
	History         []HistoryEntry `json:"history"`
}

// ErrorResponse is the failure body for /area-check.
type ErrorResponse struct {
	Error       bool   `json:"error"`
	Reason      string `json:"reason"`
	CurrentTime string `json:"current_time"`
}
