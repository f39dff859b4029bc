// Package model contains domain models passed between layers.
package model

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Attempt is one answered hit test. It is never modified after creation.
// ExecutionTimeNanos covers the hit test call only, never I/O.
type Attempt struct {
	X                  decimal.Decimal `json:"x"`
	Y                  decimal.Decimal `json:"y"`
	R                  decimal.Decimal `json:"r"`
	Hit                bool            `json:"hit"`
	ExecutionTimeNanos int64           `json:"execTime"`
	ServerTime         time.Time       `json:"serverTime"`
}

// MarshalHistory encodes a session history for persistence. Decimals are
// written as strings so they survive the round trip exactly.
func MarshalHistory(history []Attempt) ([]byte, error) {
	if history == nil {
		history = []Attempt{}
	}
	return json.Marshal(history)
}

// UnmarshalHistory decodes a persisted history. A JSON null decodes to an
// empty history.
func UnmarshalHistory(data []byte) ([]Attempt, error) {
	var history []Attempt
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, err
	}
	if history == nil {
		history = []Attempt{}
	}
	return history, nil
}
