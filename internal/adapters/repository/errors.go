package repository

import "errors"

// Sentinel kinds for history store errors.
var (
	ErrWrite          = errors.New("history write failed")
	ErrRead           = errors.New("history read failed")
	ErrInvalidSession = errors.New("invalid session id")
	ErrUnknownBackend = errors.New("unknown history backend")
	ErrClosed         = errors.New("history store closed")

	errNoRecord = errors.New("no history record")
)
