package service

import (
	"errors"

	"github.com/okian/areacheck/internal/domain/area"
)

// MaxSessionIDLength bounds client-supplied session ids in bytes.
const MaxSessionIDLength = 128

// ErrStorage wraps store failures the caller cannot recover from.
var ErrStorage = errors.New("history storage failed")

// errInvalidSessionID is returned for session ids over MaxSessionIDLength.
var errInvalidSessionID = &area.ValidationError{Field: "sessionId", Kind: area.KindInvalid}

func checkSessionID(id string) error {
	if len(id) > MaxSessionIDLength {
		return errInvalidSessionID
	}
	return nil
}
