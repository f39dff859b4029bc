package area

import (
	"errors"
	"fmt"
)

// Sentinel kinds for area errors.
var (
	ErrUnknownVariant = errors.New("unknown variant")
	ErrInvalidBounds  = errors.New("invalid bounds")
)

// Kind classifies why a field was rejected.
type Kind int

// Rejection kinds, in the order they are checked for a single field.
const (
	KindInvalid Kind = iota + 1
	KindNotANumber
	KindOutOfRange
)

// String returns the metric label for the kind.
func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindNotANumber:
		return "not_a_number"
	case KindOutOfRange:
		return "out_of_range"
	default:
		return "unknown"
	}
}

// ValidationError reports the first field that failed validation.
type ValidationError struct {
	Field string
	Kind  Kind
}

// Error renders the client-facing reason, e.g. "x is not a number".
func (e *ValidationError) Error() string {
	switch e.Kind {
	case KindNotANumber:
		return fmt.Sprintf("%s is not a number", e.Field)
	case KindOutOfRange:
		return fmt.Sprintf("%s has an out of range value", e.Field)
	default:
		return fmt.Sprintf("%s is invalid", e.Field)
	}
}

// IsValidation reports whether err carries a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
