package area

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// plainDecimal accepts an optional sign and digits with at most one decimal
// point. Exponents are rejected so a short input can never expand into a
// huge coefficient during comparison.
var plainDecimal = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)$`)

// maxInputLength bounds the raw length of a single coordinate.
const maxInputLength = 64

// RawInput carries the coordinates exactly as the client sent them.
type RawInput struct {
	X string
	Y string
	R string
}

// Point is a validated, exact-decimal input triple.
type Point struct {
	X decimal.Decimal
	Y decimal.Decimal
	R decimal.Decimal
}

// Validator checks raw input against a set of bounds. It holds no mutable
// state and is safe for concurrent use.
type Validator struct {
	bounds Bounds
}

// NewValidator creates a validator for the given bounds.
func NewValidator(b Bounds) *Validator {
	return &Validator{bounds: b}
}

// Bounds returns the ranges this validator enforces.
func (v *Validator) Bounds() Bounds {
	return v.bounds
}

// Validate parses and range-checks x, y and r, in that order. The returned
// error, if any, is a *ValidationError naming the first bad field.
func (v *Validator) Validate(raw RawInput) (Point, error) {
	x, err := parseField("x", raw.X, v.bounds.X.Contains)
	if err != nil {
		return Point{}, err
	}
	y, err := parseField("y", raw.Y, v.bounds.Y.Contains)
	if err != nil {
		return Point{}, err
	}
	r, err := parseField("r", raw.R, v.bounds.R.Contains)
	if err != nil {
		return Point{}, err
	}
	return Point{X: x, Y: y, R: r}, nil
}

func parseField(field, raw string, inRange func(decimal.Decimal) bool) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Decimal{}, &ValidationError{Field: field, Kind: KindInvalid}
	}
	s = strings.ReplaceAll(s, ",", ".")
	if len(s) > maxInputLength || !plainDecimal.MatchString(s) {
		return decimal.Decimal{}, &ValidationError{Field: field, Kind: KindNotANumber}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, &ValidationError{Field: field, Kind: KindNotANumber}
	}
	if !inRange(d) {
		return decimal.Decimal{}, &ValidationError{Field: field, Kind: KindOutOfRange}
	}
	return d, nil
}
