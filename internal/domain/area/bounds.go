package area

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Interval is a numeric range whose ends are individually open or closed.
type Interval struct {
	Min     decimal.Decimal
	Max     decimal.Decimal
	MinOpen bool
	MaxOpen bool
}

// Closed returns the inclusive interval [min, max].
func Closed(minValue, maxValue decimal.Decimal) Interval {
	return Interval{Min: minValue, Max: maxValue}
}

// Open returns the exclusive interval (min, max).
func Open(minValue, maxValue decimal.Decimal) Interval {
	return Interval{Min: minValue, Max: maxValue, MinOpen: true, MaxOpen: true}
}

// Contains reports whether v lies inside the interval.
func (i Interval) Contains(v decimal.Decimal) bool {
	lo := v.Cmp(i.Min)
	if lo < 0 || (lo == 0 && i.MinOpen) {
		return false
	}
	hi := v.Cmp(i.Max)
	if hi > 0 || (hi == 0 && i.MaxOpen) {
		return false
	}
	return true
}

// String renders the interval in mathematical notation, e.g. "[-5, 3)".
func (i Interval) String() string {
	open, closeBr := "[", "]"
	if i.MinOpen {
		open = "("
	}
	if i.MaxOpen {
		closeBr = ")"
	}
	return open + i.Min.String() + ", " + i.Max.String() + closeBr
}

func (i Interval) validate(field string) error {
	if i.Min.GreaterThan(i.Max) {
		return fmt.Errorf("%w: %s min %s exceeds max %s", ErrInvalidBounds, field, i.Min, i.Max)
	}
	return nil
}

// RadiusBounds constrains r either to an interval or, when Allowed is
// non-empty, to a discrete set.
type RadiusBounds struct {
	Range   Interval
	Allowed []decimal.Decimal
}

// Contains reports whether r is acceptable. Set membership is numeric, so
// "2.0" matches 2.
func (b RadiusBounds) Contains(r decimal.Decimal) bool {
	if len(b.Allowed) == 0 {
		return b.Range.Contains(r)
	}
	for _, a := range b.Allowed {
		if a.Equal(r) {
			return true
		}
	}
	return false
}

// String describes the constraint for logs.
func (b RadiusBounds) String() string {
	if len(b.Allowed) == 0 {
		return b.Range.String()
	}
	parts := make([]string, len(b.Allowed))
	for i, a := range b.Allowed {
		parts[i] = a.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Bounds holds the accepted ranges for all three inputs.
type Bounds struct {
	X Interval
	Y Interval
	R RadiusBounds
}

// String describes all three ranges for logs, e.g.
// "x in [-5, 3], y in (-3, 3), r in {1, 2, 3, 4, 5}".
func (b Bounds) String() string {
	return "x in " + b.X.String() + ", y in " + b.Y.String() + ", r in " + b.R.String()
}

// Validate checks the bounds are internally consistent.
func (b Bounds) Validate() error {
	if err := b.X.validate("x"); err != nil {
		return err
	}
	if err := b.Y.validate("y"); err != nil {
		return err
	}
	if len(b.R.Allowed) == 0 {
		if err := b.R.Range.validate("r"); err != nil {
			return err
		}
		if !b.R.Range.Min.IsPositive() && !(b.R.Range.Min.IsZero() && b.R.Range.MinOpen) {
			return fmt.Errorf("%w: r must be positive, got %s", ErrInvalidBounds, b.R.Range)
		}
		return nil
	}
	for _, a := range b.R.Allowed {
		if !a.IsPositive() {
			return fmt.Errorf("%w: r must be positive, got %s", ErrInvalidBounds, a)
		}
	}
	return nil
}
