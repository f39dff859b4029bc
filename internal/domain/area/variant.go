// Package area implements input validation and the quadrant-based hit test.
//
// All arithmetic uses exact decimals so points on a boundary classify the
// same way on every run.
package area

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// Built-in variant names.
const (
	VariantQuarterDisk = "quarter-disk"
	VariantTriangle    = "triangle"
)

// DefaultVariant is used when configuration does not name one.
const DefaultVariant = VariantQuarterDisk

// Variant bundles the accepted input bounds with the hit rule. Bounds and
// rule always travel together: a deployment picks one variant by name.
type Variant struct {
	Name   string
	Bounds Bounds
	Rule   Rule
}

// Validator returns a validator for the variant's bounds.
func (v Variant) Validator() *Validator {
	return NewValidator(v.Bounds)
}

// IsHit evaluates the variant's rule.
func (v Variant) IsHit(p Point) bool {
	return v.Rule.IsHit(p.X, p.Y, p.R)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decs(ss ...string) []decimal.Decimal {
	out := make([]decimal.Decimal, len(ss))
	for i, s := range ss {
		out[i] = dec(s)
	}
	return out
}

// quarterDisk: disk in the first quadrant, rectangle in the second,
// triangle in the third, fourth empty. The negative y-axis below the origin
// belongs to the third quadrant; x > 0, y < 0 falls through to a miss.
func quarterDisk() Variant {
	one := dec("1")
	return Variant{
		Name: VariantQuarterDisk,
		Bounds: Bounds{
			X: Closed(dec("-5"), dec("3")),
			Y: Open(dec("-3"), dec("3")),
			R: RadiusBounds{Allowed: decs("1", "2", "3", "4", "5")},
		},
		Rule: Rule{Regions: []Region{
			{Quadrant{NonNegative, NonNegative}, QuarterDisk{Radius: one}},
			{Quadrant{NonPositive, NonNegative}, Rectangle{Width: one, Height: dec("0.5")}},
			{Quadrant{NonPositive, NonPositive}, Triangle{XLeg: dec("0.5"), YLeg: one}},
		}},
	}
}

// triangle: triangle in the first quadrant, second empty, disk in the third,
// rectangle in the fourth.
func triangle() Variant {
	one := dec("1")
	return Variant{
		Name: VariantTriangle,
		Bounds: Bounds{
			X: Closed(dec("-2"), dec("2")),
			Y: Closed(dec("-5"), dec("5")),
			R: RadiusBounds{Range: Closed(dec("1"), dec("3"))},
		},
		Rule: Rule{Regions: []Region{
			{Quadrant{NonNegative, NonNegative}, Triangle{XLeg: dec("0.5"), YLeg: one}},
			{Quadrant{Negative, Positive}, Empty{}},
			{Quadrant{Negative, NonPositive}, QuarterDisk{Radius: one}},
			{Quadrant{NonNegative, Negative}, Rectangle{Width: one, Height: one}},
		}},
	}
}

var builtins = map[string]func() Variant{
	VariantQuarterDisk: quarterDisk,
	VariantTriangle:    triangle,
}

// LookupVariant returns a fresh copy of a built-in variant.
func LookupVariant(name string) (Variant, error) {
	if name == "" {
		name = DefaultVariant
	}
	build, ok := builtins[name]
	if !ok {
		return Variant{}, fmt.Errorf("%w: %q (known: %v)", ErrUnknownVariant, name, VariantNames())
	}
	return build(), nil
}

// VariantNames lists the built-in variant names in sorted order.
func VariantNames() []string {
	names := make([]string, 0, len(builtins))
	for n := range builtins {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Overrides replaces individual numeric ends of a variant's bounds. Empty
// strings keep the variant's value; openness of each end is preserved.
type Overrides struct {
	XMin, XMax string
	YMin, YMax string
	RMin, RMax string
	RAllowed   []string
}

// Apply returns a copy of v with the overrides applied and validated.
func (o Overrides) Apply(v Variant) (Variant, error) {
	b := v.Bounds
	var err error
	set := func(dst *decimal.Decimal, raw, name string) {
		if err != nil || raw == "" {
			return
		}
		d, perr := decimal.NewFromString(raw)
		if perr != nil {
			err = fmt.Errorf("%w: %s=%q: %v", ErrInvalidBounds, name, raw, perr)
			return
		}
		*dst = d
	}
	set(&b.X.Min, o.XMin, "x_min")
	set(&b.X.Max, o.XMax, "x_max")
	set(&b.Y.Min, o.YMin, "y_min")
	set(&b.Y.Max, o.YMax, "y_max")
	if o.RMin != "" || o.RMax != "" {
		b.R.Allowed = nil
		set(&b.R.Range.Min, o.RMin, "r_min")
		set(&b.R.Range.Max, o.RMax, "r_max")
	}
	if err != nil {
		return Variant{}, err
	}
	if len(o.RAllowed) > 0 {
		allowed := make([]decimal.Decimal, 0, len(o.RAllowed))
		for _, raw := range o.RAllowed {
			d, perr := decimal.NewFromString(raw)
			if perr != nil {
				return Variant{}, fmt.Errorf("%w: r_allowed=%q: %v", ErrInvalidBounds, raw, perr)
			}
			allowed = append(allowed, d)
		}
		b.R.Allowed = allowed
	}
	if err := b.Validate(); err != nil {
		return Variant{}, err
	}
	v.Bounds = b
	return v, nil
}
