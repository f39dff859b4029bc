package area

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Sign constrains one coordinate of a quadrant.
type Sign int

// Sign predicates. The inclusive variants decide which region owns the axes.
const (
	NonNegative Sign = iota + 1 // v >= 0
	Positive                    // v > 0
	NonPositive                 // v <= 0
	Negative                    // v < 0
)

// Matches reports whether v satisfies the sign predicate.
func (s Sign) Matches(v decimal.Decimal) bool {
	switch s {
	case NonNegative:
		return v.Sign() >= 0
	case Positive:
		return v.Sign() > 0
	case NonPositive:
		return v.Sign() <= 0
	case Negative:
		return v.Sign() < 0
	default:
		return false
	}
}

func (s Sign) String() string {
	switch s {
	case NonNegative:
		return ">=0"
	case Positive:
		return ">0"
	case NonPositive:
		return "<=0"
	case Negative:
		return "<0"
	default:
		return "?"
	}
}

// Quadrant selects part of the plane by the signs of x and y.
type Quadrant struct {
	X Sign
	Y Sign
}

// Contains reports whether (x, y) falls into the quadrant.
func (q Quadrant) Contains(x, y decimal.Decimal) bool {
	return q.X.Matches(x) && q.Y.Matches(y)
}

func (q Quadrant) String() string {
	return "x" + q.X.String() + ",y" + q.Y.String()
}

// Shape decides membership for a point already known to lie in its quadrant.
// Extents are expressed as multiples of r so a shape scales with the radius.
type Shape interface {
	Contains(x, y, r decimal.Decimal) bool
	String() string
}

// within compares a against limit with <= or, when strict, <.
func within(a, limit decimal.Decimal, strict bool) bool {
	c := a.Cmp(limit)
	return c < 0 || (c == 0 && !strict)
}

func relation(strict bool) string {
	if strict {
		return "<"
	}
	return "<="
}

// QuarterDisk is x² + y² <= (Radius·r)².
type QuarterDisk struct {
	Radius decimal.Decimal
	Strict bool
}

// Contains implements Shape.
func (d QuarterDisk) Contains(x, y, r decimal.Decimal) bool {
	rr := d.Radius.Mul(r)
	return within(x.Mul(x).Add(y.Mul(y)), rr.Mul(rr), d.Strict)
}

func (d QuarterDisk) String() string {
	return fmt.Sprintf("disk(x²+y² %s (%s·r)²)", relation(d.Strict), d.Radius)
}

// Rectangle is |x| <= Width·r and |y| <= Height·r.
type Rectangle struct {
	Width  decimal.Decimal
	Height decimal.Decimal
	Strict bool
}

// Contains implements Shape.
func (rc Rectangle) Contains(x, y, r decimal.Decimal) bool {
	return within(x.Abs(), rc.Width.Mul(r), rc.Strict) &&
		within(y.Abs(), rc.Height.Mul(r), rc.Strict)
}

func (rc Rectangle) String() string {
	op := relation(rc.Strict)
	return fmt.Sprintf("rect(|x| %s %s·r, |y| %s %s·r)", op, rc.Width, op, rc.Height)
}

// Triangle is the right triangle with legs XLeg·r and YLeg·r along the axes,
// i.e. |x|/XLeg + |y|/YLeg <= r. It is evaluated without division as
// |x|·YLeg + |y|·XLeg <= r·XLeg·YLeg.
type Triangle struct {
	XLeg   decimal.Decimal
	YLeg   decimal.Decimal
	Strict bool
}

// Contains implements Shape.
func (t Triangle) Contains(x, y, r decimal.Decimal) bool {
	lhs := x.Abs().Mul(t.YLeg).Add(y.Abs().Mul(t.XLeg))
	return within(lhs, r.Mul(t.XLeg).Mul(t.YLeg), t.Strict)
}

func (t Triangle) String() string {
	return fmt.Sprintf("triangle(|x|/%s + |y|/%s %s r)", t.XLeg, t.YLeg, relation(t.Strict))
}

// Empty never contains any point.
type Empty struct{}

// Contains implements Shape.
func (Empty) Contains(_, _, _ decimal.Decimal) bool { return false }

func (Empty) String() string { return "empty" }

// Region pairs a quadrant with the shape that governs it.
type Region struct {
	Quadrant Quadrant
	Shape    Shape
}

// Rule is an ordered list of regions. The first region whose quadrant
// contains the point decides; a point matching none is a miss.
type Rule struct {
	Regions []Region
}

// IsHit reports whether (x, y) lies in the area for radius r. It is pure and
// safe for concurrent use.
func (rl Rule) IsHit(x, y, r decimal.Decimal) bool {
	for _, reg := range rl.Regions {
		if reg.Quadrant.Contains(x, y) {
			return reg.Shape.Contains(x, y, r)
		}
	}
	return false
}

func (rl Rule) String() string {
	parts := make([]string, len(rl.Regions))
	for i, reg := range rl.Regions {
		parts[i] = reg.Quadrant.String() + ": " + reg.Shape.String()
	}
	return strings.Join(parts, "; ")
}
