package area_test

import (
	"testing"

	"github.com/okian/areacheck/internal/domain/area"
	"github.com/shopspring/decimal"
	. "github.com/smartystreets/goconvey/convey"
)

func hit(v area.Variant, x, y, r string) bool {
	return v.Rule.IsHit(decimal.RequireFromString(x), decimal.RequireFromString(y), decimal.RequireFromString(r))
}

func TestRule_QuarterDisk(t *testing.T) {
	Convey("Given the quarter-disk rule", t, func() {
		v := mustVariant(area.VariantQuarterDisk)

		Convey("When the point is in the first quadrant", func() {
			Convey("Then x²+y² <= r² is a hit", func() {
				So(hit(v, "1", "1", "3"), ShouldBeTrue)
				So(hit(v, "0.5", "0.5", "1"), ShouldBeTrue)
			})

			Convey("Then points exactly on the circle are hits", func() {
				So(hit(v, "3", "0", "3"), ShouldBeTrue)
				So(hit(v, "0", "2", "2"), ShouldBeTrue)
				So(hit(v, "0.6", "0.8", "1"), ShouldBeTrue)
				So(hit(v, "1.8", "2.4", "3"), ShouldBeTrue)
			})

			Convey("Then points just outside the circle miss", func() {
				So(hit(v, "0.6", "0.8000001", "1"), ShouldBeFalse)
				So(hit(v, "2.2", "2.2", "3"), ShouldBeFalse)
			})

			Convey("Then the origin is a hit", func() {
				So(hit(v, "0", "0", "1"), ShouldBeTrue)
			})
		})

		Convey("When the point is in the second quadrant", func() {
			Convey("Then the rectangle x >= -r, y <= r/2 is inclusive", func() {
				So(hit(v, "-2", "1", "2"), ShouldBeTrue)
				So(hit(v, "-1", "0.5", "1"), ShouldBeTrue)
			})

			Convey("Then points past the rectangle miss", func() {
				So(hit(v, "-2.01", "0.5", "2"), ShouldBeFalse)
				So(hit(v, "-1", "1.01", "2"), ShouldBeFalse)
			})
		})

		Convey("When the point is in the third quadrant", func() {
			Convey("Then the triangle y >= -2x - r is inclusive", func() {
				So(hit(v, "-0.5", "0", "1"), ShouldBeTrue)
				So(hit(v, "0", "-1", "1"), ShouldBeTrue)
				So(hit(v, "-0.25", "-0.5", "1"), ShouldBeTrue)
			})

			Convey("Then points beyond the hypotenuse miss", func() {
				So(hit(v, "-0.26", "-0.5", "1"), ShouldBeFalse)
				So(hit(v, "-1", "-1", "1"), ShouldBeFalse)
			})
		})

		Convey("When the point is in the fourth quadrant", func() {
			Convey("Then it never hits regardless of r", func() {
				for _, r := range []string{"1", "2", "3", "4", "5"} {
					So(hit(v, "0.001", "-0.001", r), ShouldBeFalse)
					So(hit(v, "1", "-1", r), ShouldBeFalse)
					So(hit(v, "3", "-2.9", r), ShouldBeFalse)
				}
			})
		})

		Convey("When the point is on the negative y axis", func() {
			Convey("Then it belongs to the third-quadrant triangle", func() {
				So(hit(v, "0", "-0.5", "1"), ShouldBeTrue)
			})
		})
	})
}

func TestRule_Triangle(t *testing.T) {
	Convey("Given the triangle rule", t, func() {
		v := mustVariant(area.VariantTriangle)

		Convey("Then the first quadrant is y <= -2x + r inclusive", func() {
			So(hit(v, "1", "1", "3"), ShouldBeTrue)
			So(hit(v, "1.5", "0", "3"), ShouldBeTrue)
			So(hit(v, "1", "1.01", "3"), ShouldBeFalse)
		})

		Convey("Then the second quadrant is always empty", func() {
			So(hit(v, "-0.1", "0.1", "3"), ShouldBeFalse)
			So(hit(v, "-1", "1", "3"), ShouldBeFalse)
		})

		Convey("Then the third quadrant is the quarter disk", func() {
			So(hit(v, "-0.6", "-0.8", "1"), ShouldBeTrue)
			So(hit(v, "-1", "0", "1"), ShouldBeTrue)
			So(hit(v, "-0.8", "-0.7", "1"), ShouldBeFalse)
		})

		Convey("Then the fourth quadrant is the r by r square", func() {
			So(hit(v, "2", "-2", "2"), ShouldBeTrue)
			So(hit(v, "2", "-2.01", "2"), ShouldBeFalse)
		})

		Convey("Then the negative x axis belongs to the disk", func() {
			So(hit(v, "-1", "0", "1"), ShouldBeTrue)
			So(hit(v, "-1.01", "0", "1"), ShouldBeFalse)
		})
	})
}

func TestShapes_Strict(t *testing.T) {
	Convey("Given shapes configured with strict boundaries", t, func() {
		one := decimal.NewFromInt(1)
		half := decimal.RequireFromString("0.5")

		Convey("Then a strict disk excludes its boundary", func() {
			d := area.QuarterDisk{Radius: one, Strict: true}
			So(d.Contains(one, decimal.Zero, one), ShouldBeFalse)
			So(d.Contains(half, decimal.Zero, one), ShouldBeTrue)
		})

		Convey("Then a strict rectangle excludes its edges", func() {
			rc := area.Rectangle{Width: one, Height: half, Strict: true}
			So(rc.Contains(one, decimal.Zero, one), ShouldBeFalse)
			So(rc.Contains(half, decimal.RequireFromString("0.4"), one), ShouldBeTrue)
		})

		Convey("Then a strict triangle excludes its hypotenuse", func() {
			tr := area.Triangle{XLeg: half, YLeg: one, Strict: true}
			So(tr.Contains(half, decimal.Zero, one), ShouldBeFalse)
			So(tr.Contains(decimal.RequireFromString("0.25"), decimal.RequireFromString("0.49"), one), ShouldBeTrue)
		})

		Convey("Then the empty shape never matches", func() {
			So(area.Empty{}.Contains(decimal.Zero, decimal.Zero, one), ShouldBeFalse)
		})
	})
}

func TestRule_NoRegion(t *testing.T) {
	Convey("Given a rule without regions", t, func() {
		var rl area.Rule

		Convey("Then every point misses", func() {
			So(rl.IsHit(decimal.Zero, decimal.Zero, decimal.NewFromInt(1)), ShouldBeFalse)
		})
	})

	Convey("Given a variant description", t, func() {
		v := mustVariant(area.VariantQuarterDisk)

		Convey("Then it lists each region in order", func() {
			s := v.Rule.String()
			So(s, ShouldStartWith, "x>=0,y>=0: disk")
			So(s, ShouldContainSubstring, "rect(")
			So(s, ShouldContainSubstring, "triangle(")
		})
	})
}
