package area_test

import (
	"errors"
	"testing"

	"github.com/okian/areacheck/internal/domain/area"
	. "github.com/smartystreets/goconvey/convey"
)

func mustVariant(name string) area.Variant {
	v, err := area.LookupVariant(name)
	if err != nil {
		panic(err)
	}
	return v
}

func reasonOf(err error) string {
	var ve *area.ValidationError
	if errors.As(err, &ve) {
		return ve.Error()
	}
	return ""
}

func TestValidator_QuarterDisk(t *testing.T) {
	Convey("Given the quarter-disk validator", t, func() {
		v := mustVariant(area.VariantQuarterDisk).Validator()

		Convey("When all fields are well formed and in range", func() {
			p, err := v.Validate(area.RawInput{X: "1", Y: "1,5", R: "3"})

			Convey("Then the decimals are returned exactly", func() {
				So(err, ShouldBeNil)
				So(p.X.String(), ShouldEqual, "1")
				So(p.Y.String(), ShouldEqual, "1.5")
				So(p.R.String(), ShouldEqual, "3")
			})
		})

		Convey("When x is not a number", func() {
			_, err := v.Validate(area.RawInput{X: "abc", Y: "0", R: "1"})

			Convey("Then the reason names x as not a number", func() {
				So(area.IsValidation(err), ShouldBeTrue)
				So(reasonOf(err), ShouldEqual, "x is not a number")
			})
		})

		Convey("When x is missing", func() {
			_, err := v.Validate(area.RawInput{Y: "0", R: "1"})
			So(reasonOf(err), ShouldEqual, "x is invalid")
		})

		Convey("When y is blank", func() {
			_, err := v.Validate(area.RawInput{X: "0", Y: "   ", R: "1"})
			So(reasonOf(err), ShouldEqual, "y is invalid")
		})

		Convey("When x is outside [-5, 3]", func() {
			_, err := v.Validate(area.RawInput{X: "3.0001", Y: "0", R: "1"})
			So(reasonOf(err), ShouldEqual, "x has an out of range value")
		})

		Convey("When x sits on the inclusive edges", func() {
			_, errLow := v.Validate(area.RawInput{X: "-5", Y: "0", R: "1"})
			_, errHigh := v.Validate(area.RawInput{X: "3", Y: "0", R: "1"})
			So(errLow, ShouldBeNil)
			So(errHigh, ShouldBeNil)
		})

		Convey("When y sits on the exclusive edges", func() {
			_, errLow := v.Validate(area.RawInput{X: "0", Y: "-3", R: "1"})
			_, errHigh := v.Validate(area.RawInput{X: "0", Y: "3", R: "1"})
			_, errInside := v.Validate(area.RawInput{X: "0", Y: "2.9999", R: "1"})
			So(reasonOf(errLow), ShouldEqual, "y has an out of range value")
			So(reasonOf(errHigh), ShouldEqual, "y has an out of range value")
			So(errInside, ShouldBeNil)
		})

		Convey("When r is not in the allowed set", func() {
			_, err := v.Validate(area.RawInput{X: "0", Y: "0", R: "2.5"})
			So(reasonOf(err), ShouldEqual, "r has an out of range value")
		})

		Convey("When r is an allowed value written with a different scale", func() {
			p, err := v.Validate(area.RawInput{X: "0", Y: "0", R: "2.00"})
			So(err, ShouldBeNil)
			So(p.R.Equal(p.R.Round(0)), ShouldBeTrue)
		})

		Convey("When a number uses exponent notation", func() {
			_, err := v.Validate(area.RawInput{X: "1e0", Y: "0", R: "1"})
			So(reasonOf(err), ShouldEqual, "x is not a number")
		})

		Convey("When several fields are bad", func() {
			_, err := v.Validate(area.RawInput{X: "9", Y: "nope", R: ""})

			Convey("Then x is reported first", func() {
				So(reasonOf(err), ShouldEqual, "x has an out of range value")
			})
		})

		Convey("When leading sign and bare fractions are used", func() {
			p, err := v.Validate(area.RawInput{X: "+.5", Y: "-0,25", R: "1"})
			So(err, ShouldBeNil)
			So(p.X.String(), ShouldEqual, "0.5")
			So(p.Y.String(), ShouldEqual, "-0.25")
		})
	})
}

func TestValidator_Triangle(t *testing.T) {
	Convey("Given the triangle validator with a continuous r range", t, func() {
		v := mustVariant(area.VariantTriangle).Validator()

		Convey("Then r accepts any value in [1, 3]", func() {
			_, err := v.Validate(area.RawInput{X: "0", Y: "0", R: "2.75"})
			So(err, ShouldBeNil)
		})

		Convey("Then r rejects values below the range", func() {
			_, err := v.Validate(area.RawInput{X: "0", Y: "0", R: "0.99"})
			So(reasonOf(err), ShouldEqual, "r has an out of range value")
		})

		Convey("Then x = -3 is out of range", func() {
			_, err := v.Validate(area.RawInput{X: "-3", Y: "1", R: "1"})
			So(reasonOf(err), ShouldContainSubstring, "x")
			So(reasonOf(err), ShouldEqual, "x has an out of range value")
		})
	})
}

func TestOverrides(t *testing.T) {
	Convey("Given the quarter-disk variant", t, func() {
		base := mustVariant(area.VariantQuarterDisk)

		Convey("When the x range is widened", func() {
			v, err := area.Overrides{XMin: "-10", XMax: "10"}.Apply(base)
			So(err, ShouldBeNil)
			_, verr := v.Validator().Validate(area.RawInput{X: "9.5", Y: "0", R: "1"})
			So(verr, ShouldBeNil)
		})

		Convey("When r is switched to a continuous range", func() {
			v, err := area.Overrides{RMin: "1", RMax: "4"}.Apply(base)
			So(err, ShouldBeNil)
			So(v.Bounds.R.Allowed, ShouldBeEmpty)
			_, verr := v.Validator().Validate(area.RawInput{X: "0", Y: "0", R: "3.5"})
			So(verr, ShouldBeNil)
		})

		Convey("When the allowed r set is replaced", func() {
			v, err := area.Overrides{RAllowed: []string{"1", "1.5"}}.Apply(base)
			So(err, ShouldBeNil)
			_, verr := v.Validator().Validate(area.RawInput{X: "0", Y: "0", R: "1,5"})
			So(verr, ShouldBeNil)
		})

		Convey("When min exceeds max", func() {
			_, err := area.Overrides{XMin: "4"}.Apply(base)
			So(errors.Is(err, area.ErrInvalidBounds), ShouldBeTrue)
		})

		Convey("When a value does not parse", func() {
			_, err := area.Overrides{YMax: "wide"}.Apply(base)
			So(errors.Is(err, area.ErrInvalidBounds), ShouldBeTrue)
		})

		Convey("When r is allowed to be zero", func() {
			_, err := area.Overrides{RAllowed: []string{"0", "1"}}.Apply(base)
			So(errors.Is(err, area.ErrInvalidBounds), ShouldBeTrue)
		})

		Convey("Then the base variant is left untouched", func() {
			_, _ = area.Overrides{XMin: "-1"}.Apply(base)
			So(base.Bounds.X.Min.String(), ShouldEqual, "-5")
		})
	})
}

func TestLookupVariant(t *testing.T) {
	Convey("Given the built-in variants", t, func() {
		Convey("Then an empty name resolves to the default", func() {
			v, err := area.LookupVariant("")
			So(err, ShouldBeNil)
			So(v.Name, ShouldEqual, area.DefaultVariant)
		})

		Convey("Then an unknown name is rejected", func() {
			_, err := area.LookupVariant("hexagon")
			So(errors.Is(err, area.ErrUnknownVariant), ShouldBeTrue)
		})

		Convey("Then bounds describe themselves for logs", func() {
			So(mustVariant(area.VariantQuarterDisk).Bounds.String(), ShouldEqual,
				"x in [-5, 3], y in (-3, 3), r in {1, 2, 3, 4, 5}")
			So(mustVariant(area.VariantTriangle).Bounds.String(), ShouldEqual,
				"x in [-2, 2], y in [-5, 5], r in [1, 3]")
		})

		Convey("Then names are listed in order", func() {
			So(area.VariantNames(), ShouldResemble, []string{area.VariantQuarterDisk, area.VariantTriangle})
		})
	})
}
