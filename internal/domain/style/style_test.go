package style_test

import (
	"errors"
	"math"
	"testing"

	"github.com/okian/chessdna/internal/domain/model"
	"github.com/okian/chessdna/internal/domain/style"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRaw(t *testing.T) {
	Convey("Given an empty metric set", t, func() {
		v, err := style.Raw(model.MetricSet{})

		Convey("Then every component takes its default", func() {
			So(err, ShouldBeNil)
			So(v, ShouldResemble, style.Vector{50, 50, 75, 5, 50, 50})
		})
	})

	Convey("Given a metric set with extra and partial metrics", t, func() {
		v, err := style.Raw(model.MetricSet{
			model.Aggressiveness: 90,
			model.Tactics:        10,
		})

		Convey("Then only vector metrics are read", func() {
			So(err, ShouldBeNil)
			So(v[0], ShouldEqual, 90.0)
			So(v[2], ShouldEqual, 75.0)
		})
	})

	Convey("Given a NaN metric", t, func() {
		_, err := style.Raw(model.MetricSet{model.Precision: math.NaN()})

		Convey("Then it fails with an invalid metric error", func() {
			So(errors.Is(err, model.ErrInvalidMetric), ShouldBeTrue)
		})
	})
}

func TestScaler(t *testing.T) {
	Convey("Given a population", t, func() {
		pop := []style.Vector{
			{10, 50, 1, 5, 0, 60},
			{20, 50, 2, 5, 10, 70},
			{30, 50, 3, 5, 20, 80},
		}
		s := style.Fit(pop)

		Convey("Then the mean and population deviation are fitted per dimension", func() {
			So(s.Mean[0], ShouldAlmostEqual, 20.0, 1e-12)
			So(s.Std[0], ShouldAlmostEqual, math.Sqrt(200.0/3), 1e-12)
		})

		Convey("Then constant dimensions map to zero", func() {
			out := s.Apply(pop[0])
			So(out[1], ShouldEqual, 0.0)
			So(out[3], ShouldEqual, 0.0)
			So(out[0], ShouldBeLessThan, 0.0)
		})

		Convey("Then standardized columns have zero mean", func() {
			var sum float64
			for _, v := range pop {
				sum += s.Apply(v)[4]
			}
			So(sum, ShouldAlmostEqual, 0.0, 1e-9)
		})
	})

	Convey("Given a population near the float64 limit", t, func() {
		pop := []style.Vector{
			{math.MaxFloat64, -math.MaxFloat64, 1e200, 1, 1, 1},
			{-math.MaxFloat64, math.MaxFloat64, -1e200, 2, 1, 1},
			{math.MaxFloat64, math.MaxFloat64, 0, 3, 1, 1},
		}
		s := style.Fit(pop)

		Convey("Then the fit and every standardized component are finite", func() {
			for d := 0; d < style.Size; d++ {
				So(math.IsInf(s.Mean[d], 0) || math.IsNaN(s.Mean[d]), ShouldBeFalse)
				So(math.IsInf(s.Std[d], 0) || math.IsNaN(s.Std[d]), ShouldBeFalse)
			}
			for _, v := range pop {
				for _, x := range s.Apply(v) {
					So(math.IsInf(x, 0) || math.IsNaN(x), ShouldBeFalse)
				}
			}
			So(s.Apply(pop[2])[0], ShouldBeGreaterThan, 0.0)
		})
	})

	Convey("Given an empty population", t, func() {
		s := style.Fit(nil)
		So(s.Apply(style.Vector{1, 2, 3, 4, 5, 6}).IsZero(), ShouldBeTrue)
	})
}

func TestJoint(t *testing.T) {
	Convey("Given a vector with spread", t, func() {
		out := style.Joint(style.Vector{1, 2, 3, 4, 5, 6})

		Convey("Then its components have zero mean", func() {
			var sum float64
			for _, x := range out {
				sum += x
			}
			So(sum, ShouldAlmostEqual, 0.0, 1e-9)
		})
	})

	Convey("Given a constant vector", t, func() {
		So(style.Joint(style.Vector{7, 7, 7, 7, 7, 7}).IsZero(), ShouldBeTrue)
		So(style.Joint(style.Vector{math.MaxFloat64, math.MaxFloat64, math.MaxFloat64, math.MaxFloat64, math.MaxFloat64, math.MaxFloat64}).IsZero(), ShouldBeTrue)
	})

	Convey("Given a vector with components near the float64 limit", t, func() {
		out := style.Joint(style.Vector{math.MaxFloat64, math.MaxFloat64, math.MaxFloat64, 5, 50, 50})
		var sum float64
		for _, x := range out {
			So(math.IsInf(x, 0) || math.IsNaN(x), ShouldBeFalse)
			sum += x
		}
		So(sum, ShouldAlmostEqual, 0.0, 1e-9)
		So(out[0], ShouldBeGreaterThan, 0.0)
	})
}

func TestBuilder(t *testing.T) {
	Convey("Given a metric set", t, func() {
		m := model.MetricSet{
			model.Aggressiveness:    85,
			model.Solidity:          80,
			model.Precision:         99.7,
			model.MeanCentipawnLoss: 30,
			model.DecisionSpeed:     77.5,
		}

		Convey("When built twice in joint mode", func() {
			b := style.NewBuilder()
			a, err1 := b.Build(m)
			c, err2 := b.Build(m)

			Convey("Then the vectors are bit-identical", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(a == c, ShouldBeTrue)
			})
		})

		Convey("When built against a scaler", func() {
			raw, _ := style.Raw(m)
			b := style.NewBuilder(style.WithScaler(style.Fit([]style.Vector{raw})))
			v, err := b.Build(m)

			Convey("Then a single-member population standardizes to zero", func() {
				So(err, ShouldBeNil)
				So(v.IsZero(), ShouldBeTrue)
			})
		})
	})
}

func TestParseMode(t *testing.T) {
	Convey("Given mode names", t, func() {
		m, err := style.ParseMode("Joint")
		So(err, ShouldBeNil)
		So(m, ShouldEqual, style.ModeJoint)

		m, err = style.ParseMode("")
		So(err, ShouldBeNil)
		So(m, ShouldEqual, style.ModeCatalogue)

		_, err = style.ParseMode("per-scalar")
		So(errors.Is(err, style.ErrUnknownMode), ShouldBeTrue)
	})
}
