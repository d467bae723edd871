package model_test

import (
	"errors"
	"math"
	"testing"

	model "github.com/okian/chessdna/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestMetricSet(t *testing.T) {
	convey.Convey("Given a metric set", t, func() {
		m := model.MetricSet{
			model.Aggressiveness: 80,
			model.Solidity:       60,
		}

		convey.Convey("When it holds finite values", func() {
			convey.Convey("Then it should validate", func() {
				convey.So(m.Validate(), convey.ShouldBeNil)
			})
		})

		convey.Convey("When a value is NaN", func() {
			m[model.Precision] = math.NaN()
			err := m.Validate()

			convey.Convey("Then it should fail with an invalid metric error", func() {
				convey.So(errors.Is(err, model.ErrInvalidMetric), convey.ShouldBeTrue)
				var ime *model.InvalidMetricError
				convey.So(errors.As(err, &ime), convey.ShouldBeTrue)
				convey.So(ime.Metric, convey.ShouldEqual, model.Precision)
			})
		})

		convey.Convey("When a value is infinite", func() {
			m[model.Complexity] = math.Inf(-1)

			convey.Convey("Then it should fail", func() {
				convey.So(errors.Is(m.Validate(), model.ErrInvalidMetric), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When reading with a fallback", func() {
			convey.So(m.Get(model.Aggressiveness, 50), convey.ShouldEqual, 80.0)
			convey.So(m.Get(model.DecisionSpeed, 50), convey.ShouldEqual, 50.0)
		})

		convey.Convey("When cloning", func() {
			c := m.Clone()
			c[model.Aggressiveness] = 1

			convey.Convey("Then the original should be untouched", func() {
				convey.So(m[model.Aggressiveness], convey.ShouldEqual, 80.0)
				convey.So(c.Names(), convey.ShouldResemble, []string{model.Aggressiveness, model.Solidity})
			})
		})
	})
}

func TestGameStatValidate(t *testing.T) {
	convey.Convey("Given game statistics", t, func() {
		convey.Convey("When the game is well formed", func() {
			g := model.GameStat{CentipawnLoss: model.CPL(42), Blunders: 1, Outcome: model.OutcomeWin}
			convey.So(g.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("When the centipawn loss is missing", func() {
			g := model.GameStat{Blunders: 2}
			convey.So(g.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("When the centipawn loss is negative", func() {
			g := model.GameStat{CentipawnLoss: model.CPL(-1)}
			convey.So(errors.Is(g.Validate(), model.ErrInvalidMetric), convey.ShouldBeTrue)
		})

		convey.Convey("When the centipawn loss is NaN", func() {
			g := model.GameStat{CentipawnLoss: model.CPL(math.NaN())}
			convey.So(errors.Is(g.Validate(), model.ErrInvalidMetric), convey.ShouldBeTrue)
		})

		convey.Convey("When a count is negative", func() {
			g := model.GameStat{Mistakes: -3}
			var ime *model.InvalidMetricError
			convey.So(errors.As(g.Validate(), &ime), convey.ShouldBeTrue)
			convey.So(ime.Metric, convey.ShouldEqual, "mistakes")
		})

		convey.Convey("When the outcome is unknown text", func() {
			g := model.GameStat{Outcome: "resigned"}
			convey.So(errors.Is(g.Validate(), model.ErrInvalidMetric), convey.ShouldBeTrue)
		})
	})
}

func TestParseOutcome(t *testing.T) {
	convey.Convey("Given result strings", t, func() {
		cases := []struct {
			result, color string
			want          model.Outcome
		}{
			{"1-0", "white", model.OutcomeWin},
			{"1-0", "black", model.OutcomeLoss},
			{"0-1", "Black", model.OutcomeWin},
			{"0-1", "white", model.OutcomeLoss},
			{"1/2-1/2", "", model.OutcomeDraw},
			{"*", "", model.OutcomeUnknown},
			{"Win", "", model.OutcomeWin},
		}
		for _, c := range cases {
			got, err := model.ParseOutcome(c.result, c.color)
			convey.So(err, convey.ShouldBeNil)
			convey.So(got, convey.ShouldEqual, c.want)
		}

		convey.Convey("When a decisive result has no colour", func() {
			_, err := model.ParseOutcome("1-0", "")
			convey.So(err, convey.ShouldNotBeNil)
		})

		convey.Convey("When the result is garbage", func() {
			_, err := model.ParseOutcome("2-0", "white")
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}
