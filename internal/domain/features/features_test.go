package features_test

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/okian/chessdna/internal/domain/features"
	"github.com/okian/chessdna/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

var scoreMetrics = []string{ //nolint:gochecknoglobals // test table
	model.Aggressiveness,
	model.Solidity,
	model.Precision,
	model.Tactics,
	model.Strategy,
	model.DecisionSpeed,
	model.Improvisation,
}

func TestAggregate(t *testing.T) {
	Convey("Given an aggregator with default formulas", t, func() {
		agg := features.NewAggregator()

		Convey("When there are no games", func() {
			m, err := agg.Aggregate(nil)

			Convey("Then it should fail with ErrEmptyInput", func() {
				So(m, ShouldBeNil)
				So(errors.Is(err, features.ErrEmptyInput), ShouldBeTrue)
			})
		})

		Convey("When 10 games contain 2 blunders in total", func() {
			games := make([]model.GameStat, 10)
			for i := range games {
				games[i] = model.GameStat{CentipawnLoss: model.CPL(40)}
			}
			games[3].Blunders = 1
			games[7].Blunders = 1

			m, err := agg.Aggregate(games)

			Convey("Then the blunder rate is exactly 20", func() {
				So(err, ShouldBeNil)
				So(m[model.BlunderRate], ShouldEqual, 20.0)
				So(m[model.Solidity], ShouldEqual, 80.0)
				So(m[model.Games], ShouldEqual, 10.0)
			})
		})

		Convey("When games carry a mean centipawn loss of 30", func() {
			games := []model.GameStat{
				{CentipawnLoss: model.CPL(20), Outcome: model.OutcomeWin},
				{CentipawnLoss: model.CPL(40), Outcome: model.OutcomeLoss, Mistakes: 2},
				{Outcome: model.OutcomeDraw, Inaccuracies: 4},
				{},
			}
			m, err := agg.Aggregate(games)

			Convey("Then games without an estimate are excluded from the mean only", func() {
				So(err, ShouldBeNil)
				So(m[model.MeanCentipawnLoss], ShouldEqual, 30.0)
				So(m[model.MistakeRate], ShouldEqual, 50.0)
				So(m[model.InaccuracyRate], ShouldEqual, 100.0)
			})

			Convey("Then the scores follow the formulas", func() {
				So(m[model.Aggressiveness], ShouldEqual, 85.0)
				So(m[model.Precision], ShouldAlmostEqual, 99.7, 1e-9)
				So(m[model.Tactics], ShouldEqual, 90.0)
				So(m[model.Strategy], ShouldEqual, 80.0)
			})

			Convey("Then the outcome rates count unknown results in the denominator", func() {
				So(m[model.WinRate], ShouldEqual, 25.0)
				So(m[model.DrawRate], ShouldEqual, 25.0)
				So(m[model.LossRate], ShouldEqual, 25.0)
			})

			Convey("Then placeholder metrics use the midpoint", func() {
				So(m[model.DecisionSpeed], ShouldEqual, 77.5)
				So(m[model.Improvisation], ShouldEqual, 67.5)
			})
		})

		Convey("When the centipawn loss is very high", func() {
			m, err := agg.Aggregate([]model.GameStat{{CentipawnLoss: model.CPL(600)}})

			Convey("Then scores are clipped and strategy keeps its floor", func() {
				So(err, ShouldBeNil)
				So(m[model.Aggressiveness], ShouldEqual, 0.0)
				So(m[model.Tactics], ShouldEqual, 0.0)
				So(m[model.Strategy], ShouldEqual, 50.0)
			})
		})

		Convey("When no game has a centipawn loss", func() {
			m, err := agg.Aggregate([]model.GameStat{{Blunders: 1}, {}})

			Convey("Then acpl-derived metrics are omitted", func() {
				So(err, ShouldBeNil)
				_, ok := m[model.MeanCentipawnLoss]
				So(ok, ShouldBeFalse)
				_, ok = m[model.Aggressiveness]
				So(ok, ShouldBeFalse)
				So(m[model.BlunderRate], ShouldEqual, 50.0)
			})
		})

		Convey("When a game is invalid", func() {
			_, err := agg.Aggregate([]model.GameStat{{CentipawnLoss: model.CPL(math.NaN())}})

			Convey("Then it should fail with an invalid metric error", func() {
				So(errors.Is(err, model.ErrInvalidMetric), ShouldBeTrue)
			})
		})
	})

	Convey("Given random game sets", t, func() {
		rng := rand.New(rand.NewSource(7))
		agg := features.NewAggregator(features.WithSampler(features.NewSeededSampler(42)))

		Convey("Then every score stays within [0,100]", func() {
			for i := 0; i < 200; i++ {
				games := make([]model.GameStat, 1+rng.Intn(30))
				for j := range games {
					games[j] = model.GameStat{
						CentipawnLoss: model.CPL(rng.Float64() * 400),
						Blunders:      rng.Intn(4),
						Mistakes:      rng.Intn(5),
					}
				}
				m, err := agg.Aggregate(games)
				So(err, ShouldBeNil)
				for _, name := range scoreMetrics {
					So(m[name], ShouldBeBetweenOrEqual, 0.0, 100.0)
				}
				So(m[model.DecisionSpeed], ShouldBeBetweenOrEqual, features.DecisionSpeedMin, features.DecisionSpeedMax)
				So(m[model.Improvisation], ShouldBeBetweenOrEqual, features.ImprovisationMin, features.ImprovisationMax)
			}
		})
	})
}

func TestFormulas(t *testing.T) {
	Convey("Given custom formulas", t, func() {
		f := features.DefaultFormulas()
		f.AggressivenessDivisor = 4
		f.StrategyFloor = 0
		f.TacticsDivisor = 0
		agg := features.NewAggregator(features.WithFormulas(f))

		Convey("Then non-positive divisors keep their defaults", func() {
			So(agg.Formulas().TacticsDivisor, ShouldEqual, 3.0)
			So(agg.Formulas().AggressivenessDivisor, ShouldEqual, 4.0)
		})

		Convey("Then the new coefficients are applied", func() {
			m, err := agg.Aggregate([]model.GameStat{{CentipawnLoss: model.CPL(200)}})
			So(err, ShouldBeNil)
			So(m[model.Aggressiveness], ShouldEqual, 50.0)
			So(m[model.Strategy], ShouldEqual, 0.0)
		})
	})
}

func TestSamplers(t *testing.T) {
	Convey("Given two seeded samplers with the same seed", t, func() {
		a := features.NewSeededSampler(42)
		b := features.NewSeededSampler(42)

		Convey("Then they produce the same sequence", func() {
			for i := 0; i < 10; i++ {
				So(a.Sample("x", 60, 95), ShouldEqual, b.Sample("x", 60, 95))
			}
		})
	})

	Convey("Given a midpoint sampler", t, func() {
		So(features.MidpointSampler{}.Sample("x", 50, 85), ShouldEqual, 67.5)
	})
}

func TestThresholds(t *testing.T) {
	Convey("Given the default thresholds", t, func() {
		th := features.DefaultThresholds()

		Convey("Then losses are classified by strict cut-offs", func() {
			So(th.Valid(), ShouldBeTrue)
			So(th.Classify(50), ShouldEqual, features.SeverityNone)
			So(th.Classify(51), ShouldEqual, features.SeverityInaccuracy)
			So(th.Classify(150), ShouldEqual, features.SeverityInaccuracy)
			So(th.Classify(151), ShouldEqual, features.SeverityMistake)
			So(th.Classify(301), ShouldEqual, features.SeverityBlunder)
			So(features.SeverityBlunder.String(), ShouldEqual, "blunder")
		})

		Convey("Then out-of-order tiers are invalid", func() {
			th.Mistake = 10
			So(th.Valid(), ShouldBeFalse)
		})
	})
}
