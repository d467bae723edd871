// Package features reduces per-game statistics into a named metric set.
package features

import (
	"math"

	"github.com/okian/chessdna/internal/domain/model"
)

const maxScoreValue = 100

// PlaceholderMetrics lists metrics whose values come from a Sampler rather
// than from game data.
var PlaceholderMetrics = []string{model.DecisionSpeed, model.Improvisation} //nolint:gochecknoglobals // read-only table

// Formulas holds the coefficients of the heuristic score transforms.
//
//	aggressiveness = 100 - acpl/AggressivenessDivisor
//	solidity       = 100 - blunder_rate*SolidityBlunderWeight
//	precision      = 100 - acpl/PrecisionDivisor
//	tactics        = 100 - acpl/TacticsDivisor
//	strategy       = max(StrategyFloor, 100 - acpl/StrategyDivisor)
//
// Every result is clipped to [0,100].
type Formulas struct {
	AggressivenessDivisor float64
	SolidityBlunderWeight float64
	PrecisionDivisor      float64
	TacticsDivisor        float64
	StrategyDivisor       float64
	StrategyFloor         float64
}

// DefaultFormulas returns the stock coefficients.
func DefaultFormulas() Formulas {
	return Formulas{
		AggressivenessDivisor: 2,
		SolidityBlunderWeight: 1,
		PrecisionDivisor:      100,
		TacticsDivisor:        3,
		StrategyDivisor:       1.5,
		StrategyFloor:         50,
	}
}

// Option applies a configuration option to the Aggregator.
type Option func(*Aggregator)

// WithFormulas replaces the score coefficients. Non-positive divisors are
// ignored and keep their defaults.
func WithFormulas(f Formulas) Option {
	return func(a *Aggregator) {
		if f.AggressivenessDivisor > 0 {
			a.formulas.AggressivenessDivisor = f.AggressivenessDivisor
		}
		if f.SolidityBlunderWeight > 0 {
			a.formulas.SolidityBlunderWeight = f.SolidityBlunderWeight
		}
		if f.PrecisionDivisor > 0 {
			a.formulas.PrecisionDivisor = f.PrecisionDivisor
		}
		if f.TacticsDivisor > 0 {
			a.formulas.TacticsDivisor = f.TacticsDivisor
		}
		if f.StrategyDivisor > 0 {
			a.formulas.StrategyDivisor = f.StrategyDivisor
		}
		a.formulas.StrategyFloor = f.StrategyFloor
	}
}

// WithSampler sets the source of placeholder metrics.
func WithSampler(s Sampler) Option {
	return func(a *Aggregator) {
		if s != nil {
			a.sampler = s
		}
	}
}

// Aggregator turns a player's games into a MetricSet. It is safe for
// concurrent use when its Sampler is.
type Aggregator struct {
	formulas Formulas
	sampler  Sampler
}

// NewAggregator creates an aggregator with configuration options.
func NewAggregator(opts ...Option) *Aggregator {
	a := &Aggregator{
		formulas: DefaultFormulas(),
		sampler:  MidpointSampler{},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Formulas returns the coefficients in use.
func (a *Aggregator) Formulas() Formulas {
	return a.formulas
}

// Aggregate reduces games into a MetricSet.
//
// Games without a centipawn-loss estimate are left out of the mean but still
// count in the per-game rates. When no game carries an estimate,
// mean_centipawn_loss and the scores derived from it are omitted.
func (a *Aggregator) Aggregate(games []model.GameStat) (model.MetricSet, error) {
	if len(games) == 0 {
		return nil, ErrEmptyInput
	}

	var (
		cplSum, cplCount               float64
		blunders, mistakes, inaccuracy int
		wins, draws, losses            int
	)
	for _, g := range games {
		if err := g.Validate(); err != nil {
			return nil, err
		}
		if g.CentipawnLoss != nil {
			cplSum += *g.CentipawnLoss
			cplCount++
		}
		blunders += g.Blunders
		mistakes += g.Mistakes
		inaccuracy += g.Inaccuracies
		switch g.Outcome {
		case model.OutcomeWin:
			wins++
		case model.OutcomeDraw:
			draws++
		case model.OutcomeLoss:
			losses++
		}
	}

	n := float64(len(games))
	blunderRate := float64(blunders) / n * 100
	f := a.formulas

	m := model.MetricSet{
		model.Games:          n,
		model.BlunderRate:    blunderRate,
		model.MistakeRate:    float64(mistakes) / n * 100,
		model.InaccuracyRate: float64(inaccuracy) / n * 100,
		model.WinRate:        float64(wins) / n * 100,
		model.DrawRate:       float64(draws) / n * 100,
		model.LossRate:       float64(losses) / n * 100,
		model.Solidity:       clip(100 - blunderRate*f.SolidityBlunderWeight),
	}

	if cplCount > 0 {
		acpl := cplSum / cplCount
		m[model.MeanCentipawnLoss] = acpl
		m[model.Aggressiveness] = clip(100 - acpl/f.AggressivenessDivisor)
		m[model.Precision] = clip(100 - acpl/f.PrecisionDivisor)
		m[model.Tactics] = clip(100 - acpl/f.TacticsDivisor)
		m[model.Strategy] = clip(math.Max(f.StrategyFloor, 100-acpl/f.StrategyDivisor))
	}

	m[model.DecisionSpeed] = clip(a.sampler.Sample(model.DecisionSpeed, DecisionSpeedMin, DecisionSpeedMax))
	m[model.Improvisation] = clip(a.sampler.Sample(model.Improvisation, ImprovisationMin, ImprovisationMax))

	return m, nil
}

// clip bounds a score to [0,100].
func clip(x float64) float64 {
	return math.Max(0, math.Min(maxScoreValue, x))
}
