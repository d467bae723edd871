// Package insights turns a metric set into short strength and improvement
// notes.
package insights

import (
	"github.com/okian/chessdna/internal/domain/model"
)

// Insight is one observation about a player.
type Insight struct {
	Code    string  `json:"code"`
	Metric  string  `json:"metric"`
	Value   float64 `json:"value"`
	Message string  `json:"message"`
}

// Insights groups observations.
type Insights struct {
	Strengths    []Insight `json:"strengths"`
	Improvements []Insight `json:"improvements"`
}

// Thresholds are the cut-offs for each observation.
type Thresholds struct {
	// Strong is the score above which aggressiveness, solidity and tactics
	// count as strengths.
	Strong float64
	// Weak is the score below which aggressiveness and strategy need work.
	Weak float64
	// BlunderRate is the blunders per 100 games above which blunders need work.
	BlunderRate float64
}

// DefaultThresholds returns 70/50/20.
func DefaultThresholds() Thresholds {
	return Thresholds{Strong: 70, Weak: 50, BlunderRate: 20}
}

type rule struct {
	code    string
	metric  string
	message string
	strong  bool
	hit     func(v float64, t Thresholds) bool
}

var rules = []rule{ //nolint:gochecknoglobals // read-only table
	{"aggressive", model.Aggressiveness, "Offensive, aggressive style", true,
		func(v float64, t Thresholds) bool { return v > t.Strong }},
	{"solid", model.Solidity, "Solid and safe defence", true,
		func(v float64, t Thresholds) bool { return v > t.Strong }},
	{"tactical", model.Tactics, "Excellent tactical vision", true,
		func(v float64, t Thresholds) bool { return v > t.Strong }},
	{"passive", model.Aggressiveness, "Consider playing more aggressively in suitable positions", false,
		func(v float64, t Thresholds) bool { return v < t.Weak }},
	{"strategy", model.Strategy, "Work on strategic understanding", false,
		func(v float64, t Thresholds) bool { return v < t.Weak }},
	{"blunders", model.BlunderRate, "Reduce gross errors in the middlegame", false,
		func(v float64, t Thresholds) bool { return v > t.BlunderRate }},
}

// Option applies a configuration option to the Generator.
type Option func(*Generator)

// WithThresholds overrides the cut-offs.
func WithThresholds(t Thresholds) Option {
	return func(g *Generator) {
		g.thresholds = t
	}
}

// Generator evaluates the insight rules.
type Generator struct {
	thresholds Thresholds
}

// NewGenerator creates a generator with configuration options.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{thresholds: DefaultThresholds()}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate evaluates every rule against m. Metrics missing from m produce
// no observation.
func (g *Generator) Generate(m model.MetricSet) Insights {
	out := Insights{Strengths: []Insight{}, Improvements: []Insight{}}
	for _, r := range rules {
		v, ok := m[r.metric]
		if !ok || !r.hit(v, g.thresholds) {
			continue
		}
		in := Insight{Code: r.code, Metric: r.metric, Value: v, Message: r.message}
		if r.strong {
			out.Strengths = append(out.Strengths, in)
		} else {
			out.Improvements = append(out.Improvements, in)
		}
	}
	return out
}
