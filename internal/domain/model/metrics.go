// Package model contains domain models passed between layers.
package model

import (
	"math"
	"sort"
)

// Metric names. The first six feed the style vector, in this order.
const (
	Aggressiveness    = "aggressiveness"
	Solidity          = "solidity"
	Precision         = "precision"
	Complexity        = "complexity"
	MeanCentipawnLoss = "mean_centipawn_loss"
	DecisionSpeed     = "decision_speed"

	Tactics        = "tactics"
	Strategy       = "strategy"
	Improvisation  = "improvisation"
	BlunderRate    = "blunder_rate"
	MistakeRate    = "mistake_rate"
	InaccuracyRate = "inaccuracy_rate"
	WinRate        = "win_rate"
	DrawRate       = "draw_rate"
	LossRate       = "loss_rate"
	Games          = "games"
)

// MetricSet maps a metric name to its score.
type MetricSet map[string]float64

// Validate rejects NaN and infinite values.
func (m MetricSet) Validate() error {
	for _, name := range m.Names() {
		v := m[name]
		if math.IsNaN(v) {
			return &InvalidMetricError{Metric: name, Value: v, Reason: "not a number"}
		}
		if math.IsInf(v, 0) {
			return &InvalidMetricError{Metric: name, Value: v, Reason: "infinite"}
		}
	}
	return nil
}

// Get returns the metric or fallback when absent.
func (m MetricSet) Get(name string, fallback float64) float64 {
	if v, ok := m[name]; ok {
		return v
	}
	return fallback
}

// Clone returns an independent copy.
func (m MetricSet) Clone() MetricSet {
	if m == nil {
		return nil
	}
	out := make(MetricSet, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Names returns the metric names in lexical order.
func (m MetricSet) Names() []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
