package comparative

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Trend summarizes one metric across all subjects that report it.
type Trend struct {
	Mean  float64 `json:"mean"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Count int     `json:"count"`
}

// TrendSummary returns per-metric statistics over the stored metric sets.
// It is empty when there are no subjects.
func (a *Analyzer) TrendSummary() map[string]Trend {
	a.mu.RLock()
	values := make(map[string][]float64)
	for _, name := range a.order {
		for metric, v := range a.subjects[name].metrics {
			values[metric] = append(values[metric], v)
		}
	}
	a.mu.RUnlock()

	out := make(map[string]Trend, len(values))
	for metric, xs := range values {
		out[metric] = Trend{
			Mean:  stat.Mean(xs, nil),
			Min:   floats.Min(xs),
			Max:   floats.Max(xs),
			Count: len(xs),
		}
	}
	return out
}
