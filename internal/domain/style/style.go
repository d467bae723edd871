// Package style turns metric sets into fixed-length style vectors.
package style

import (
	"math"

	"github.com/okian/chessdna/internal/domain/model"
)

// Size is the number of dimensions of a style vector.
const Size = 6

// Dimensions lists the vector metrics in component order.
var Dimensions = [Size]string{ //nolint:gochecknoglobals // fixed layout
	model.Aggressiveness,
	model.Solidity,
	model.Precision,
	model.Complexity,
	model.MeanCentipawnLoss,
	model.DecisionSpeed,
}

// Defaults holds the value used for a vector metric missing from a MetricSet.
var Defaults = map[string]float64{ //nolint:gochecknoglobals // read-only table
	model.Aggressiveness:    50,
	model.Solidity:          50,
	model.Precision:         75,
	model.Complexity:        5,
	model.MeanCentipawnLoss: 50,
	model.DecisionSpeed:     50,
}

// Vector is a 6-dimensional style vector. It is a value type; copies never
// alias.
type Vector [Size]float64

// Slice returns the components as a new slice.
func (v Vector) Slice() []float64 {
	out := make([]float64, Size)
	copy(out, v[:])
	return out
}

// Map returns the components keyed by metric name.
func (v Vector) Map() map[string]float64 {
	out := make(map[string]float64, Size)
	for i, name := range Dimensions {
		out[name] = v[i]
	}
	return out
}

// IsZero reports whether every component is zero.
func (v Vector) IsZero() bool {
	return v == Vector{}
}

// Raw reads the six vector metrics from m, substituting defaults for missing
// entries. NaN and infinite values are rejected.
func Raw(m model.MetricSet) (Vector, error) {
	var v Vector
	for i, name := range Dimensions {
		x, ok := m[name]
		if !ok {
			v[i] = Defaults[name]
			continue
		}
		switch {
		case math.IsNaN(x):
			return Vector{}, &model.InvalidMetricError{Metric: name, Value: x, Reason: "not a number"}
		case math.IsInf(x, 0):
			return Vector{}, &model.InvalidMetricError{Metric: name, Value: x, Reason: "infinite"}
		}
		v[i] = x
	}
	return v, nil
}
