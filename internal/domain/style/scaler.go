package style

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// zeroSpread is the relative deviation below which a dimension is treated
// as constant.
const zeroSpread = 1e-12

// Scaler standardizes vectors against a fitted population.
type Scaler struct {
	Mean Vector
	Std  Vector
}

// Fit computes the per-dimension mean and population standard deviation of
// population. An empty population yields a scaler that maps every vector to
// zero. Columns are divided by their largest magnitude first so values near
// the float64 limit do not overflow.
func Fit(population []Vector) Scaler {
	var s Scaler
	if len(population) == 0 {
		return s
	}
	column := make([]float64, len(population))
	for d := 0; d < Size; d++ {
		for i, v := range population {
			column[i] = v[d]
		}
		peak := MaxAbs(column)
		if peak == 0 {
			continue
		}
		for i := range column {
			column[i] /= peak
		}
		mean, std := stat.PopMeanStdDev(column, nil)
		if std < zeroSpread {
			std = 0
		}
		s.Mean[d], s.Std[d] = mean*peak, std*peak
	}
	return s
}

// Apply z-scores v. Dimensions with no spread, and scores that are not
// finite, map to 0.
func (s Scaler) Apply(v Vector) Vector {
	var out Vector
	for d := 0; d < Size; d++ {
		if s.Std[d] == 0 {
			continue
		}
		z := (v[d]/2 - s.Mean[d]/2) / (s.Std[d] / 2)
		if math.IsNaN(z) || math.IsInf(z, 0) {
			continue
		}
		out[d] = z
	}
	return out
}

// Joint z-scores v across its own six components. A vector whose components
// are all equal maps to the zero vector.
func Joint(v Vector) Vector {
	var out Vector
	peak := MaxAbs(v[:])
	if peak == 0 {
		return out
	}
	scaled := v.Slice()
	for d := range scaled {
		scaled[d] /= peak
	}
	mean, std := stat.PopMeanStdDev(scaled, nil)
	if std < zeroSpread {
		return out
	}
	for d := 0; d < Size; d++ {
		out[d] = stat.StdScore(scaled[d], mean, std)
	}
	return out
}

// MaxAbs returns the largest absolute value in xs, or 0 for an empty slice.
func MaxAbs(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return floats.Norm(xs, math.Inf(1))
}
