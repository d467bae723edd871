package ranking

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/okian/chessdna/internal/domain/style"
)

// Cosine returns the cosine similarity of a and b in [-1,1]. If either is
// the zero vector, or has a non-finite component, the similarity is 0.
// Both vectors are divided by their largest magnitude first so the norms
// and the dot product cannot overflow.
func Cosine(a, b style.Vector) float64 {
	sa, ok := unitPeak(a)
	if !ok {
		return 0
	}
	sb, ok := unitPeak(b)
	if !ok {
		return 0
	}
	sim := floats.Dot(sa, sb) / (floats.Norm(sa, 2) * floats.Norm(sb, 2))
	if math.IsNaN(sim) {
		return 0
	}
	return math.Max(-1, math.Min(1, sim))
}

// unitPeak scales v so its largest magnitude is 1. ok is false for the zero
// vector and for vectors with NaN or infinite components.
func unitPeak(v style.Vector) ([]float64, bool) {
	peak := style.MaxAbs(v[:])
	if peak == 0 || math.IsNaN(peak) || math.IsInf(peak, 0) {
		return nil, false
	}
	out := v.Slice()
	for i := range out {
		out[i] /= peak
	}
	return out, true
}

// MatchPercent converts a similarity into a percentage in [0,100].
// Negative similarities map to 0.
func MatchPercent(sim float64) float64 {
	if math.IsNaN(sim) {
		return 0
	}
	return math.Max(0, math.Min(100, sim*100))
}
