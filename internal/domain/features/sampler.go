package features

import (
	"math/rand"
	"sync"
)

// Placeholder ranges. These metrics are not derived from game data.
const (
	DecisionSpeedMin = 60.0
	DecisionSpeedMax = 95.0
	ImprovisationMin = 50.0
	ImprovisationMax = 85.0
)

// Sampler supplies values for placeholder metrics.
type Sampler interface {
	// Sample returns a value in [lo, hi] for the named metric.
	Sample(metric string, lo, hi float64) float64
}

// MidpointSampler always returns the middle of the range. It keeps every
// ranking reproducible for a given set of games.
type MidpointSampler struct{}

// Sample implements Sampler.
func (MidpointSampler) Sample(_ string, lo, hi float64) float64 {
	return lo + (hi-lo)/2
}

// SeededSampler draws uniformly from the range. The sequence is fixed by the
// seed, so a process fed the same requests in the same order reproduces
// its results.
type SeededSampler struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSeededSampler returns a randomized sampler.
func NewSeededSampler(seed int64) *SeededSampler {
	return &SeededSampler{
		rng: rand.New(rand.NewSource(seed)), //nolint:gosec // reproducible placeholder values, not security sensitive
	}
}

// Sample implements Sampler.
func (s *SeededSampler) Sample(_ string, lo, hi float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return lo + s.rng.Float64()*(hi-lo)
}
