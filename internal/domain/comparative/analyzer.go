// Package comparative keeps a pool of analyzed subjects and compares them
// with each other.
package comparative

import (
	"strings"
	"sync"

	"github.com/okian/chessdna/internal/domain/model"
	"github.com/okian/chessdna/internal/domain/ranking"
	"github.com/okian/chessdna/internal/domain/style"
)

// Option applies a configuration option to the Analyzer.
type Option func(*Analyzer)

// WithBuilder sets how subject vectors are built. The default is joint
// standardization.
func WithBuilder(b *style.Builder) Option {
	return func(a *Analyzer) {
		if b != nil {
			a.builder = b
		}
	}
}

// WithMaxSubjects bounds the pool. Adding a new subject to a full pool
// evicts the earliest added one. Values <= 0 leave the pool unbounded.
func WithMaxSubjects(n int) Option {
	return func(a *Analyzer) {
		a.maxSubjects = n
	}
}

type subject struct {
	metrics model.MetricSet
	vector  style.Vector
}

// Analyzer is a named pool of subjects. Writes are serialized and reads
// see a consistent snapshot.
type Analyzer struct {
	mu          sync.RWMutex
	builder     *style.Builder
	maxSubjects int
	order       []string
	subjects    map[string]subject
}

// NewAnalyzer creates an empty analyzer with configuration options.
func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{
		builder:  style.NewBuilder(),
		subjects: make(map[string]subject),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Add builds a vector for metrics and stores it under name. Adding an
// existing name replaces its data and keeps its original position. Names
// are trimmed here and in every lookup.
func (a *Analyzer) Add(name string, metrics model.MetricSet) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrInvalidSubject
	}
	if err := metrics.Validate(); err != nil {
		return err
	}
	v, err := a.builder.Build(metrics)
	if err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.subjects[name]; !ok {
		if a.maxSubjects > 0 && len(a.order) >= a.maxSubjects {
			evict := len(a.order) - a.maxSubjects + 1
			for _, n := range a.order[:evict] {
				delete(a.subjects, n)
			}
			a.order = append(a.order[:0], a.order[evict:]...)
		}
		a.order = append(a.order, name)
	}
	a.subjects[name] = subject{metrics: metrics.Clone(), vector: v}
	return nil
}

// Compare returns the cosine similarity of two stored subjects.
func (a *Analyzer) Compare(x, y string) (float64, error) {
	x, y = strings.TrimSpace(x), strings.TrimSpace(y)

	a.mu.RLock()
	defer a.mu.RUnlock()

	sx, ok := a.subjects[x]
	if !ok {
		return 0, &UnknownSubjectError{Name: x}
	}
	sy, ok := a.subjects[y]
	if !ok {
		return 0, &UnknownSubjectError{Name: y}
	}
	return ranking.Cosine(sx.vector, sy.vector), nil
}

// Subjects returns subject names in insertion order.
func (a *Analyzer) Subjects() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]string, len(a.order))
	copy(out, a.order)
	return out
}

// Len returns the number of subjects.
func (a *Analyzer) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.order)
}

// Metrics returns a copy of a subject's metric set.
func (a *Analyzer) Metrics(name string) (model.MetricSet, error) {
	name = strings.TrimSpace(name)

	a.mu.RLock()
	defer a.mu.RUnlock()
	s, ok := a.subjects[name]
	if !ok {
		return nil, &UnknownSubjectError{Name: name}
	}
	return s.metrics.Clone(), nil
}

// snapshot returns names and vectors in insertion order.
func (a *Analyzer) snapshot() ([]string, []style.Vector) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	names := make([]string, len(a.order))
	vectors := make([]style.Vector, len(a.order))
	for i, n := range a.order {
		names[i] = n
		vectors[i] = a.subjects[n].vector
	}
	return names, vectors
}
