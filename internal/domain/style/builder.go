package style

import (
	"github.com/okian/chessdna/internal/domain/model"
)

// Option applies a configuration option to the Builder.
type Option func(*Builder)

// WithScaler standardizes against a fitted population (catalogue mode).
func WithScaler(s Scaler) Option {
	return func(b *Builder) {
		b.scaler = &s
	}
}

// Builder produces standardized style vectors. Without a scaler it uses
// joint standardization.
type Builder struct {
	scaler *Scaler
}

// NewBuilder creates a builder with configuration options.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Standardize applies the builder's standardization to a raw vector.
func (b *Builder) Standardize(raw Vector) Vector {
	if b.scaler != nil {
		return b.scaler.Apply(raw)
	}
	return Joint(raw)
}

// Build reads and standardizes m. The same MetricSet always yields the same
// vector.
func (b *Builder) Build(m model.MetricSet) (Vector, error) {
	raw, err := Raw(m)
	if err != nil {
		return Vector{}, err
	}
	return b.Standardize(raw), nil
}
