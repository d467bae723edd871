package model

import (
	"errors"
	"fmt"
)

// Sentinel kinds for model validation errors.
var (
	ErrInvalidMetric = errors.New("invalid metric")
)

// InvalidMetricError reports a metric or game field that is NaN, infinite
// or otherwise outside its domain.
type InvalidMetricError struct {
	Metric string
	Value  float64
	Reason string
}

func (e *InvalidMetricError) Error() string {
	return fmt.Sprintf("invalid metric %q (%v): %s", e.Metric, e.Value, e.Reason)
}

// Is makes errors.Is(err, ErrInvalidMetric) match.
func (e *InvalidMetricError) Is(target error) bool {
	return target == ErrInvalidMetric
}
