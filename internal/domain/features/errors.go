package features

import "errors"

// Sentinel kinds for aggregation errors.
var (
	ErrEmptyInput = errors.New("no games to aggregate")
)
