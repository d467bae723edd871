package ranking

import "errors"

var (
	// ErrEmptyCatalogue is returned when there is nothing to rank against.
	ErrEmptyCatalogue = errors.New("empty catalogue")
	// ErrInvalidTopN is returned for a non-positive result count.
	ErrInvalidTopN = errors.New("top_n must be at least 1")
)
