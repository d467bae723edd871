package service

import "errors"

// Sentinel kinds returned by Service.
var (
	ErrBackpressure = errors.New("analysis queue is full")
	ErrNotStarted   = errors.New("service not started")
	ErrInvalidJob   = errors.New("invalid analysis job")
	ErrTopNTooLarge = errors.New("top_n exceeds the configured maximum")
)
