package catalogue

import "errors"

var (
	// ErrDuplicateProfile is returned when two profiles share a name.
	ErrDuplicateProfile = errors.New("duplicate profile name")
	// ErrInvalidProfile is returned for a profile without a name or with
	// unusable metrics.
	ErrInvalidProfile = errors.New("invalid profile")
	// ErrNotFound is returned by Get for an unknown name.
	ErrNotFound = errors.New("profile not found")
)
