package style

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownMode is returned by ParseMode for unrecognized names.
var ErrUnknownMode = errors.New("unknown standardization mode")

// Mode selects how vectors are standardized before comparison.
type Mode string

// Standardization modes.
const (
	// ModeCatalogue z-scores each dimension against a reference population.
	ModeCatalogue Mode = "catalogue"
	// ModeJoint z-scores a vector across its own components.
	ModeJoint Mode = "joint"
)

// ParseMode converts a configuration value into a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeCatalogue, "":
		return ModeCatalogue, nil
	case ModeJoint:
		return ModeJoint, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}
