package features

// Severity tiers for a single move.
type Severity int

// Known severities, mildest first.
const (
	SeverityNone Severity = iota
	SeverityInaccuracy
	SeverityMistake
	SeverityBlunder
)

func (s Severity) String() string {
	switch s {
	case SeverityInaccuracy:
		return "inaccuracy"
	case SeverityMistake:
		return "mistake"
	case SeverityBlunder:
		return "blunder"
	default:
		return "none"
	}
}

// Thresholds are the centipawn-loss cut-offs used upstream to classify moves.
// A loss strictly above a cut-off falls into that tier.
type Thresholds struct {
	Inaccuracy float64
	Mistake    float64
	Blunder    float64
}

// DefaultThresholds returns the stock cut-offs (50/150/300 cp).
func DefaultThresholds() Thresholds {
	return Thresholds{Inaccuracy: 50, Mistake: 150, Blunder: 300}
}

// Classify maps a centipawn loss to its severity.
func (t Thresholds) Classify(cpLoss float64) Severity {
	switch {
	case cpLoss > t.Blunder:
		return SeverityBlunder
	case cpLoss > t.Mistake:
		return SeverityMistake
	case cpLoss > t.Inaccuracy:
		return SeverityInaccuracy
	default:
		return SeverityNone
	}
}

// Valid reports whether the tiers are strictly increasing and non-negative.
func (t Thresholds) Valid() bool {
	return t.Inaccuracy >= 0 && t.Inaccuracy < t.Mistake && t.Mistake < t.Blunder
}
