package model

import (
	"fmt"
	"math"
	"strings"
)

// Outcome is a game result from the analysed player's perspective.
type Outcome string

// Known outcomes.
const (
	OutcomeWin     Outcome = "win"
	OutcomeLoss    Outcome = "loss"
	OutcomeDraw    Outcome = "draw"
	OutcomeUnknown Outcome = "unknown"
)

// ParseOutcome accepts win/loss/draw or a PGN result ("1-0", "0-1",
// "1/2-1/2", "*") read from the side the player had. color is "white" or
// "black" and is ignored for the word forms.
func ParseOutcome(result, color string) (Outcome, error) {
	r := strings.ToLower(strings.TrimSpace(result))
	switch r {
	case "win", "loss", "draw", "unknown":
		return Outcome(r), nil
	case "", "*":
		return OutcomeUnknown, nil
	case "1/2-1/2", "½-½":
		return OutcomeDraw, nil
	}

	white := strings.EqualFold(strings.TrimSpace(color), "white")
	black := strings.EqualFold(strings.TrimSpace(color), "black")
	if !white && !black {
		return OutcomeUnknown, fmt.Errorf("result %q needs a colour, got %q", result, color)
	}
	switch r {
	case "1-0":
		if white {
			return OutcomeWin, nil
		}
		return OutcomeLoss, nil
	case "0-1":
		if black {
			return OutcomeWin, nil
		}
		return OutcomeLoss, nil
	}
	return OutcomeUnknown, fmt.Errorf("unrecognised result %q", result)
}

// GameStat holds the per-game aggregates produced upstream.
type GameStat struct {
	GameID string `json:"game_id,omitempty" yaml:"game_id"`
	// CentipawnLoss is nil when the game has no estimate.
	CentipawnLoss *float64 `json:"acpl,omitempty" yaml:"acpl"`
	Blunders      int      `json:"blunders" yaml:"blunders"`
	Mistakes      int      `json:"mistakes" yaml:"mistakes"`
	Inaccuracies  int      `json:"inaccuracies" yaml:"inaccuracies"`
	Outcome       Outcome  `json:"outcome,omitempty" yaml:"outcome"`
}

// CPL returns a pointer to v for building GameStat literals.
func CPL(v float64) *float64 { return &v }

// Validate rejects negative counts and a centipawn loss that is negative,
// NaN or infinite.
func (g GameStat) Validate() error {
	if g.CentipawnLoss != nil {
		v := *g.CentipawnLoss
		switch {
		case math.IsNaN(v):
			return &InvalidMetricError{Metric: "acpl", Value: v, Reason: "not a number"}
		case math.IsInf(v, 0):
			return &InvalidMetricError{Metric: "acpl", Value: v, Reason: "infinite"}
		case v < 0:
			return &InvalidMetricError{Metric: "acpl", Value: v, Reason: "negative"}
		}
	}
	counts := []struct {
		name string
		n    int
	}{
		{"blunders", g.Blunders},
		{"mistakes", g.Mistakes},
		{"inaccuracies", g.Inaccuracies},
	}
	for _, c := range counts {
		if c.n < 0 {
			return &InvalidMetricError{Metric: c.name, Value: float64(c.n), Reason: "negative"}
		}
	}
	switch g.Outcome {
	case "", OutcomeWin, OutcomeLoss, OutcomeDraw, OutcomeUnknown:
	default:
		return &InvalidMetricError{Metric: "outcome", Reason: "unknown outcome " + string(g.Outcome)}
	}
	return nil
}
