package samplegames

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strconv"

	"github.com/google/uuid"

	"github.com/okian/chessdna/internal/domain/features"
	"github.com/okian/chessdna/internal/domain/model"
	"github.com/okian/chessdna/pkg/logger"
)

// Archetype shapes the centipawn losses and results of a synthetic player.
type Archetype struct {
	Name string
	// MeanLoss is the mean loss of an ordinary move.
	MeanLoss float64
	// ErrorRate is the chance that a move carries an extra error.
	ErrorRate float64
	// ErrorScale is the base size of that extra error.
	ErrorScale float64
	WinRate    float64
	DrawRate   float64
}

// Archetypes returns the built-in player archetypes.
func Archetypes() []Archetype {
	return []Archetype{
		{Name: "positional", MeanLoss: 12, ErrorRate: 0.01, ErrorScale: 120, WinRate: 0.35, DrawRate: 0.50},
		{Name: "tactician", MeanLoss: 25, ErrorRate: 0.04, ErrorScale: 200, WinRate: 0.50, DrawRate: 0.15},
		{Name: "solid", MeanLoss: 15, ErrorRate: 0.015, ErrorScale: 100, WinRate: 0.25, DrawRate: 0.60},
		{Name: "erratic", MeanLoss: 40, ErrorRate: 0.08, ErrorScale: 300, WinRate: 0.35, DrawRate: 0.10},
	}
}

// Move counts and the share of games left without an engine estimate.
const (
	minMoves        = 30
	moveSpread      = 31
	missingEvalRate = 0.05
)

// Generator produces synthetic players. It is not safe for concurrent use.
type Generator struct {
	rng        *rand.Rand
	thresholds features.Thresholds
	archetypes []Archetype
}

// NewGenerator returns a Generator seeded with seed.
func NewGenerator(seed uint64, th features.Thresholds) *Generator {
	if !th.Valid() {
		th = features.DefaultThresholds()
	}
	return &Generator{
		rng:        rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)), //nolint:gosec // reproducible samples
		thresholds: th,
		archetypes: Archetypes(),
	}
}

// Player builds one player of archetype a with n games.
func (g *Generator) Player(a Archetype, n int) Player {
	games := make([]model.GameStat, n)
	for i := range games {
		games[i] = g.game(a, i)
	}
	return Player{
		JobID:     uuid.NewString(),
		Subject:   a.Name + "-" + uuid.NewString()[:8],
		Archetype: a.Name,
		Games:     games,
	}
}

// Players builds count players, cycling through the archetypes.
func (g *Generator) Players(count, gamesPerPlayer int) []Player {
	out := make([]Player, count)
	for i := range out {
		out[i] = g.Player(g.archetypes[i%len(g.archetypes)], gamesPerPlayer)
	}
	return out
}

// game simulates the moves of one game and classifies each loss.
func (g *Generator) game(a Archetype, index int) model.GameStat {
	moves := minMoves + g.rng.IntN(moveSpread)
	stat := model.GameStat{
		GameID:  "g" + strconv.Itoa(index+1),
		Outcome: g.outcome(a),
	}

	var total float64
	for range moves {
		loss := g.rng.ExpFloat64() * a.MeanLoss
		if g.rng.Float64() < a.ErrorRate {
			loss += a.ErrorScale * (1 + g.rng.Float64())
		}
		total += loss
		switch g.thresholds.Classify(loss) {
		case features.SeverityBlunder:
			stat.Blunders++
		case features.SeverityMistake:
			stat.Mistakes++
		case features.SeverityInaccuracy:
			stat.Inaccuracies++
		}
	}
	if g.rng.Float64() >= missingEvalRate {
		acpl := total / float64(moves)
		stat.CentipawnLoss = &acpl
	}
	return stat
}

func (g *Generator) outcome(a Archetype) model.Outcome {
	x := g.rng.Float64()
	switch {
	case x < a.WinRate:
		return model.OutcomeWin
	case x < a.WinRate+a.DrawRate:
		return model.OutcomeDraw
	default:
		return model.OutcomeLoss
	}
}

// generatePlayers creates the configured players and records counts.
func generatePlayers(ctx context.Context, config *Config, stats *Stats) ([]Player, error) {
	if config.Players < 1 || config.GamesPerPlayer < 1 {
		return nil, fmt.Errorf("need at least one player and one game, got %d and %d", config.Players, config.GamesPerPlayer)
	}
	logger.Get().Info(ctx, "generating players",
		logger.Int("players", config.Players),
		logger.Int("gamesPerPlayer", config.GamesPerPlayer),
		logger.Any("seed", config.Seed))

	players := NewGenerator(config.Seed, config.Thresholds).Players(config.Players, config.GamesPerPlayer)

	stats.PlayersGenerated = len(players)
	stats.GamesGenerated = len(players) * config.GamesPerPlayer
	logger.Get().Info(ctx, "generated players successfully", logger.Int("games", stats.GamesGenerated))
	return players, nil
}
