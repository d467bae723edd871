package samplegames

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/okian/chessdna/internal/domain/model"
	"github.com/okian/chessdna/pkg/logger"
)

const epsilon = 1e-9

// scoreMetrics are bounded to [0,100] in every report.
var scoreMetrics = []string{ //nolint:gochecknoglobals // fixed list
	model.Aggressiveness, model.Solidity, model.Precision, model.Tactics,
	model.Strategy, model.DecisionSpeed, model.Improvisation,
	model.BlunderRate, model.WinRate, model.DrawRate, model.LossRate,
}

// VerifyReport checks the ranking invariants of a single report against the
// player it was produced for. It returns one message per violation.
func VerifyReport(p Player, rep Report, topN int) []string {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, p.Subject+": "+fmt.Sprintf(format, args...))
	}

	if rep.Subject != p.Subject {
		add("subject is %q", rep.Subject)
	}
	if rep.Games != len(p.Games) {
		add("games = %d, want %d", rep.Games, len(p.Games))
	}
	if topN > 0 && len(rep.Matches) > topN {
		add("%d matches, asked for %d", len(rep.Matches), topN)
	}
	if len(rep.Matches) == 0 {
		add("no matches")
		return problems
	}
	if rep.TopMatch == nil || rep.TopMatch.Name != rep.Matches[0].Name {
		add("top match does not equal the first match")
	}

	seen := make(map[string]bool, len(rep.Matches))
	var sum float64
	for i, m := range rep.Matches {
		if m.Rank != i+1 {
			add("match %d has rank %d", i, m.Rank)
		}
		if seen[m.Name] {
			add("profile %q listed twice", m.Name)
		}
		seen[m.Name] = true
		if m.Similarity < -1-epsilon || m.Similarity > 1+epsilon {
			add("similarity %.6f out of range for %q", m.Similarity, m.Name)
		}
		if m.MatchPercent < 0 || m.MatchPercent > 100 {
			add("match percent %.3f out of range for %q", m.MatchPercent, m.Name)
		}
		if i > 0 && m.Similarity > rep.Matches[i-1].Similarity+epsilon {
			add("matches not sorted at %d", i)
		}
		sum += m.Similarity
	}
	if mean := sum / float64(len(rep.Matches)); math.Abs(mean-rep.Compatibility) > 1e-6 {
		add("compatibility %.6f, mean similarity %.6f", rep.Compatibility, mean)
	}

	for _, name := range scoreMetrics {
		v, ok := rep.Metrics[name]
		if ok && (v < 0 || v > 100) {
			add("%s = %.3f out of [0,100]", name, v)
		}
	}
	return problems
}

// verifyResults checks every retrieved report and logs the archetype each
// reference profile attracted.
func verifyResults(ctx context.Context, config *Config, players []Player, reports map[string]Report, stats *Stats) error {
	logger.Get().Info(ctx, "verifying results", logger.Int("reports", len(reports)))
	if len(reports) == 0 {
		return fmt.Errorf("no reports to verify")
	}

	var problems []string
	tally := make(map[string]map[string]int)
	for _, p := range players {
		rep, ok := reports[p.Subject]
		if !ok {
			continue
		}
		problems = append(problems, VerifyReport(p, rep, config.TopN)...)
		if rep.TopMatch != nil {
			if tally[p.Archetype] == nil {
				tally[p.Archetype] = make(map[string]int)
			}
			tally[p.Archetype][rep.TopMatch.Name]++
		}
	}
	stats.Problems = len(problems)

	displayTopMatches(ctx, tally)

	for i, msg := range problems {
		if i == progressEvery {
			logger.Get().Warn(ctx, "further problems omitted", logger.Int("total", len(problems)))
			break
		}
		logger.Get().Warn(ctx, "ranking invariant violated", logger.String("problem", msg))
	}
	if len(problems) > 0 {
		return fmt.Errorf("%d ranking problems found", len(problems))
	}
	logger.Get().Info(ctx, "result verification completed")
	return nil
}

// displayTopMatches logs the most frequent top match per archetype.
func displayTopMatches(ctx context.Context, tally map[string]map[string]int) {
	archetypes := make([]string, 0, len(tally))
	for a := range tally {
		archetypes = append(archetypes, a)
	}
	sort.Strings(archetypes)

	for _, a := range archetypes {
		best, count, total := "", 0, 0
		for name, n := range tally[a] {
			total += n
			if n > count || (n == count && name < best) {
				best, count = name, n
			}
		}
		logger.Get().Info(ctx, "archetype top match",
			logger.String("archetype", a),
			logger.String("profile", best),
			logger.Int("count", count),
			logger.Int("players", total))
	}
}
