// Package ranking orders reference profiles by similarity to a player.
package ranking

import (
	"sort"

	"github.com/okian/chessdna/internal/domain/model"
	"github.com/okian/chessdna/internal/domain/style"
)

// Candidate is a named vector to rank against.
type Candidate struct {
	Name   string
	Vector style.Vector
}

// Match is one ranked candidate.
type Match struct {
	Rank         int                    `json:"rank"`
	Name         string                 `json:"name"`
	Similarity   float64                `json:"similarity"`
	MatchPercent float64                `json:"match_percent"`
	Deltas       map[string]float64     `json:"deltas,omitempty"`
	Profile      model.ReferenceProfile `json:"profile"`
}

// Rank orders candidates by cosine similarity to query, highest first.
// Ties keep candidate order. At most topN matches are returned.
func Rank(query style.Vector, candidates []Candidate, topN int) ([]Match, error) {
	if len(candidates) == 0 {
		return nil, ErrEmptyCatalogue
	}
	if topN < 1 {
		return nil, ErrInvalidTopN
	}

	type scored struct {
		idx int
		sim float64
	}
	all := make([]scored, len(candidates))
	for i, c := range candidates {
		all[i] = scored{idx: i, sim: Cosine(query, c.Vector)}
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].sim > all[j].sim
	})

	if topN > len(all) {
		topN = len(all)
	}
	out := make([]Match, topN)
	for i := 0; i < topN; i++ {
		s := all[i]
		out[i] = Match{
			Rank:         i + 1,
			Name:         candidates[s.idx].Name,
			Similarity:   s.sim,
			MatchPercent: MatchPercent(s.sim),
		}
	}
	return out, nil
}
