package comparative

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/okian/chessdna/internal/domain/style"
)

// GroupMode selects the grouping algorithm.
type GroupMode string

// Group modes.
const (
	// ModeKMeans partitions subjects by Euclidean k-means over their vectors.
	ModeKMeans GroupMode = "kmeans"
	// ModeRoundRobin is naive bucketing by insertion index mod k. It ignores
	// style entirely.
	ModeRoundRobin GroupMode = "round_robin"
)

const maxIterations = 100

// ParseGroupMode converts a configuration value into a GroupMode.
func ParseGroupMode(s string) (GroupMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "kmeans", "k-means":
		return ModeKMeans, nil
	case "round_robin", "round-robin", "roundrobin":
		return ModeRoundRobin, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownGroupMode, s)
	}
}

// Grouping is the result of Group.
type Grouping struct {
	Mode     GroupMode  `json:"mode"`
	K        int        `json:"k"`
	Subjects int        `json:"subjects"`
	Groups   [][]string `json:"groups"`
}

// Group partitions the stored subjects into at most k groups. k larger than
// the number of subjects is clamped. Members of a group keep insertion
// order.
func (a *Analyzer) Group(k int, mode GroupMode) (Grouping, error) {
	if k < 1 {
		return Grouping{}, ErrInvalidGroupCount
	}
	if mode == "" {
		mode = ModeKMeans
	}
	names, vectors := a.snapshot()
	if k > len(names) {
		k = len(names)
	}
	g := Grouping{Mode: mode, K: k, Subjects: len(names), Groups: [][]string{}}
	if k == 0 {
		return g, nil
	}

	var assign []int
	switch mode {
	case ModeKMeans:
		assign = kmeans(vectors, k)
	case ModeRoundRobin:
		assign = make([]int, len(names))
		for i := range assign {
			assign[i] = i % k
		}
	default:
		return Grouping{}, fmt.Errorf("%w: %q", ErrUnknownGroupMode, mode)
	}

	g.Groups = make([][]string, k)
	for i := range g.Groups {
		g.Groups[i] = []string{}
	}
	for i, c := range assign {
		g.Groups[c] = append(g.Groups[c], names[i])
	}
	return g, nil
}

// kmeans runs Lloyd's algorithm seeded by farthest-point selection starting
// from the first vector. The result depends only on the input order.
func kmeans(vectors []style.Vector, k int) []int {
	centroids := seed(vectors, k)
	assign := make([]int, len(vectors))
	for i := range assign {
		assign[i] = -1
	}

	for iter := 0; iter < maxIterations; iter++ {
		changed := false
		for i, v := range vectors {
			c := nearest(v, centroids)
			if c != assign[i] {
				assign[i] = c
				changed = true
			}
		}
		if !changed {
			break
		}
		centroids = recompute(vectors, assign, centroids)
	}
	return assign
}

func seed(vectors []style.Vector, k int) []style.Vector {
	centroids := make([]style.Vector, 0, k)
	centroids = append(centroids, vectors[0])
	minDist := make([]float64, len(vectors))
	for i, v := range vectors {
		minDist[i] = distance(v, vectors[0])
	}
	for len(centroids) < k {
		best := -1
		for i, d := range minDist {
			if best == -1 || d > minDist[best] {
				best = i
			}
		}
		c := vectors[best]
		centroids = append(centroids, c)
		for i, v := range vectors {
			minDist[i] = math.Min(minDist[i], distance(v, c))
		}
	}
	return centroids
}

func nearest(v style.Vector, centroids []style.Vector) int {
	best, bestDist := 0, math.Inf(1)
	for c, centroid := range centroids {
		if d := distance(v, centroid); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

// recompute returns member means. A centroid with no members stays put.
func recompute(vectors []style.Vector, assign []int, prev []style.Vector) []style.Vector {
	sums := make([][]float64, len(prev))
	counts := make([]int, len(prev))
	for c := range sums {
		sums[c] = make([]float64, style.Size)
	}
	for i, v := range vectors {
		floats.Add(sums[assign[i]], v[:])
		counts[assign[i]]++
	}
	out := make([]style.Vector, len(prev))
	for c := range out {
		if counts[c] == 0 {
			out[c] = prev[c]
			continue
		}
		floats.Scale(1/float64(counts[c]), sums[c])
		copy(out[c][:], sums[c])
	}
	return out
}

func distance(a, b style.Vector) float64 {
	return floats.Distance(a[:], b[:], 2)
}
