package ranking

import (
	"fmt"
	"math"

	"github.com/okian/chessdna/internal/domain/catalogue"
	"github.com/okian/chessdna/internal/domain/model"
	"github.com/okian/chessdna/internal/domain/style"
)

// Defaults.
const (
	DefaultTopN       = 3
	DefaultReportSize = 5
)

// Option applies a configuration option to the Ranker.
type Option func(*Ranker)

// WithDefaultTopN sets the result count used when a caller passes 0.
func WithDefaultTopN(n int) Option {
	return func(r *Ranker) {
		if n > 0 {
			r.defaultTopN = n
		}
	}
}

// WithReportSize sets the number of matches in a Report.
func WithReportSize(n int) Option {
	return func(r *Ranker) {
		if n > 0 {
			r.reportSize = n
		}
	}
}

// WithStandardization selects catalogue or joint standardization.
func WithStandardization(m style.Mode) Option {
	return func(r *Ranker) {
		r.mode = m
	}
}

// WithQueryInFit controls whether the query vector joins the catalogue
// population when fitting the scaler. Only used in catalogue mode.
func WithQueryInFit(include bool) Option {
	return func(r *Ranker) {
		r.queryInFit = include
	}
}

// Ranker ranks metric sets against a catalogue. It holds no mutable state
// after construction and is safe for concurrent use.
type Ranker struct {
	cat         *catalogue.Catalogue
	profiles    []model.ReferenceProfile
	raw         []style.Vector
	fixed       style.Scaler
	mode        style.Mode
	queryInFit  bool
	defaultTopN int
	reportSize  int
}

// NewRanker creates a ranker over cat.
func NewRanker(cat *catalogue.Catalogue, opts ...Option) (*Ranker, error) {
	r := &Ranker{
		cat:         cat,
		mode:        style.ModeCatalogue,
		queryInFit:  true,
		defaultTopN: DefaultTopN,
		reportSize:  DefaultReportSize,
	}
	for _, opt := range opts {
		opt(r)
	}
	if cat == nil || cat.Len() == 0 {
		return nil, ErrEmptyCatalogue
	}

	r.profiles = cat.Profiles()
	r.raw = make([]style.Vector, len(r.profiles))
	for i, p := range r.profiles {
		v, err := style.Raw(p.Metrics)
		if err != nil {
			return nil, fmt.Errorf("profile %q: %w", p.Name, err)
		}
		r.raw[i] = v
	}
	r.fixed = style.Fit(r.raw)
	return r, nil
}

// Catalogue returns the catalogue being ranked against.
func (r *Ranker) Catalogue() *catalogue.Catalogue {
	return r.cat
}

// Mode returns the standardization mode.
func (r *Ranker) Mode() style.Mode {
	return r.mode
}

// DefaultTopN returns the result count used for topN == 0.
func (r *Ranker) DefaultTopN() int {
	return r.defaultTopN
}

// Builder returns a style builder consistent with the catalogue fit, for
// callers that compare players outside a ranking.
func (r *Ranker) Builder() *style.Builder {
	if r.mode == style.ModeJoint {
		return style.NewBuilder()
	}
	return style.NewBuilder(style.WithScaler(r.fixed))
}

// RankMetrics builds vectors for metrics and every profile and returns the
// topN closest profiles with per-metric absolute deltas. topN == 0 uses the
// default.
func (r *Ranker) RankMetrics(metrics model.MetricSet, topN int) ([]Match, error) {
	if topN == 0 {
		topN = r.defaultTopN
	}
	if topN < 1 {
		return nil, ErrInvalidTopN
	}
	query, err := style.Raw(metrics)
	if err != nil {
		return nil, err
	}

	builder := r.builderFor(query)
	candidates := make([]Candidate, len(r.profiles))
	for i, p := range r.profiles {
		candidates[i] = Candidate{Name: p.Name, Vector: builder.Standardize(r.raw[i])}
	}

	matches, err := Rank(builder.Standardize(query), candidates, topN)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]int, len(r.profiles))
	for i, p := range r.profiles {
		byName[p.Name] = i
	}
	for i := range matches {
		idx := byName[matches[i].Name]
		matches[i].Profile = copyProfile(r.profiles[idx])
		matches[i].Deltas = deltas(query, r.raw[idx])
	}
	return matches, nil
}

// Report is the summary of a player's closest profiles.
type Report struct {
	Matches       []Match `json:"matches"`
	Top           *Match  `json:"top_match,omitempty"`
	Compatibility float64 `json:"compatibility"`
}

// Report ranks metrics with the report size and summarizes the result.
// Compatibility is the mean similarity of the returned matches.
func (r *Ranker) Report(metrics model.MetricSet) (Report, error) {
	return r.ReportN(metrics, r.reportSize)
}

// ReportN is Report with an explicit number of matches. n <= 0 uses the
// report size.
func (r *Ranker) ReportN(metrics model.MetricSet, n int) (Report, error) {
	if n <= 0 {
		n = r.reportSize
	}
	matches, err := r.RankMetrics(metrics, n)
	if err != nil {
		return Report{}, err
	}
	rep := Report{Matches: matches}
	if len(matches) > 0 {
		top := matches[0]
		rep.Top = &top
		var sum float64
		for _, m := range matches {
			sum += m.Similarity
		}
		rep.Compatibility = sum / float64(len(matches))
	}
	return rep, nil
}

func (r *Ranker) builderFor(query style.Vector) *style.Builder {
	switch {
	case r.mode == style.ModeJoint:
		return style.NewBuilder()
	case r.queryInFit:
		pop := make([]style.Vector, 0, len(r.raw)+1)
		pop = append(pop, r.raw...)
		pop = append(pop, query)
		return style.NewBuilder(style.WithScaler(style.Fit(pop)))
	default:
		return style.NewBuilder(style.WithScaler(r.fixed))
	}
}

// deltas saturates at math.MaxFloat64 when the difference overflows.
func deltas(a, b style.Vector) map[string]float64 {
	out := make(map[string]float64, style.Size)
	for i, name := range style.Dimensions {
		out[name] = math.Min(math.Abs(a[i]-b[i]), math.MaxFloat64)
	}
	return out
}

func copyProfile(p model.ReferenceProfile) model.ReferenceProfile {
	p.Metrics = p.Metrics.Clone()
	return p
}
