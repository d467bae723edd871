// Package types contains the result types shared by the service, the
// workers and the HTTP layer.
package types

import (
	"time"

	"github.com/okian/chessdna/internal/domain/insights"
	"github.com/okian/chessdna/internal/domain/model"
	"github.com/okian/chessdna/internal/domain/ranking"
)

// Report is the complete analysis of one subject.
type Report struct {
	JobID         string            `json:"job_id"`
	Subject       string            `json:"subject"`
	Games         int               `json:"games"`
	Metrics       model.MetricSet   `json:"metrics"`
	Matches       []ranking.Match   `json:"matches"`
	TopMatch      *ranking.Match    `json:"top_match,omitempty"`
	Compatibility float64           `json:"compatibility"`
	Insights      insights.Insights `json:"insights"`
	AnalyzedAt    time.Time         `json:"analyzed_at"`
}

// AnalysisCompleted is published when a report has been stored.
type AnalysisCompleted struct {
	JobID        string    `json:"job_id"`
	Subject      string    `json:"subject"`
	Games        int       `json:"games"`
	TopMatch     string    `json:"top_match,omitempty"`
	Similarity   float64   `json:"similarity"`
	MatchPercent float64   `json:"match_percent"`
	AnalyzedAt   time.Time `json:"analyzed_at"`
}

// Event summarizes r for publication.
func (r Report) Event() AnalysisCompleted {
	ev := AnalysisCompleted{
		JobID:      r.JobID,
		Subject:    r.Subject,
		Games:      r.Games,
		AnalyzedAt: r.AnalyzedAt,
	}
	if r.TopMatch != nil {
		ev.TopMatch = r.TopMatch.Name
		ev.Similarity = r.TopMatch.Similarity
		ev.MatchPercent = r.TopMatch.MatchPercent
	}
	return ev
}

// Comparison is the similarity of two analysed subjects.
type Comparison struct {
	A            string  `json:"a"`
	B            string  `json:"b"`
	Similarity   float64 `json:"similarity"`
	MatchPercent float64 `json:"match_percent"`
}
