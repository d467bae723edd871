package samplegames

import (
	"time"

	"github.com/okian/chessdna/internal/domain/features"
	"github.com/okian/chessdna/internal/domain/model"
	"github.com/okian/chessdna/internal/domain/types"
)

// Config holds configuration for a sample run.
type Config struct {
	BaseURL        string        // Base URL of the service
	Players        int           // Number of synthetic players
	GamesPerPlayer int           // Games generated per player
	TopN           int           // Matches requested per analysis
	Workers        int           // Concurrent HTTP workers
	Timeout        time.Duration // HTTP request timeout
	SettleTimeout  time.Duration // How long to wait for queued analyses
	DuplicateRatio float64       // Share of jobs resubmitted with the same job ID
	Seed           uint64        // Seed for game generation
	OutputFile     string        // Output file for generated players
	Verbose        bool          // Enable verbose logging
	Thresholds     features.Thresholds
}

// Player is a synthetic subject and the games generated for it.
type Player struct {
	JobID     string           `json:"job_id"`
	Subject   string           `json:"subject"`
	Archetype string           `json:"archetype"`
	Games     []model.GameStat `json:"games"`
}

// gameRequest mirrors one game of POST /api/v1/analyses.
type gameRequest struct {
	GameID       string   `json:"game_id,omitempty"`
	ACPL         *float64 `json:"acpl,omitempty"`
	Blunders     int      `json:"blunders"`
	Mistakes     int      `json:"mistakes"`
	Inaccuracies int      `json:"inaccuracies"`
	Result       string   `json:"result,omitempty"`
}

// analysisRequest mirrors the body of POST /api/v1/analyses.
type analysisRequest struct {
	JobID   string        `json:"job_id"`
	Subject string        `json:"subject"`
	TopN    int           `json:"top_n,omitempty"`
	Games   []gameRequest `json:"games"`
}

func (p Player) request(topN int) analysisRequest {
	games := make([]gameRequest, len(p.Games))
	for i, g := range p.Games {
		games[i] = gameRequest{
			GameID:       g.GameID,
			ACPL:         g.CentipawnLoss,
			Blunders:     g.Blunders,
			Mistakes:     g.Mistakes,
			Inaccuracies: g.Inaccuracies,
			Result:       string(g.Outcome),
		}
	}
	return analysisRequest{JobID: p.JobID, Subject: p.Subject, TopN: topN, Games: games}
}

// AckResponse represents the response from job submission.
type AckResponse struct {
	Status    string `json:"status"`
	JobID     string `json:"job_id"`
	Duplicate bool   `json:"duplicate"`
}

// Report is the analysis read shape returned by the service.
type Report = types.Report

// Stats holds run statistics.
type Stats struct {
	PlayersGenerated int
	GamesGenerated   int
	JobsSubmitted    int
	JobsAccepted     int
	JobsDuplicate    int
	JobsFailed       int
	ReportsRetrieved int
	ReportsMissing   int
	Problems         int
	StartTime        time.Time
	EndTime          time.Time
	Duration         time.Duration
}
