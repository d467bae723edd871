package model

import "time"

// AnalysisJob is a request to analyse one subject's games.
type AnalysisJob struct {
	JobID       string     // unique id for idempotency
	Subject     string     // player name the report is stored under
	Games       []GameStat // per-game aggregates
	TopN        int        // matches to keep; 0 uses the service default
	SubmittedAt time.Time
}
