package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/okian/chessdna/internal/domain/model"
)

const maxBodyBytes = 4 << 20

var validate = validator.New(validator.WithRequiredStructEnabled()) //nolint:gochecknoglobals // validator caches struct metadata

// gameRequest is one game in an analysis request. result accepts
// win/loss/draw or a PGN result read from color's side.
type gameRequest struct {
	GameID       string   `json:"game_id" validate:"max=128"`
	ACPL         *float64 `json:"acpl" validate:"omitempty,gte=0"`
	Blunders     int      `json:"blunders" validate:"gte=0"`
	Mistakes     int      `json:"mistakes" validate:"gte=0"`
	Inaccuracies int      `json:"inaccuracies" validate:"gte=0"`
	Result       string   `json:"result"`
	Color        string   `json:"color" validate:"omitempty,oneof=white black"`
}

// analysisRequest mirrors the OpenAPI schema for POST /api/v1/analyses.
type analysisRequest struct {
	JobID   string        `json:"job_id" validate:"max=128"`
	Subject string        `json:"subject" validate:"required,max=128"`
	TopN    int           `json:"top_n" validate:"gte=0"`
	Games   []gameRequest `json:"games" validate:"required,min=1,dive"`
}

func (a analysisRequest) job() (model.AnalysisJob, error) {
	games := make([]model.GameStat, len(a.Games))
	for i, g := range a.Games {
		outcome, err := model.ParseOutcome(g.Result, g.Color)
		if err != nil {
			return model.AnalysisJob{}, fmt.Errorf("%w: game %d: %w", ErrBadRequest, i, err)
		}
		games[i] = model.GameStat{
			GameID:        g.GameID,
			CentipawnLoss: g.ACPL,
			Blunders:      g.Blunders,
			Mistakes:      g.Mistakes,
			Inaccuracies:  g.Inaccuracies,
			Outcome:       outcome,
		}
	}
	return model.AnalysisJob{
		JobID:   strings.TrimSpace(a.JobID),
		Subject: strings.TrimSpace(a.Subject),
		TopN:    a.TopN,
		Games:   games,
	}, nil
}

// rankRequest mirrors the OpenAPI schema for POST /api/v1/rank.
type rankRequest struct {
	Metrics map[string]float64 `json:"metrics" validate:"required"`
	TopN    int                `json:"top_n" validate:"gte=0"`
}

// decode reads a JSON body into v and validates it.
func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	return nil
}
