package api

import (
	"context"
	"net/http"

	"github.com/okian/chessdna/internal/domain/model"
	"github.com/okian/chessdna/internal/domain/ranking"
)

// RankDependencies defines the interface for rank operations.
type RankDependencies interface {
	RankMetrics(ctx context.Context, metrics model.MetricSet, topN int) ([]ranking.Match, error)
}

// RankHandler handles rank requests.
type RankHandler struct {
	deps RankDependencies
}

// NewRankHandler creates a new rank handler.
func NewRankHandler(deps RankDependencies) *RankHandler {
	return &RankHandler{deps: deps}
}

// HandleRank handles POST /api/v1/rank requests.
func (h *RankHandler) HandleRank(w http.ResponseWriter, r *http.Request) {
	const op = "api.rank"
	var req rankRequest
	if err := decode(r, &req); err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	matches, err := h.deps.RankMetrics(r.Context(), model.MetricSet(req.Metrics), req.TopN)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, matches)
}
