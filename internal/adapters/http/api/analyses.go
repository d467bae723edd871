package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/okian/chessdna/internal/domain/model"
	"github.com/okian/chessdna/internal/domain/types"
)

// AnalysisDependencies defines the interface for analysis operations.
type AnalysisDependencies interface {
	// Submit queues a job. It returns the job ID and whether the ID was
	// already seen.
	Submit(ctx context.Context, job model.AnalysisJob) (string, bool, error)
	AnalyzeNow(ctx context.Context, job model.AnalysisJob) (types.Report, error)
	Report(ctx context.Context, subject string) (types.Report, error)
	Reports(ctx context.Context, limit int) ([]types.Report, error)
}

// AnalysesHandler handles analysis requests.
type AnalysesHandler struct {
	deps AnalysisDependencies
}

// NewAnalysesHandler creates a new analyses handler.
func NewAnalysesHandler(deps AnalysisDependencies) *AnalysesHandler {
	return &AnalysesHandler{deps: deps}
}

// HandleSubmit handles POST /api/v1/analyses requests.
func (h *AnalysesHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	const op = "api.submit_analysis"
	job, err := readJob(r)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}

	id, dup, err := h.deps.Submit(r.Context(), job)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	if dup {
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", JobID: id, Duplicate: true})
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", JobID: id})
}

// HandleSubmitSync handles POST /api/v1/analyses/sync requests.
func (h *AnalysesHandler) HandleSubmitSync(w http.ResponseWriter, r *http.Request) {
	const op = "api.analyze_now"
	job, err := readJob(r)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	report, err := h.deps.AnalyzeNow(r.Context(), job)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// HandleList handles GET /api/v1/analyses?limit=N requests.
func (h *AnalysesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_analyses"
	n := defaultListLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 || v > maxListLimit {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		n = v
	}
	reports, err := h.deps.Reports(r.Context(), n)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, reports)
}

// HandleGet handles GET /api/v1/analyses/{subject} requests.
func (h *AnalysesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_analysis"
	subject := chi.URLParam(r, "subject")
	report, err := h.deps.Report(r.Context(), subject)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func readJob(r *http.Request) (model.AnalysisJob, error) {
	var req analysisRequest
	if err := decode(r, &req); err != nil {
		return model.AnalysisJob{}, err
	}
	return req.job()
}
