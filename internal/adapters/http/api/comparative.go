package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/okian/chessdna/internal/domain/comparative"
	"github.com/okian/chessdna/internal/domain/types"
)

const defaultGroupCount = 3

// ComparativeDependencies defines cross-subject operations.
type ComparativeDependencies interface {
	Compare(ctx context.Context, a, b string) (types.Comparison, error)
	Group(ctx context.Context, k int, mode string) (comparative.Grouping, error)
	Trends(ctx context.Context) map[string]comparative.Trend
}

// ComparativeHandler handles compare, groups and trends requests.
type ComparativeHandler struct {
	deps ComparativeDependencies
}

// NewComparativeHandler creates a new comparative handler.
func NewComparativeHandler(deps ComparativeDependencies) *ComparativeHandler {
	return &ComparativeHandler{deps: deps}
}

// HandleCompare handles GET /api/v1/compare?a=X&b=Y requests.
func (h *ComparativeHandler) HandleCompare(w http.ResponseWriter, r *http.Request) {
	const op = "api.compare"
	q := r.URL.Query()
	a, b := q.Get("a"), q.Get("b")
	if a == "" || b == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	cmp, err := h.deps.Compare(r.Context(), a, b)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, cmp)
}

// HandleGroups handles GET /api/v1/groups?k=N&mode=M requests.
func (h *ComparativeHandler) HandleGroups(w http.ResponseWriter, r *http.Request) {
	const op = "api.groups"
	q := r.URL.Query()
	k := defaultGroupCount
	if s := q.Get("k"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		k = v
	}
	g, err := h.deps.Group(r.Context(), k, q.Get("mode"))
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, g)
}

// HandleTrends handles GET /api/v1/trends requests.
func (h *ComparativeHandler) HandleTrends(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Trends(r.Context()))
}
