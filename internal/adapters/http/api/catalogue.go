package api

import (
	"context"
	"net/http"

	"github.com/okian/chessdna/internal/domain/model"
)

// CatalogueDependencies exposes the reference profiles.
type CatalogueDependencies interface {
	Catalogue(ctx context.Context) []model.ReferenceProfile
}

// CatalogueHandler handles catalogue requests.
type CatalogueHandler struct {
	deps CatalogueDependencies
}

// NewCatalogueHandler creates a new catalogue handler.
func NewCatalogueHandler(deps CatalogueDependencies) *CatalogueHandler {
	return &CatalogueHandler{deps: deps}
}

// HandleCatalogue handles GET /api/v1/catalogue requests.
func (h *CatalogueHandler) HandleCatalogue(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Catalogue(r.Context()))
}
