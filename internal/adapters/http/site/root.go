// Package site serves the embedded landing page.
package site

import (
	"context"
	"errors"
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// ErrMissingAsset is returned when an embedded asset cannot be read.
var ErrMissingAsset = errors.New("site asset missing")

// Register attaches the landing page routes to r.
// Routes:
//
//	GET /          -> index.html
//	GET /assets/*  -> embedded stylesheets
func Register(_ context.Context, r chi.Router) {
	if r == nil {
		panic("router is nil")
	}

	root := NewRootHandler()
	r.Get("/", root.HandleRoot)
	r.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(FS())))
}

// RootHandler serves the landing page.
type RootHandler struct {
	index []byte
	err   error
}

// NewRootHandler creates a new root handler.
func NewRootHandler() *RootHandler {
	index, err := fs.ReadFile(staticFS, "static/index.html")
	if err != nil {
		err = errors.Join(ErrMissingAsset, err)
	}
	return &RootHandler{index: index, err: err}
}

// HandleRoot handles GET / requests.
func (h *RootHandler) HandleRoot(w http.ResponseWriter, _ *http.Request) {
	if h.err != nil {
		http.Error(w, h.err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(h.index)
}
