package api

import (
	"errors"
	"net/http"

	"github.com/ashureev/markup-labs/internal/glossary"
	"github.com/go-chi/chi/v5"
)

// SearchGlossary lists terms matching ?q=.
func (h *Handler) SearchGlossary(w http.ResponseWriter, r *http.Request) {
	resp := map[string]interface{}{
		"terms": h.glossary.Search(r.URL.Query().Get("q")),
	}
	if term, ok := h.glossary.Default(); ok {
		resp["default"] = term
	}
	JSON(w, http.StatusOK, resp)
}

// GetTerm returns one unlocked term.
func (h *Handler) GetTerm(w http.ResponseWriter, r *http.Request) {
	term, err := h.glossary.Lookup(chi.URLParam(r, "id"))
	switch {
	case errors.Is(err, glossary.ErrNotFound):
		Error(w, http.StatusNotFound, "term not found")
	case errors.Is(err, glossary.ErrLocked):
		Error(w, http.StatusLocked, "term is locked")
	case err != nil:
		Error(w, http.StatusInternalServerError, "failed to load term")
	default:
		JSON(w, http.StatusOK, term)
	}
}
