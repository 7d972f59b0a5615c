// Package api provides HTTP handlers for the labs API.
package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/ashureev/markup-labs/internal/glossary"
	"github.com/ashureev/markup-labs/internal/identity"
	"github.com/ashureev/markup-labs/internal/learner"
	"github.com/ashureev/markup-labs/internal/store"
	"github.com/go-chi/chi/v5"
)

const maxBodyBytes = 1 << 16

// Handler serves the learner-facing JSON API.
type Handler struct {
	repo     store.Repository
	sessions *learner.Manager
	glossary *glossary.Index
}

// NewHandler creates a new Handler with common dependencies.
func NewHandler(repo store.Repository, sessions *learner.Manager, terms *glossary.Index) *Handler {
	return &Handler{
		repo:     repo,
		sessions: sessions,
		glossary: terms,
	}
}

// RegisterRoutes registers every API route.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health)
		r.Get("/me", h.GetMe)
		r.Get("/notices", h.GetNotices)
		r.Get("/history", h.GetHistory)

		r.Get("/lesson", h.GetLesson)
		r.Post("/lesson/next", h.NextLesson)
		r.Post("/lesson/prev", h.PrevLesson)

		r.Get("/quiz", h.GetQuiz)
		r.Post("/quiz/answer", h.AnswerQuiz)
		r.Post("/quiz/restart", h.RestartQuiz)

		r.Get("/flashcards", h.GetFlashcards)
		r.Post("/flashcards/{action}", h.FlashcardAction)

		r.Get("/glossary", h.SearchGlossary)
		r.Get("/glossary/{id}", h.GetTerm)
	})
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// session returns the caller's learner session, writing an error response
// when it cannot be established.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*learner.Session, bool) {
	userID := identity.UserIDFromContext(r.Context())
	if userID == "" {
		Error(w, http.StatusUnauthorized, "unauthorized")
		return nil, false
	}
	sessionID := identity.SessionIDFromContext(r.Context())

	sess, err := h.sessions.Get(userID, sessionID)
	if err != nil {
		slog.Error("Failed to get learner session", "error", err, "user_id", userID, "session_id", sessionID)
		Error(w, http.StatusInternalServerError, "session unavailable")
		return nil, false
	}
	return sess, true
}

// decode reads a JSON body into v. An empty body leaves v untouched.
func decode(r *http.Request, v any) error {
	err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
