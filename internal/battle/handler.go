// Package battle serves the websocket that connects the embedded battle
// view to the learner's lesson controller.
package battle

import (
	"context"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/ashureev/markup-labs/internal/identity"
	"github.com/ashureev/markup-labs/internal/learner"
	"github.com/ashureev/markup-labs/internal/protocol"
	"github.com/ashureev/markup-labs/internal/store"
	"github.com/coder/websocket"
	"github.com/google/uuid"
)

// Handler upgrades battle view connections.
type Handler struct {
	sessions       *learner.Manager
	repo           store.Repository
	allowedOrigins []string
	isDev          bool
	outboxSize     int
}

// NewHandler creates a battle websocket handler. repo may be nil.
func NewHandler(sessions *learner.Manager, repo store.Repository, allowedOrigins []string, isDev bool, outboxSize int) *Handler {
	return &Handler{
		sessions:       sessions,
		repo:           repo,
		allowedOrigins: allowedOrigins,
		isDev:          isDev,
		outboxSize:     outboxSize,
	}
}

// ServeHTTP implements http.Handler for WebSocket upgrade.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID := identity.UserIDFromContext(r.Context())
	sessionID := identity.SessionIDFromContext(r.Context())
	slog.Info("Battle connection request", "user_id", userID, "session_id", sessionID, "ip", r.RemoteAddr)

	if !h.checkOrigin(r) {
		http.Error(w, "origin not allowed", http.StatusForbidden)
		return
	}

	sess, err := h.sessions.Get(userID, sessionID)
	if err != nil {
		slog.Error("Failed to get learner session", "error", err, "user_id", userID)
		http.Error(w, "session unavailable", http.StatusInternalServerError)
		return
	}

	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		slog.Error("Failed to accept WebSocket", "error", err, "user_id", userID)
		return
	}
	defer func() {
		if closeErr := ws.Close(websocket.StatusNormalClosure, "battle ended"); closeErr != nil {
			slog.Debug("Failed to close websocket", "error", closeErr, "user_id", userID)
		}
	}()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	peerID := uuid.NewString()
	logger := slog.Default().With("user_id", userID, "session_id", sessionID, "peer_id", peerID)

	p := newPeer(peerID, h.outboxSize, logger)
	go p.writeLoop(ctx, ws)

	// A newer connection for the same tab cancels this one.
	sess.AttachPeer(peerID, p, cancel)
	defer sess.DetachPeer(peerID)

	h.readLoop(ctx, ws, sess, peerID, logger)
	logger.Info("Battle connection ended")
}

func (h *Handler) checkOrigin(r *http.Request) bool {
	if h.isDev {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" || slices.Contains(h.allowedOrigins, "*") || slices.Contains(h.allowedOrigins, origin) {
		return true
	}
	slog.Warn("WebSocket origin rejected", "origin", origin, "allowed", h.allowedOrigins)
	return false
}

func (h *Handler) readLoop(ctx context.Context, ws *websocket.Conn, sess *learner.Session, peerID string, logger *slog.Logger) {
	for {
		_, data, err := ws.Read(ctx)
		if err != nil {
			switch {
			case ctx.Err() != nil:
				logger.Debug("Battle connection superseded or closed")
			case websocket.CloseStatus(err) != -1:
				logger.Debug("WebSocket closed by client")
			default:
				logger.Warn("WebSocket read error", "error", err)
			}
			return
		}

		msg, err := protocol.Decode(data)
		if err != nil {
			logger.Debug("Dropping invalid battle frame", "error", err)
			continue
		}

		sess.Lesson.HandleMessage(peerID, msg)
		sess.Touch()
		h.touchUser(sess.UserID)
	}
}

// touchUser updates last seen asynchronously with a timeout.
func (h *Handler) touchUser(userID string) {
	if h.repo == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := h.repo.UpdateLastSeen(ctx, userID, time.Now()); err != nil {
			slog.Warn("Failed to update last seen", "error", err, "user_id", userID)
		}
	}()
}
