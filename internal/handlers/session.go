package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/keeper-games/last-algorithm/internal/services"
	"github.com/keeper-games/last-algorithm/pkg/chat"
	"github.com/keeper-games/last-algorithm/pkg/state"
)

// teaserNarrative is shown to the player before the first spoken turn.
const teaserNarrative = "This May the Chicago Sun-Times published a fake book list. 10 out of 15 books on it were AI hallucinations... What if one of the books wasn't a mistake, BUT A MESSAGE?"

// Realtime voice session issuance is external; text clients get a stub.
const voiceTokenStub = "test-session-token"

// SessionHandler creates sessions and exposes stored session state.
type SessionHandler struct {
	store  services.SessionStore
	logger *slog.Logger
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(store services.SessionStore, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		store:  store,
		logger: logger,
	}
}

// ServeHTTP routes session requests:
// POST /api/session                 create a session
// GET  /api/session/{id}/state      read stored state and history
func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method == http.MethodGet {
		if id, ok := sessionIDFromStatePath(r.URL.Path); ok {
			h.handleState(w, r, id)
			return
		}
		writeError(w, h.logger, http.StatusNotFound, "Not found.")
		return
	}

	if r.Method != http.MethodPost {
		h.logger.Warn("Method not allowed for session endpoint",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr)
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed.")
		return
	}

	h.handleCreate(w, r)
}

func (h *SessionHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var request chat.SessionRequest
	// An empty body is acceptable; the player name simply defaults.
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("Invalid session request body", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if request.PlayerName == "" {
		request.PlayerName = "Player"
	}

	sessionID := uuid.New().String()
	gs := state.NewGameState(sessionID, request.PlayerName)
	sess := state.NewSession(gs)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.store.SaveSession(ctx, sessionID, sess); err != nil {
		h.logger.Error("Failed to save new session", "session_id", sessionID, "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to create session.")
		return
	}

	h.logger.Info("Session created", "session_id", sessionID, "player_name", request.PlayerName)

	w.WriteHeader(http.StatusCreated)
	response := chat.SessionResponse{
		ClientSecret:     map[string]string{"value": voiceTokenStub},
		SessionID:        sessionID,
		InitialNarrative: teaserNarrative,
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("Error encoding session response", "error", err)
	}
}

func (h *SessionHandler) handleState(w http.ResponseWriter, r *http.Request, sessionID string) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	sess, err := h.store.LoadSession(ctx, sessionID)
	if err != nil {
		h.logger.Error("Failed to load session", "session_id", sessionID, "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to load session.")
		return
	}
	if sess == nil {
		writeError(w, h.logger, http.StatusNotFound, "Session not found")
		return
	}

	response := chat.SessionStateResponse{
		GameState:        sess.State,
		NarrativeHistory: sess.History,
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("Error encoding session state response", "error", err)
	}
}

// sessionIDFromStatePath extracts the id from /api/session/{id}/state.
func sessionIDFromStatePath(path string) (string, bool) {
	rest, ok := strings.CutPrefix(path, "/api/session/")
	if !ok {
		return "", false
	}
	id, ok := strings.CutSuffix(rest, "/state")
	if !ok || id == "" || strings.Contains(id, "/") {
		return "", false
	}
	return id, true
}

func writeError(w http.ResponseWriter, logger *slog.Logger, status int, msg string) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]string{"error": msg}); err != nil {
		logger.Error("Error encoding error response", "error", err)
	}
}
