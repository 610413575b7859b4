package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/keeper-games/last-algorithm/internal/services"
	"github.com/keeper-games/last-algorithm/pkg/chat"
	"github.com/keeper-games/last-algorithm/pkg/engine"
	"github.com/keeper-games/last-algorithm/pkg/state"
)

// turnTimeout bounds one full turn, including generation calls.
const turnTimeout = 30 * time.Second

// TurnHandler handles player-action turns.
type TurnHandler struct {
	store  services.SessionStore
	router *engine.Router
	logger *slog.Logger
}

// NewTurnHandler creates a new turn handler.
func NewTurnHandler(store services.SessionStore, router *engine.Router, logger *slog.Logger) *TurnHandler {
	return &TurnHandler{
		store:  store,
		router: router,
		logger: logger,
	}
}

// ServeHTTP handles POST /api/player-action. The session is read once
// at the start of the turn and written once at the end.
func (h *TurnHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		h.logger.Warn("Method not allowed for player-action endpoint",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr)
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Only POST is supported.")
		return
	}

	var request chat.TurnRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.logger.Warn("Invalid turn request body", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid request body. Expected JSON with 'sessionId' and 'playerInput' fields.")
		return
	}
	if err := request.Validate(); err != nil {
		h.logger.Warn("Invalid turn request", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), turnTimeout)
	defer cancel()

	sess, err := h.store.LoadSession(ctx, request.SessionID)
	if err != nil {
		h.logger.Error("Failed to load session", "session_id", request.SessionID, "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to load session.")
		return
	}
	if sess == nil {
		writeError(w, h.logger, http.StatusNotFound, "Session not found")
		return
	}

	result := h.router.ProcessTurn(ctx, request.SessionID, request.PlayerInput, sess.State, sess.History)

	sess.State = result.GameState
	sess.History = state.AppendHistory(sess.History, state.HistoryEntry{
		PlayerInput: request.PlayerInput,
		Response:    result.ResponseText,
		Timestamp:   time.Now().UTC(),
	})

	if err := h.store.SaveSession(ctx, request.SessionID, sess); err != nil {
		h.logger.Error("Failed to save session", "session_id", request.SessionID, "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to save session.")
		return
	}

	h.logger.Info("Turn processed",
		"session_id", request.SessionID,
		"action_taken", result.ActionTaken,
		"scene", result.GameState.CurrentScene,
		"stage", result.GameState.Stage)

	w.WriteHeader(http.StatusOK)
	response := chat.TurnResponse{
		ResponseText:      result.ResponseText,
		VoiceInstructions: result.VoiceInstructions,
		ActionTaken:       result.ActionTaken,
		Filler:            result.Filler,
		GameStatus:        result.GameStatus,
		GameState:         result.GameState,
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("Error encoding turn response", "error", err)
	}
}
