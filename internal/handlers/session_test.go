package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keeper-games/last-algorithm/internal/services"
	"github.com/keeper-games/last-algorithm/pkg/chat"
	"github.com/keeper-games/last-algorithm/pkg/state"
)

func newTestSessionHandler(store services.SessionStore) *SessionHandler {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewSessionHandler(store, logger)
}

func TestSessionHandler_Create(t *testing.T) {
	store := services.NewMockSessionStore()
	handler := newTestSessionHandler(store)

	body := bytes.NewBufferString(`{"playerName":"Sarah"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/session", body)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp chat.SessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.NotEmpty(t, resp.SessionID)
	assert.Equal(t, voiceTokenStub, resp.ClientSecret["value"])
	assert.Equal(t, teaserNarrative, resp.InitialNarrative)

	// The session is persisted in its initial stage.
	sess, err := store.LoadSession(context.Background(), resp.SessionID)
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, "Sarah", sess.State.PlayerName)
	assert.Equal(t, state.StageOpening, sess.State.Stage)
	assert.Empty(t, sess.State.CurrentScene)
	assert.Empty(t, sess.History)
}

func TestSessionHandler_CreateEmptyBody(t *testing.T) {
	store := services.NewMockSessionStore()
	handler := newTestSessionHandler(store)

	req := httptest.NewRequest(http.MethodPost, "/api/session", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp chat.SessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	sess, err := store.LoadSession(context.Background(), resp.SessionID)
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, "Player", sess.State.PlayerName, "missing player name defaults")
}

func TestSessionHandler_CreateStoreFailure(t *testing.T) {
	store := services.NewMockSessionStore()
	store.SetSaveError(errors.New("redis down"))
	handler := newTestSessionHandler(store)

	req := httptest.NewRequest(http.MethodPost, "/api/session", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Failed to create session.", resp["error"])
}

func TestSessionHandler_State(t *testing.T) {
	store := services.NewMockSessionStore()
	handler := newTestSessionHandler(store)

	gs := state.NewGameState("abc-123", "Sarah")
	sess := state.NewSession(gs)
	sess.History = state.AppendHistory(sess.History, state.HistoryEntry{
		PlayerInput: "hello",
		Response:    "Hello, Sarah.",
	})
	require.NoError(t, store.SaveSession(context.Background(), "abc-123", sess))

	req := httptest.NewRequest(http.MethodGet, "/api/session/abc-123/state", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp chat.SessionStateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "abc-123", resp.GameState.SessionID)
	require.Len(t, resp.NarrativeHistory, 1)
	assert.Equal(t, "hello", resp.NarrativeHistory[0].PlayerInput)
}

func TestSessionHandler_StateNotFound(t *testing.T) {
	store := services.NewMockSessionStore()
	handler := newTestSessionHandler(store)

	req := httptest.NewRequest(http.MethodGet, "/api/session/missing/state", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Session not found", resp["error"])
}

func TestSessionHandler_BadPaths(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		path           string
		expectedStatus int
	}{
		{"GET without state suffix", http.MethodGet, "/api/session/abc-123", http.StatusNotFound},
		{"GET with nested path", http.MethodGet, "/api/session/abc/extra/state", http.StatusNotFound},
		{"DELETE not allowed", http.MethodDelete, "/api/session", http.StatusMethodNotAllowed},
		{"PUT not allowed", http.MethodPut, "/api/session", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := newTestSessionHandler(services.NewMockSessionStore())
			req := httptest.NewRequest(tt.method, tt.path, nil)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)
			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestSessionIDFromStatePath(t *testing.T) {
	tests := []struct {
		path string
		id   string
		ok   bool
	}{
		{"/api/session/abc-123/state", "abc-123", true},
		{"/api/session//state", "", false},
		{"/api/session/abc-123", "", false},
		{"/api/session/a/b/state", "", false},
		{"/health", "", false},
	}

	for _, tt := range tests {
		id, ok := sessionIDFromStatePath(tt.path)
		assert.Equal(t, tt.ok, ok, tt.path)
		assert.Equal(t, tt.id, id, tt.path)
	}
}
