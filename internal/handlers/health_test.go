package handlers

import (
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
)

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name           string
		pingErr        error
		expectedCode   int
		expectedStatus string
		expectedStore  string
	}{
		{
			name:           "healthy",
			expectedCode:   http.StatusOK,
			expectedStatus: "healthy",
			expectedStore:  "healthy",
		},
		{
			name:           "store down",
			pingErr:        errors.New("connection refused"),
			expectedCode:   http.StatusServiceUnavailable,
			expectedStatus: "degraded",
			expectedStore:  "unhealthy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := services.NewMockSessionStore()
			if tt.pingErr != nil {
				store.SetPingError(tt.pingErr)
			}
			logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
			handler := NewHealthHandler(store, logger)

			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedCode, w.Code)

			var resp HealthResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.expectedStatus, resp.Status)
			assert.Equal(t, "last-algorithm", resp.Service)
			assert.Equal(t, tt.expectedStore, resp.Components["session_store"])
			assert.False(t, resp.Timestamp.IsZero())
		})
	}
}
