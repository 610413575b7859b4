package chat

import (
	"fmt"

	"github.com/keeper-games/last-algorithm/pkg/state"
)

// SessionRequest creates a new game session.
type SessionRequest struct {
	PlayerName string `json:"playerName"`
}

// SessionResponse is returned on session creation. ClientSecret is the
// token stub handed to the external voice transport.
type SessionResponse struct {
	ClientSecret     map[string]string `json:"client_secret"`
	SessionID        string            `json:"session_id"`
	InitialNarrative string            `json:"initial_narrative"`
	Error            string            `json:"error,omitempty"`
}

// TurnRequest is one player turn: transcribed speech forwarded as text.
type TurnRequest struct {
	SessionID   string `json:"sessionId"`
	PlayerInput string `json:"playerInput"`
}

func (tr *TurnRequest) Validate() error {
	if tr.SessionID == "" {
		return fmt.Errorf("sessionId cannot be empty")
	}
	if tr.PlayerInput == "" {
		return fmt.Errorf("playerInput cannot be empty")
	}
	return nil
}

// TurnResponse is the result of one turn: text to speak, a
// voice-delivery hint for synthesis, and the updated game state.
type TurnResponse struct {
	ResponseText      string          `json:"response_text,omitempty"`
	VoiceInstructions string          `json:"voice_instructions,omitempty"`
	ActionTaken       string          `json:"action_taken,omitempty"`
	Filler            string          `json:"filler,omitempty"`
	GameStatus        string          `json:"game_status,omitempty"`
	GameState         state.GameState `json:"game_state"`
	Error             string          `json:"error,omitempty"`
}

// SessionStateResponse exposes a session's stored state for inspection.
type SessionStateResponse struct {
	GameState        state.GameState      `json:"game_state"`
	NarrativeHistory []state.HistoryEntry `json:"narrative_history"`
	Error            string               `json:"error,omitempty"`
}
