package state

import (
	"github.com/keeper-games/last-algorithm/pkg/scene"
)

// Conversation stage labels derived from the current scene id. The
// stage is a convenience for dispatch decisions, not authoritative
// state; it is recomputed on every transition.
const (
	StageOpening       = "opening"
	StageDecisionPoint = "decision_point"
	StageResponsePhase = "response_phase"
)

// IntentRecord logs one classified intent together with the scene where
// the player expressed it.
type IntentRecord struct {
	Scene  string       `json:"scene"`
	Intent scene.Intent `json:"intent"`
}

// GameState is the authoritative, serializable record of a session's
// progress through the story. After session creation it is only ever
// changed by Transitioner.Transition, which returns a new value instead
// of mutating its argument.
type GameState struct {
	SessionID    string         `json:"session_id"`
	PlayerName   string         `json:"player_name"`
	CurrentScene string         `json:"current_scene,omitempty"`
	SceneHistory []string       `json:"scene_history,omitempty"` // previously visited scene ids, append-only
	Stage        string         `json:"conversation_stage,omitempty"`
	Intents      []IntentRecord `json:"intents,omitempty"` // one entry per classified transition, append-only
	LastIntent   scene.Intent   `json:"last_intent,omitempty"`
	Completed    bool           `json:"game_completed"`
}

// NewGameState creates the state for a fresh session. CurrentScene
// starts empty; the first transition sets it without recording history.
func NewGameState(sessionID, playerName string) GameState {
	return GameState{
		SessionID:  sessionID,
		PlayerName: playerName,
		Stage:      StageOpening,
	}
}
