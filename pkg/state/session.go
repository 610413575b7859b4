package state

import "time"

// Session is the unit persisted per player in the session store: the
// game state plus the bounded narrative history.
type Session struct {
	State     GameState      `json:"game_state"`
	History   []HistoryEntry `json:"narrative_history"`
	CreatedAt time.Time      `json:"created_at"`
}

// NewSession wraps a fresh game state into a storable session.
func NewSession(gs GameState) *Session {
	return &Session{
		State:     gs,
		History:   make([]HistoryEntry, 0),
		CreatedAt: time.Now().UTC(),
	}
}
