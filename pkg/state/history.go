package state

import "time"

// HistoryLimit bounds the narrative history kept per session. Only
// recent turns matter as generation context; the oldest entries are
// evicted first.
const HistoryLimit = 20

// HistoryEntry is one conversational turn: what the player said and
// what was spoken back.
type HistoryEntry struct {
	PlayerInput string    `json:"player_input"`
	Response    string    `json:"response"`
	Timestamp   time.Time `json:"timestamp"`
}

// AppendHistory appends entry and evicts anything beyond HistoryLimit.
func AppendHistory(entries []HistoryEntry, entry HistoryEntry) []HistoryEntry {
	entries = append(entries, entry)
	if len(entries) > HistoryLimit {
		entries = entries[len(entries)-HistoryLimit:]
	}
	return entries
}

// RecentHistory returns up to n of the most recent entries, oldest
// first. Used to embed a short context window into generation prompts.
func RecentHistory(entries []HistoryEntry, n int) []HistoryEntry {
	if n <= 0 || len(entries) == 0 {
		return nil
	}
	if len(entries) > n {
		entries = entries[len(entries)-n:]
	}
	return entries
}
