package engine

import "context"

// ModelProfile selects which generation model a call should use.
type ModelProfile string

const (
	// ProfileSupervisor is the slower, more deliberate profile used for
	// story decisions.
	ProfileSupervisor ModelProfile = "supervisor"
	// ProfileDialogue is the conversational profile used for direct
	// replies and naturalization.
	ProfileDialogue ModelProfile = "dialogue"
)

// Generation temperatures, per call site.
const (
	SupervisorTemperature = 0.2
	DialogueTemperature   = 0.7
	NaturalizeTemperature = 0.8
)

// Generator is the text-generation capability. Implementations are
// treated as unreliable black boxes: a call may fail outright, or
// return output that does not conform to the requested structure.
// Callers must downgrade both cases to a deterministic fallback.
type Generator interface {
	Generate(ctx context.Context, instructions, prompt string, profile ModelProfile, temperature float64) (string, error)
}
