package scene

// Type identifies how a scene drives the conversation.
type Type string

const (
	TypeOpening       Type = "opening"
	TypeDecisionPoint Type = "decision_point"
	TypeDialogue      Type = "dialogue"
)

// ResponsePhasePrefix is the id prefix convention for scenes that
// follow the decision point. The derived conversation stage is computed
// from it.
const ResponsePhasePrefix = "response_phase"

// Transition condition names used in scene transition descriptors.
const (
	TransitionPlayerResponds   = "player_responds"
	TransitionIntentClassified = "intent_classified"
)

// IntentResponse is one scripted branch reply within a decision-point
// scene, keyed by the player intent that triggers it.
type IntentResponse struct {
	ResponseAnchor string `json:"response_anchor"` // exact text spoken back to the player
	Tone           string `json:"tone"`            // voice-delivery hint for synthesis
}

// Scene is a unit of narrative content. Scenes are immutable after
// catalog construction and are always looked up by id, never by
// iteration order.
type Scene struct {
	ID            string                    `json:"id"`
	Type          Type                      `json:"scene_type"`
	ExactText     string                    `json:"exact_text,omitempty"`     // scripted text, verbatim
	NarrativeGoal string                    `json:"narrative_goal,omitempty"` // prompt context only
	Personality   string                    `json:"keeper_personality,omitempty"`
	Context       string                    `json:"scene_context,omitempty"`
	Intents       map[Intent]IntentResponse `json:"player_intents,omitempty"`        // decision-point scenes only
	Transitions   map[string]string         `json:"transition_conditions,omitempty"` // condition -> successor scene id
}

// IsDecisionPoint reports whether the scene offers scripted intent branches.
func (s *Scene) IsDecisionPoint() bool {
	return s.Type == TypeDecisionPoint
}

// NextScene returns the successor scene id for the given transition
// condition, or "" when the scene defines none.
func (s *Scene) NextScene(condition string) string {
	return s.Transitions[condition]
}
