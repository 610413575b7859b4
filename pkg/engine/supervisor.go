package engine

import (
	"context"
	"log/slog"

	"github.com/keeper-games/last-algorithm/pkg/scene"
	"github.com/keeper-games/last-algorithm/pkg/state"
)

// StartConversation is the sentinel input a client sends to begin a
// session. It short-circuits to the scripted opening and never reaches
// the generation backend.
const StartConversation = "START_CONVERSATION"

// Game status values reported to clients.
const (
	GameStatusActive    = "active"
	GameStatusCompleted = "completed"
	GameStatusFailed    = "failed"
)

// Fallback response used whenever the generation backend fails or its
// output does not parse. The raw error never reaches the player.
const (
	FallbackNarrative = "The data streams flicker. Please repeat your last input."
	FallbackVoice     = "Speak with slight technical distortion"
)

const openingVoice = "Mysterious and confident, with an undercurrent of excitement"

// SupervisorResponse is the structured result of one supervisor turn.
// The JSON keys match the contract the generation backend is prompted
// to produce.
type SupervisorResponse struct {
	NarrativeText     string          `json:"narrative_text"`
	VoiceInstructions string          `json:"voice_instructions"`
	GameState         state.GameState `json:"game_state"`
	GameStatus        string          `json:"game_status"`
	SceneTransition   string          `json:"scene_transition,omitempty"`

	// Scripted marks responses whose text is exact scene content. The
	// router must not naturalize these.
	Scripted bool `json:"-"`
}

// Supervisor is the narrative decision engine. Per turn it chooses
// between the scripted opening, a scripted decision-point branch, and
// the generative adaptive path, and it owns all state transitions.
type Supervisor struct {
	catalog      *scene.Catalog
	transitioner *state.Transitioner
	gen          Generator
	logger       *slog.Logger
}

// NewSupervisor creates a supervisor with its dependencies injected.
func NewSupervisor(catalog *scene.Catalog, transitioner *state.Transitioner, gen Generator, logger *slog.Logger) *Supervisor {
	return &Supervisor{
		catalog:      catalog,
		transitioner: transitioner,
		gen:          gen,
		logger:       logger,
	}
}

// ProcessPlayerAction runs one supervisor turn. It always returns a
// well-formed response with a well-defined game state; generation
// failures are downgraded to the fallback response with the input state
// preserved.
func (s *Supervisor) ProcessPlayerAction(ctx context.Context, input string, gs state.GameState, history []state.HistoryEntry) SupervisorResponse {
	if input == StartConversation {
		return s.openingResponse(gs)
	}

	current := s.catalog.Get(gs.CurrentScene)

	if current.IsDecisionPoint() {
		intent := scene.Classify(input, current)
		if branch, ok := current.Intents[intent]; ok {
			next := s.transitioner.Transition(gs, current.NextScene(scene.TransitionIntentClassified), intent)
			s.logger.Debug("scripted decision branch",
				"scene", current.ID,
				"intent", intent,
				"next_scene", next.CurrentScene)
			return SupervisorResponse{
				NarrativeText:     branch.ResponseAnchor,
				VoiceInstructions: branch.Tone,
				GameState:         next,
				GameStatus:        GameStatusActive,
				Scripted:          true,
			}
		}
		// The classifier is total, so a missing branch means the scene
		// content is incomplete. Fall through to the adaptive path.
		s.logger.Warn("no scripted branch for classified intent", "scene", current.ID, "intent", intent)
	}

	return s.adaptiveResponse(ctx, input, current, gs, history)
}

// openingResponse is the hardcoded START_CONVERSATION path: exact
// opening text plus a transition to the decision point.
func (s *Supervisor) openingResponse(gs state.GameState) SupervisorResponse {
	opening := s.catalog.Opening()

	nextID := opening.NextScene(scene.TransitionPlayerResponds)
	if nextID == "" {
		nextID = s.catalog.DecisionPointID()
	}

	return SupervisorResponse{
		NarrativeText:     opening.ExactText,
		VoiceInstructions: openingVoice,
		GameState:         s.transitioner.Transition(gs, nextID, ""),
		GameStatus:        GameStatusActive,
		Scripted:          true,
	}
}

// adaptiveResponse invokes the generation backend once and validates
// its structured output. Transport failures and malformed output both
// resolve to the fixed fallback with state unchanged. No retries.
func (s *Supervisor) adaptiveResponse(ctx context.Context, input string, sc *scene.Scene, gs state.GameState, history []state.HistoryEntry) SupervisorResponse {
	raw, err := s.gen.Generate(ctx,
		buildSupervisorInstructions(sc),
		buildSupervisorPrompt(input, gs, history),
		ProfileSupervisor,
		SupervisorTemperature)
	if err != nil {
		s.logger.Warn("generation failed, using fallback", "scene", sc.ID, "error", err)
		return fallbackResponse(gs)
	}

	resp, ok := decodeOrFallback(raw, func() SupervisorResponse { return fallbackResponse(gs) })
	if !ok {
		s.logger.Warn("generation output did not parse, using fallback", "scene", sc.ID)
		return resp
	}

	// The backend's game_state field is advisory; the transitioner is
	// the only writer of authoritative state.
	if resp.SceneTransition != "" {
		resp.GameState = s.transitioner.Transition(gs, resp.SceneTransition, "")
	} else {
		resp.GameState = gs
	}
	if resp.GameStatus == "" {
		resp.GameStatus = GameStatusActive
	}
	return resp
}

func fallbackResponse(gs state.GameState) SupervisorResponse {
	return SupervisorResponse{
		NarrativeText:     FallbackNarrative,
		VoiceInstructions: FallbackVoice,
		GameState:         gs,
		GameStatus:        GameStatusActive,
	}
}
