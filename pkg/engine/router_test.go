package engine

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keeper-games/last-algorithm/pkg/scene"
	"github.com/keeper-games/last-algorithm/pkg/state"
)

func newTestRouter(gen Generator) (*Router, *scene.Catalog) {
	catalog := scene.NewCatalog()
	sup := NewSupervisor(catalog, state.NewTransitioner(catalog), gen, testLogger())
	return NewRouter(sup, gen, testLogger()), catalog
}

func TestRouter_NeedsSupervisorRules(t *testing.T) {
	router, catalog := newTestRouter(&stubGenerator{})
	tr := state.NewTransitioner(catalog)

	fresh := state.NewGameState("session-1", "Sarah")
	atDecision := tr.Transition(fresh, catalog.DecisionPointID(), "")
	atResponse := tr.Transition(fresh, "response_phase_003", "")

	tests := []struct {
		name     string
		input    string
		gs       state.GameState
		expected bool
	}{
		{"sentinel always consults", StartConversation, fresh, true},
		{"decision point stage always consults", "anything at all", atDecision, true},
		{"story keyword consults", "I want to investigate the lighthouse", atResponse, true},
		{"short acknowledgement answers directly", "hi", atResponse, false},
		{"okay answers directly", "okay then", atResponse, false},
		{"long input with simple keyword still consults", "hello there I have many important things to discuss", atResponse, true},
		{"story keyword beats simple keyword", "no, what happens next", atResponse, true},
		{"unmatched input defaults to consult", "purple elephants everywhere", atResponse, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, router.needsSupervisor(tt.input, tt.gs))
		})
	}
}

func TestRouter_DirectPathLeavesStateUnchanged(t *testing.T) {
	gen := &stubGenerator{
		response: `{"response_text":"Hey. Still here.","voice_instructions":"Relaxed","action_taken":"direct_response","needs_supervisor":false}`,
	}
	router, catalog := newTestRouter(gen)

	gs := state.NewTransitioner(catalog).Transition(state.NewGameState("session-1", "Sarah"), "response_phase_003", "")
	resp := router.ProcessTurn(context.Background(), "session-1", "hi", gs, nil)

	assert.Equal(t, "Hey. Still here.", resp.ResponseText)
	assert.Equal(t, ActionDirectResponse, resp.ActionTaken)
	assert.Equal(t, gs, resp.GameState, "direct responses never alter narrative state")
	assert.Empty(t, resp.Filler)

	require.Equal(t, 1, gen.callCount())
	assert.Equal(t, ProfileDialogue, gen.calls[0].Profile)
	assert.InDelta(t, DialogueTemperature, gen.calls[0].Temperature, 1e-9)
}

func TestRouter_DirectPathWrapsUnstructuredOutput(t *testing.T) {
	gen := &stubGenerator{response: "Heh. You found me. That's all I'll say."}
	router, catalog := newTestRouter(gen)

	gs := state.NewTransitioner(catalog).Transition(state.NewGameState("session-1", "Sarah"), "response_phase_003", "")
	resp := router.ProcessTurn(context.Background(), "session-1", "thanks", gs, nil)

	assert.Equal(t, "Heh. You found me. That's all I'll say.", resp.ResponseText)
	assert.Equal(t, directVoiceDefault, resp.VoiceInstructions)
	assert.Equal(t, gs, resp.GameState)
}

func TestRouter_DirectPathTransportError(t *testing.T) {
	gen := &stubGenerator{err: errors.New("api returned status 502")}
	router, catalog := newTestRouter(gen)

	gs := state.NewTransitioner(catalog).Transition(state.NewGameState("session-1", "Sarah"), "response_phase_003", "")
	resp := router.ProcessTurn(context.Background(), "session-1", "hi", gs, nil)

	assert.Equal(t, FallbackNarrative, resp.ResponseText)
	assert.Equal(t, gs, resp.GameState)
}

func TestRouter_StartConversationBypassesNaturalization(t *testing.T) {
	gen := &stubGenerator{}
	router, catalog := newTestRouter(gen)

	gs := state.NewGameState("session-1", "Sarah")
	resp := router.ProcessTurn(context.Background(), "session-1", StartConversation, gs, nil)

	assert.Equal(t, catalog.Opening().ExactText, resp.ResponseText,
		"scripted opening text must be delivered verbatim")
	assert.Equal(t, ActionConsultedSupervisor, resp.ActionTaken)
	assert.Equal(t, catalog.DecisionPointID(), resp.GameState.CurrentScene)
	assert.Zero(t, gen.callCount(), "no generation for scripted paths")
}

func TestRouter_ScriptedBranchDeliveredVerbatim(t *testing.T) {
	gen := &stubGenerator{}
	router, catalog := newTestRouter(gen)

	gs := state.NewGameState("session-1", "Sarah")
	gs = router.ProcessTurn(context.Background(), "session-1", StartConversation, gs, nil).GameState

	resp := router.ProcessTurn(context.Background(), "session-1", "no thanks, I refuse", gs, nil)

	decision := catalog.Get(catalog.DecisionPointID())
	assert.Equal(t, decision.Intents[scene.IntentRefusal].ResponseAnchor, resp.ResponseText)
	assert.Equal(t, decision.Intents[scene.IntentRefusal].Tone, resp.VoiceInstructions)
	assert.Zero(t, gen.callCount())
}

func TestRouter_ConsultNaturalizesAdaptiveOutput(t *testing.T) {
	supervisorJSON := `{"narrative_text":"Chapter two begins.","voice_instructions":"Steady","game_state":{},"game_status":"active"}`
	naturalJSON := `{"response_text":"So... chapter two. Ready?","voice_instructions":"Playful, unhurried"}`

	gen := &stubGenerator{}
	gen.fn = func(call stubCall) (string, error) {
		if call.Profile == ProfileSupervisor {
			return supervisorJSON, nil
		}
		return naturalJSON, nil
	}
	router, catalog := newTestRouter(gen)

	gs := state.NewTransitioner(catalog).Transition(state.NewGameState("session-1", "Sarah"), "response_phase_003", "")
	resp := router.ProcessTurn(context.Background(), "session-1", "tell me about the algorithm", gs, nil)

	assert.Equal(t, "So... chapter two. Ready?", resp.ResponseText)
	assert.Equal(t, "Playful, unhurried", resp.VoiceInstructions)
	assert.Equal(t, ActionConsultedSupervisor, resp.ActionTaken)
	assert.Equal(t, gs, resp.GameState, "state comes from the supervisor step")

	require.Equal(t, 2, gen.callCount(), "one supervisor call, one naturalization call")
	assert.InDelta(t, NaturalizeTemperature, gen.calls[1].Temperature, 1e-9)
}

func TestRouter_NaturalizationFailureEmitsSupervisorText(t *testing.T) {
	supervisorJSON := `{"narrative_text":"The trail leads to the archive.","voice_instructions":"Hushed","game_state":{},"game_status":"active"}`

	gen := &stubGenerator{}
	gen.fn = func(call stubCall) (string, error) {
		if call.Profile == ProfileSupervisor {
			return supervisorJSON, nil
		}
		return "not json at all", nil
	}
	router, catalog := newTestRouter(gen)

	gs := state.NewTransitioner(catalog).Transition(state.NewGameState("session-1", "Sarah"), "response_phase_003", "")
	resp := router.ProcessTurn(context.Background(), "session-1", "tell me about the book", gs, nil)

	assert.Equal(t, "The trail leads to the archive.", resp.ResponseText)
	assert.Equal(t, "Hushed", resp.VoiceInstructions)
}

func TestRouter_FillerSelection(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"let me investigate that", "Hmm... how much should I tell you... Let me see."},
		{"I decide to trust you", "Interesting choice... Let me consider the implications."},
		{"what is the algorithm", "Ah, you want to know about that... Give me a moment."},
		{"help me out here", "You're asking for guidance... Let me think."},
		{"continue the story", "The story unfolds... Let me recall where we were."},
		{"zebra", defaultFiller},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, fillerFor(tt.input))
		})
	}
}

func TestRouter_ConsultIncludesFiller(t *testing.T) {
	gen := &stubGenerator{response: `{"narrative_text":"...","voice_instructions":"...","game_state":{},"game_status":"active"}`}
	router, catalog := newTestRouter(gen)

	gs := state.NewTransitioner(catalog).Transition(state.NewGameState("session-1", "Sarah"), "response_phase_003", "")
	resp := router.ProcessTurn(context.Background(), "session-1", "I want to investigate", gs, nil)

	assert.True(t, strings.HasPrefix(resp.Filler, "Hmm..."))
}

func TestRouter_LastInputDebugCache(t *testing.T) {
	gen := &stubGenerator{response: `{"response_text":"ok","voice_instructions":"flat"}`}
	router, catalog := newTestRouter(gen)

	gs := state.NewTransitioner(catalog).Transition(state.NewGameState("session-1", "Sarah"), "response_phase_003", "")
	router.ProcessTurn(context.Background(), "session-1", "hi", gs, nil)

	last, ok := router.LastInput("session-1")
	assert.True(t, ok)
	assert.Equal(t, "hi", last)

	router.ForgetSession("session-1")
	_, ok = router.LastInput("session-1")
	assert.False(t, ok)
}
