package engine

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/keeper-games/last-algorithm/pkg/state"
)

// Actions reported in responses.
const (
	ActionDirectResponse      = "direct_response"
	ActionConsultedSupervisor = "consulted_supervisor"
)

const directVoiceDefault = "Speak naturally with slight mystery"

// simpleInputWordLimit is the word count below which a recognized
// acknowledgement is answered directly.
const simpleInputWordLimit = 5

// storyKeywords force a supervisor consult regardless of input length.
var storyKeywords = []string{
	"choice", "decide", "what should", "help me", "tell me about",
	"what happens", "continue", "next", "story", "algorithm", "keeper",
	"investigate", "book", "message", "sarah",
}

// simpleKeywords mark short acknowledgements the router answers itself.
var simpleKeywords = []string{
	"hello", "hi", "yes", "no", "okay", "thanks", "sorry",
	"what", "huh", "pardon", "repeat", "again",
}

// fillers are latency-masking lines emitted while the supervisor works,
// matched in order against the input. Advisory output only.
var fillers = []struct {
	keyword string
	line    string
}{
	{"investigate", "Hmm... how much should I tell you... Let me see."},
	{"decide", "Interesting choice... Let me consider the implications."},
	{"what", "Ah, you want to know about that... Give me a moment."},
	{"help", "You're asking for guidance... Let me think."},
	{"continue", "The story unfolds... Let me recall where we were."},
}

const defaultFiller = "Okay, that's... curious. Let me process that."

// routerReply is the structured shape the generation backend returns on
// the router's direct and naturalization paths.
type routerReply struct {
	ResponseText      string `json:"response_text"`
	VoiceInstructions string `json:"voice_instructions"`
	ActionTaken       string `json:"action_taken,omitempty"`
	NeedsSupervisor   bool   `json:"needs_supervisor,omitempty"`
}

// RouterResponse is the conversational result of one turn, handed back
// to the transport layer together with the authoritative state.
type RouterResponse struct {
	ResponseText      string          `json:"response_text"`
	VoiceInstructions string          `json:"voice_instructions"`
	ActionTaken       string          `json:"action_taken"`
	Filler            string          `json:"filler,omitempty"` // latency-masking line, not authoritative
	GameState         state.GameState `json:"game_state"`
	GameStatus        string          `json:"game_status"`
}

// Router is the per-turn front controller. It answers cheap inputs
// itself and delegates story progression to the supervisor, then
// naturalizes the supervisor's adaptive output into conversational
// voice. Direct responses never alter narrative state.
type Router struct {
	supervisor *Supervisor
	gen        Generator
	logger     *slog.Logger

	// lastInput retains the most recent input per session for
	// inspection only. It is never read to produce a response.
	mu        sync.Mutex
	lastInput map[string]string
}

// NewRouter creates a router with its dependencies injected.
func NewRouter(supervisor *Supervisor, gen Generator, logger *slog.Logger) *Router {
	return &Router{
		supervisor: supervisor,
		gen:        gen,
		logger:     logger,
		lastInput:  make(map[string]string),
	}
}

// ProcessTurn handles one player turn end to end.
func (r *Router) ProcessTurn(ctx context.Context, sessionID, input string, gs state.GameState, history []state.HistoryEntry) RouterResponse {
	r.rememberInput(sessionID, input)

	if !r.needsSupervisor(input, gs) {
		return r.directResponse(ctx, input, gs)
	}
	return r.consultSupervisor(ctx, input, gs, history)
}

// needsSupervisor applies the dispatch rules in order; first match
// wins. The default consults: when in doubt, take the heavier,
// context-aware path.
func (r *Router) needsSupervisor(input string, gs state.GameState) bool {
	if input == StartConversation {
		return true
	}
	if gs.Stage == state.StageDecisionPoint {
		return true
	}

	lower := strings.ToLower(input)
	for _, kw := range storyKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}

	if len(strings.Fields(input)) < simpleInputWordLimit {
		for _, kw := range simpleKeywords {
			if strings.Contains(lower, kw) {
				return false
			}
		}
	}

	return true
}

// directResponse answers without the supervisor: one generation call,
// parsed defensively. Malformed output is wrapped as raw text with the
// default voice hint. State is returned unchanged.
func (r *Router) directResponse(ctx context.Context, input string, gs state.GameState) RouterResponse {
	raw, err := r.gen.Generate(ctx, keeperSystemPrompt, buildDirectPrompt(input, gs), ProfileDialogue, DialogueTemperature)
	if err != nil {
		r.logger.Warn("direct generation failed, using fallback", "error", err)
		return RouterResponse{
			ResponseText:      FallbackNarrative,
			VoiceInstructions: FallbackVoice,
			ActionTaken:       ActionDirectResponse,
			GameState:         gs,
			GameStatus:        GameStatusActive,
		}
	}

	reply, ok := decodeOrFallback(raw, func() routerReply {
		return routerReply{
			ResponseText:      strings.TrimSpace(raw),
			VoiceInstructions: directVoiceDefault,
		}
	})
	if !ok {
		r.logger.Debug("direct reply was not structured, wrapping raw text")
	}

	return RouterResponse{
		ResponseText:      reply.ResponseText,
		VoiceInstructions: reply.VoiceInstructions,
		ActionTaken:       ActionDirectResponse,
		GameState:         gs,
		GameStatus:        GameStatusActive,
	}
}

// consultSupervisor runs the heavy path: filler line, supervisor turn,
// then a naturalization pass over adaptive output. The returned state
// is always the supervisor's, never the router's own invention.
func (r *Router) consultSupervisor(ctx context.Context, input string, gs state.GameState, history []state.HistoryEntry) RouterResponse {
	filler := fillerFor(input)

	sup := r.supervisor.ProcessPlayerAction(ctx, input, gs, history)

	text, voice := sup.NarrativeText, sup.VoiceInstructions
	if !sup.Scripted {
		text, voice = r.naturalize(ctx, sup, input, gs)
	}

	return RouterResponse{
		ResponseText:      text,
		VoiceInstructions: voice,
		ActionTaken:       ActionConsultedSupervisor,
		Filler:            filler,
		GameState:         sup.GameState,
		GameStatus:        sup.GameStatus,
	}
}

// naturalize converts the supervisor's structured output into
// conversational voice. If the pass fails to parse or the backend
// errors, the supervisor's raw narrative text is emitted unmodified.
func (r *Router) naturalize(ctx context.Context, sup SupervisorResponse, input string, gs state.GameState) (text, voice string) {
	raw, err := r.gen.Generate(ctx, keeperSystemPrompt, buildNaturalizePrompt(sup, input, gs), ProfileDialogue, NaturalizeTemperature)
	if err != nil {
		r.logger.Warn("naturalization failed, emitting supervisor text", "error", err)
		return sup.NarrativeText, sup.VoiceInstructions
	}

	reply, ok := decodeOrFallback(raw, func() routerReply {
		return routerReply{ResponseText: sup.NarrativeText, VoiceInstructions: sup.VoiceInstructions}
	})
	if !ok {
		r.logger.Debug("naturalization output did not parse, emitting supervisor text")
	}
	if reply.ResponseText == "" {
		return sup.NarrativeText, sup.VoiceInstructions
	}
	return reply.ResponseText, reply.VoiceInstructions
}

// fillerFor picks the latency-masking line for the input.
func fillerFor(input string) string {
	lower := strings.ToLower(input)
	for _, f := range fillers {
		if strings.Contains(lower, f.keyword) {
			return f.line
		}
	}
	return defaultFiller
}

func (r *Router) rememberInput(sessionID, input string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastInput[sessionID] = input
}

// LastInput returns the most recent input seen for a session. Debug
// inspection only.
func (r *Router) LastInput(sessionID string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.lastInput[sessionID]
	return v, ok
}

// ForgetSession drops the debug cache entry for a session.
func (r *Router) ForgetSession(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.lastInput, sessionID)
}
