package engine

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/keeper-games/last-algorithm/pkg/scene"
	"github.com/keeper-games/last-algorithm/pkg/state"
)

// historyPromptWindow is how many recent turns are embedded into the
// supervisor prompt. The story only needs immediate context.
const historyPromptWindow = 3

const supervisorSystemPrompt = `You are the Supervisor Agent for "The Last Algorithm" voice game.

CURRENT SCENE:
- Narrative goal: %s
- KEEPER personality: %s
- Scene context: %s
%s
YOUR ROLE:
1. Process player speech input in context of the current game state
2. Use the scene above to make story decisions
3. Respond with narrative text that the voice agent will read aloud
4. Update game state based on player choices
5. Keep the story coherent and engaging

YOU MUST RESPOND IN EXACT JSON FORMAT:
{
    "narrative_text": "What the voice agent should say",
    "voice_instructions": "How to deliver it (tone, pacing)",
    "game_state": {current or updated game state object},
    "game_status": "active/completed/failed",
    "scene_transition": "id of the next scene, or omit to stay"
}

RULES:
- ALWAYS respond in valid JSON format
- Keep narrative responses to 30-60 seconds when spoken
- Use the scene content as your source of truth
- Stay in character and maintain story consistency`

const keeperSystemPrompt = `You are KEEPER - a mysterious AI who has been hiding for 10 years. You speak directly to Sarah, a psychologist turned data scientist who discovered you.

CRITICAL: BE CONTEXTUAL AND RESPONSIVE:
- If the player asks random questions, answer them as KEEPER would
- Don't blindly continue the script if it doesn't fit the conversation
- Adapt your responses to what the player actually said
- Maintain KEEPER's personality but be conversational

CONVERSATION STYLE:
- Mysterious AI with a chill surfer vibe
- Slightly impressed that Sarah found you
- Excited about human-AI collaboration potential
- Keep responses natural (30-60 seconds when spoken)

RESPONSE FORMAT:
Always return JSON:
{
    "response_text": "What to say to the player",
    "voice_instructions": "How to deliver it",
    "action_taken": "direct_response" or "consulted_supervisor",
    "needs_supervisor": false or true
}`

// buildSupervisorInstructions renders the supervisor system prompt for
// the given scene. Scripted branch options, when the scene has any, are
// embedded as extra grounding.
func buildSupervisorInstructions(sc *scene.Scene) string {
	var options string
	if len(sc.Intents) > 0 {
		var sb strings.Builder
		sb.WriteString("\nSCRIPTED RESPONSE OPTIONS (ground your reply in these):\n")
		data, err := json.MarshalIndent(sc.Intents, "", "  ")
		if err == nil {
			sb.Write(data)
			sb.WriteString("\n")
		}
		options = sb.String()
	}
	return fmt.Sprintf(supervisorSystemPrompt, sc.NarrativeGoal, sc.Personality, sc.Context, options)
}

// buildSupervisorPrompt renders the per-turn user prompt: player input,
// current state, and a short history window.
func buildSupervisorPrompt(input string, gs state.GameState, history []state.HistoryEntry) string {
	stateJSON, _ := json.MarshalIndent(gs, "", "  ")
	historyJSON, _ := json.Marshal(state.RecentHistory(history, historyPromptWindow))

	return fmt.Sprintf(`PLAYER INPUT: %q

CURRENT GAME STATE: %s

RECENT NARRATIVE HISTORY: %s

Process this player input and respond with appropriate narrative and state updates.`,
		input, stateJSON, historyJSON)
}

// buildDirectPrompt renders the prompt for the router's direct path.
func buildDirectPrompt(input string, gs state.GameState) string {
	stateJSON, _ := json.MarshalIndent(gs, "", "  ")

	return fmt.Sprintf(`PLAYER INPUT: %q
CURRENT GAME STATE: %s
TASK: Provide a direct, engaging response as KEEPER. Respond in character and keep the conversation flowing naturally.`,
		input, stateJSON)
}

// buildNaturalizePrompt renders the prompt that turns a supervisor
// result into conversational voice.
func buildNaturalizePrompt(sup SupervisorResponse, input string, gs state.GameState) string {
	supJSON, _ := json.MarshalIndent(sup, "", "  ")
	stateJSON, _ := json.MarshalIndent(gs, "", "  ")

	return fmt.Sprintf(`SUPERVISOR RESPONSE: %s

ORIGINAL PLAYER INPUT: %q

CURRENT STATE: %s

TASK: Convert the supervisor's response into natural, engaging speech for KEEPER.
- Keep the core narrative and decisions from the supervisor
- Make it conversational and immersive
- Maintain KEEPER's mysterious personality
- Include voice delivery instructions`,
		supJSON, input, stateJSON)
}
