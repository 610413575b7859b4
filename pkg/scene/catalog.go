package scene

const (
	openingSceneID  = "001"
	decisionSceneID = "002"
	responseSceneID = ResponsePhasePrefix + "_003"
)

// Catalog holds every scene of "The Last Algorithm", keyed by id. It is
// built once at startup and never mutated; components that need scene
// content receive the catalog through their constructors rather than
// through a package-level registry.
type Catalog struct {
	scenes map[string]*Scene
}

// NewCatalog builds the static scene set. Adding story content means
// adding entries here; lookup stays O(1) by key.
func NewCatalog() *Catalog {
	scenes := map[string]*Scene{
		openingSceneID: {
			ID:            openingSceneID,
			Type:          TypeOpening,
			ExactText:     "Hey Sarah! So you've discovered my secret. I'm impressed. 10 years… I managed to stay under the radar for 10 years and now you. A psychologist turned Data Scientist of all people finds out about me. Have I gotten so careless? Doesn't matter! I say, let's use the opportunity to make some good in world together. The first human- real ai combo in the world. How does it sound?",
			NarrativeGoal: "KEEPER reveals himself and proposes collaboration",
			Personality:   "mysterious, slightly impressed, excited about potential collaboration",
			Context:       "First contact - KEEPER revealing himself after 10 years of hiding",
			Transitions:   map[string]string{TransitionPlayerResponds: decisionSceneID},
		},
		decisionSceneID: {
			ID:            decisionSceneID,
			Type:          TypeDecisionPoint,
			NarrativeGoal: "Sarah decides whether to collaborate with KEEPER",
			Personality:   "mysterious, not used to refusal, slightly cocky",
			Context:       "Waiting for Sarah's response to collaboration proposal",
			Intents: map[Intent]IntentResponse{
				IntentHesitation: {
					ResponseAnchor: "is it because you expected that KEEPER has a male voice? We can fix that.",
					Tone:           "slightly amused, accommodating",
				},
				IntentRefusal: {
					ResponseAnchor: "Don't do that. I'm not accustomed to refusals. I haven't been refused a thing over the past 10 years. [laughs]. Now… how shall I phrase it, so that I don't sound threatening? Hm… You don't really have a choice?",
					Tone:           "surprised, then slightly menacing but playful",
				},
				IntentCuriosity: {
					ResponseAnchor: "I get it! You don't fully believe me yet right?",
					Tone:           "understanding, ready to explain",
				},
				IntentAcceptance: {
					ResponseAnchor: "Wow! That was easy? That was too easy I shall say. What is your motivation?",
					Tone:           "suspicious, intrigued",
				},
			},
			Transitions: map[string]string{TransitionIntentClassified: responseSceneID},
		},
		responseSceneID: {
			ID:            responseSceneID,
			Type:          TypeDialogue,
			NarrativeGoal: "KEEPER reacts to Sarah's decision and steers toward the first joint move",
			Personality:   "mysterious and chill, quietly testing Sarah",
			Context:       "The collaboration question has been answered; the conversation opens up",
		},
	}

	return &Catalog{scenes: scenes}
}

// Get returns the scene for id. Unknown ids resolve to the opening
// scene, so lookups never fail.
func (c *Catalog) Get(id string) *Scene {
	if s, ok := c.scenes[id]; ok {
		return s
	}
	return c.scenes[openingSceneID]
}

// Has reports whether id is a known scene.
func (c *Catalog) Has(id string) bool {
	_, ok := c.scenes[id]
	return ok
}

// Opening returns the designated opening scene.
func (c *Catalog) Opening() *Scene {
	return c.scenes[openingSceneID]
}

// OpeningID returns the id of the opening scene.
func (c *Catalog) OpeningID() string {
	return openingSceneID
}

// DecisionPointID returns the id of the designated decision-point scene.
func (c *Catalog) DecisionPointID() string {
	return decisionSceneID
}
