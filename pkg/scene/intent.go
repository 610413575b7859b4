package scene

import "strings"

// Intent is a classified category of player response within a scene.
type Intent string

const (
	IntentHesitation Intent = "hesitation"
	IntentRefusal    Intent = "refusal"
	IntentCuriosity  Intent = "curiosity"
	IntentAcceptance Intent = "acceptance"
	IntentContinue   Intent = "continue"
)

// intentKeywords is evaluated top to bottom; the first category with a
// matching keyword wins. The order is a tie-break policy: an input
// containing both a refusal and an acceptance word classifies as
// refusal. Scripted responses depend on this ordering, so extend the
// table rather than reordering it.
var intentKeywords = []struct {
	intent   Intent
	keywords []string
}{
	{IntentRefusal, []string{"fuck", "no", "refuse", "won't", "can't", "never"}},
	{IntentAcceptance, []string{"yes", "okay", "sure", "agree", "let's", "sounds good"}},
	{IntentCuriosity, []string{"tell me", "explain", "how", "what", "why", "more info", "details"}},
	{IntentHesitation, []string{"um", "uh", "maybe", "not sure", "thinking", "hmm"}},
}

// Classify maps free-text player input to an intent for the given
// scene. Classification is total: scenes that are not decision points
// always yield IntentContinue, and input matching no keyword defaults
// to IntentCuriosity.
func Classify(input string, s *Scene) Intent {
	if s == nil || !s.IsDecisionPoint() {
		return IntentContinue
	}

	lower := strings.ToLower(input)
	for _, group := range intentKeywords {
		for _, kw := range group.keywords {
			if strings.Contains(lower, kw) {
				return group.intent
			}
		}
	}
	return IntentCuriosity
}
