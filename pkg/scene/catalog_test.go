package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_GetIsTotal(t *testing.T) {
	catalog := NewCatalog()

	tests := []struct {
		name       string
		id         string
		expectedID string
	}{
		{"known opening scene", "001", "001"},
		{"known decision scene", "002", "002"},
		{"known response phase scene", "response_phase_003", "response_phase_003"},
		{"unknown id falls back to opening", "999", "001"},
		{"empty id falls back to opening", "", "001"},
		{"garbage id falls back to opening", "{\"not\": \"a scene\"}", "001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := catalog.Get(tt.id)
			require.NotNil(t, s)
			assert.Equal(t, tt.expectedID, s.ID)
		})
	}
}

func TestCatalog_OpeningScene(t *testing.T) {
	catalog := NewCatalog()

	opening := catalog.Opening()
	require.NotNil(t, opening)
	assert.Equal(t, catalog.OpeningID(), opening.ID)
	assert.Equal(t, TypeOpening, opening.Type)
	assert.NotEmpty(t, opening.ExactText, "opening scene must carry scripted text")
	assert.Equal(t, catalog.DecisionPointID(), opening.NextScene(TransitionPlayerResponds))
}

func TestCatalog_DecisionPointBranches(t *testing.T) {
	catalog := NewCatalog()

	decision := catalog.Get(catalog.DecisionPointID())
	require.True(t, decision.IsDecisionPoint())

	// Every classifiable intent must have a scripted branch, so the
	// supervisor can answer decision-point turns without generation.
	for _, intent := range []Intent{IntentHesitation, IntentRefusal, IntentCuriosity, IntentAcceptance} {
		branch, ok := decision.Intents[intent]
		require.True(t, ok, "missing branch for intent %q", intent)
		assert.NotEmpty(t, branch.ResponseAnchor)
		assert.NotEmpty(t, branch.Tone)
	}

	next := decision.NextScene(TransitionIntentClassified)
	assert.True(t, catalog.Has(next), "decision point must transition to a known scene")
}
