package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify_DecisionPoint(t *testing.T) {
	catalog := NewCatalog()
	decision := catalog.Get(catalog.DecisionPointID())

	tests := []struct {
		name     string
		input    string
		expected Intent
	}{
		{
			name:     "refusal keyword",
			input:    "no thanks, I refuse",
			expected: IntentRefusal,
		},
		{
			name:     "acceptance keyword",
			input:    "yes, sounds good to me",
			expected: IntentAcceptance,
		},
		{
			name:     "curiosity keyword",
			input:    "tell me more about yourself",
			expected: IntentCuriosity,
		},
		{
			name:     "hesitation keyword",
			input:    "um, maybe",
			expected: IntentHesitation,
		},
		{
			name:     "refusal beats acceptance when both present",
			input:    "yes and no, I can't agree to this",
			expected: IntentRefusal,
		},
		{
			name:     "acceptance beats curiosity when both present",
			input:    "sure, but explain the plan",
			expected: IntentAcceptance,
		},
		{
			name:     "empty input defaults to curiosity",
			input:    "",
			expected: IntentCuriosity,
		},
		{
			name:     "unmatched input defaults to curiosity",
			input:    "the weather is nice today",
			expected: IntentCuriosity,
		},
		{
			name:     "matching is case-insensitive",
			input:    "NEVER going to happen",
			expected: IntentRefusal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.input, decision))
		})
	}
}

func TestClassify_NonDecisionScenes(t *testing.T) {
	catalog := NewCatalog()
	opening := catalog.Opening()

	inputs := []string{"", "no", "yes", "tell me everything", "um maybe"}
	for _, input := range inputs {
		assert.Equal(t, IntentContinue, Classify(input, opening), "input %q", input)
	}

	// Nil scene is treated like a non-decision scene.
	assert.Equal(t, IntentContinue, Classify("no", nil))
}
