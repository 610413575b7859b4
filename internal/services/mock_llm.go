package services

import (
	"context"
	"sync"

	"github.com/keeper-games/last-algorithm/pkg/engine"
)

// GenerateCall records the arguments of one Generate invocation.
type GenerateCall struct {
	Instructions string
	Prompt       string
	Profile      engine.ModelProfile
	Temperature  float64
}

// MockGenerator is a mock implementation of engine.Generator for testing.
type MockGenerator struct {
	GenerateFunc func(ctx context.Context, instructions, prompt string, profile engine.ModelProfile, temperature float64) (string, error)

	// Track calls for testing
	GenerateCalls []GenerateCall

	mu sync.Mutex // protects all fields above
}

// Ensure MockGenerator implements the Generator interface
var _ engine.Generator = (*MockGenerator)(nil)

// NewMockGenerator creates a new mock generation service.
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{
		GenerateCalls: make([]GenerateCall, 0),
	}
}

// Generate mocks one generation call.
func (m *MockGenerator) Generate(ctx context.Context, instructions, prompt string, profile engine.ModelProfile, temperature float64) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.GenerateCalls = append(m.GenerateCalls, GenerateCall{
		Instructions: instructions,
		Prompt:       prompt,
		Profile:      profile,
		Temperature:  temperature,
	})

	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, instructions, prompt, profile, temperature)
	}

	// Default behavior - an unstructured reply
	return "Mock response", nil
}

// SetResponse sets up the mock to return a fixed string.
func (m *MockGenerator) SetResponse(response string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GenerateFunc = func(ctx context.Context, instructions, prompt string, profile engine.ModelProfile, temperature float64) (string, error) {
		return response, nil
	}
}

// SetError sets up the mock to fail every call with err.
func (m *MockGenerator) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GenerateFunc = func(ctx context.Context, instructions, prompt string, profile engine.ModelProfile, temperature float64) (string, error) {
		return "", err
	}
}

// CallCount returns the number of Generate calls so far.
func (m *MockGenerator) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.GenerateCalls)
}

// GetCalls returns a copy of the call tracking data in a thread-safe way.
func (m *MockGenerator) GetCalls() []GenerateCall {
	m.mu.Lock()
	defer m.mu.Unlock()

	calls := make([]GenerateCall, len(m.GenerateCalls))
	copy(calls, m.GenerateCalls)
	return calls
}

// Reset clears all call tracking.
func (m *MockGenerator) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GenerateFunc = nil
	m.GenerateCalls = make([]GenerateCall, 0)
}
