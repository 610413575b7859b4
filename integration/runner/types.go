package runner

import (
	"time"
)

// TestSuite defines one end-to-end conversation against a running API.
// Each suite gets its own fresh session.
type TestSuite struct {
	Name       string
	PlayerName string
	Steps      []TestStep
}

// TestStep is a single player turn and its expected outcomes.
type TestStep struct {
	Name        string
	PlayerInput string
	Expect      Expectations
}

// Expectations defines what to check after a step executes. Nil and
// zero-length fields are not checked, so adaptive turns can assert
// only the deterministic parts of a response.
type Expectations struct {
	ResponseEquals      string
	ResponseContains    []string
	ResponseNotContains []string
	ResponseMinLength   int

	ActionTaken string
	GameStatus  string
	Stage       string
	Scene       string
	LastIntent  string
}

// TestResult contains the outcome of running a single step.
type TestResult struct {
	StepName     string
	Success      bool
	Error        error
	Duration     time.Duration
	ResponseText string
}

// TestRunResult contains the results of running an entire suite.
type TestRunResult struct {
	Suite     TestSuite
	SessionID string
	Results   []TestResult
	Error     error
	Duration  time.Duration
}
