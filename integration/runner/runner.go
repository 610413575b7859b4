package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/keeper-games/last-algorithm/pkg/chat"
)

// Runner executes integration suites against a running API.
type Runner struct {
	BaseURL string
	Client  *http.Client
	Timeout time.Duration
	Logger  func(format string, args ...interface{})
}

// NewRunner creates a new test runner.
func NewRunner(baseURL string) *Runner {
	return &Runner{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		Client:  &http.Client{Timeout: 60 * time.Second},
		Timeout: 30 * time.Second,
	}
}

func (r *Runner) logf(format string, args ...interface{}) {
	if r.Logger != nil {
		r.Logger(format, args...)
	}
}

// RunSuite creates a fresh session and executes every step in order.
func (r *Runner) RunSuite(ctx context.Context, suite TestSuite) (TestRunResult, error) {
	start := time.Now()
	result := TestRunResult{
		Suite:   suite,
		Results: make([]TestResult, 0, len(suite.Steps)),
	}

	sessionID, err := r.createSession(ctx, suite.PlayerName)
	if err != nil {
		result.Error = fmt.Errorf("failed to create session: %w", err)
		result.Duration = time.Since(start)
		return result, result.Error
	}
	result.SessionID = sessionID
	r.logf("  session %s created", sessionID)

	for _, step := range suite.Steps {
		stepResult := r.runStep(ctx, sessionID, step)
		result.Results = append(result.Results, stepResult)
		if !stepResult.Success {
			result.Error = fmt.Errorf("step %q failed: %w", step.Name, stepResult.Error)
		}
	}

	result.Duration = time.Since(start)
	return result, nil
}

func (r *Runner) runStep(ctx context.Context, sessionID string, step TestStep) TestResult {
	start := time.Now()
	result := TestResult{StepName: step.Name}

	stepCtx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	resp, err := r.sendTurn(stepCtx, sessionID, step.PlayerInput)
	if err != nil {
		result.Error = err
		result.Duration = time.Since(start)
		return result
	}
	result.ResponseText = resp.ResponseText

	if err := checkExpectations(step.Expect, resp); err != nil {
		result.Error = err
	} else {
		result.Success = true
	}
	result.Duration = time.Since(start)
	return result
}

func checkExpectations(expect Expectations, resp *chat.TurnResponse) error {
	if expect.ResponseEquals != "" && resp.ResponseText != expect.ResponseEquals {
		return fmt.Errorf("expected exact response %q, got %q", expect.ResponseEquals, resp.ResponseText)
	}
	lower := strings.ToLower(resp.ResponseText)
	for _, want := range expect.ResponseContains {
		if !strings.Contains(lower, strings.ToLower(want)) {
			return fmt.Errorf("response missing %q: %q", want, resp.ResponseText)
		}
	}
	for _, reject := range expect.ResponseNotContains {
		if strings.Contains(lower, strings.ToLower(reject)) {
			return fmt.Errorf("response must not contain %q: %q", reject, resp.ResponseText)
		}
	}
	if expect.ResponseMinLength > 0 && len(resp.ResponseText) < expect.ResponseMinLength {
		return fmt.Errorf("response shorter than %d chars: %q", expect.ResponseMinLength, resp.ResponseText)
	}
	if expect.ActionTaken != "" && resp.ActionTaken != expect.ActionTaken {
		return fmt.Errorf("expected action %q, got %q", expect.ActionTaken, resp.ActionTaken)
	}
	if expect.GameStatus != "" && resp.GameStatus != expect.GameStatus {
		return fmt.Errorf("expected game status %q, got %q", expect.GameStatus, resp.GameStatus)
	}
	if expect.Stage != "" && resp.GameState.Stage != expect.Stage {
		return fmt.Errorf("expected stage %q, got %q", expect.Stage, resp.GameState.Stage)
	}
	if expect.Scene != "" && resp.GameState.CurrentScene != expect.Scene {
		return fmt.Errorf("expected scene %q, got %q", expect.Scene, resp.GameState.CurrentScene)
	}
	if expect.LastIntent != "" && string(resp.GameState.LastIntent) != expect.LastIntent {
		return fmt.Errorf("expected last intent %q, got %q", expect.LastIntent, resp.GameState.LastIntent)
	}
	return nil
}

func (r *Runner) createSession(ctx context.Context, playerName string) (string, error) {
	body, err := json.Marshal(chat.SessionRequest{PlayerName: playerName})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.BaseURL+"/api/session", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(data))
	}

	var sessionResp chat.SessionResponse
	if err := json.Unmarshal(data, &sessionResp); err != nil {
		return "", fmt.Errorf("failed to parse session response: %w", err)
	}
	return sessionResp.SessionID, nil
}

func (r *Runner) sendTurn(ctx context.Context, sessionID, input string) (*chat.TurnResponse, error) {
	body, err := json.Marshal(chat.TurnRequest{SessionID: sessionID, PlayerInput: input})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.BaseURL+"/api/player-action", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(data))
	}

	var turnResp chat.TurnResponse
	if err := json.Unmarshal(data, &turnResp); err != nil {
		return nil, fmt.Errorf("failed to parse turn response: %w", err)
	}
	return &turnResp, nil
}
