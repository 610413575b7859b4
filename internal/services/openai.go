package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/keeper-games/last-algorithm/pkg/engine"
)

const (
	openAIBaseURL = "https://api.openai.com/v1"

	// Request budget per generation call. Timeouts are treated by the
	// engine exactly like parse failures.
	openAITimeout = 30 * time.Second

	DefaultDialogueModel   = "gpt-4o"
	DefaultSupervisorModel = "gpt-4.1"
)

// OpenAIService implements engine.Generator against the OpenAI
// Responses API. The supervisor profile maps to the slower, precise
// model; the dialogue profile maps to the conversational one.
type OpenAIService struct {
	apiKey          string
	dialogueModel   string
	supervisorModel string
	httpClient      *http.Client
	logger          *slog.Logger
}

// Ensure OpenAIService implements the Generator interface
var _ engine.Generator = (*OpenAIService)(nil)

// OpenAIResponseRequest represents the request structure for the
// Responses API.
type OpenAIResponseRequest struct {
	Model        string  `json:"model"`
	Input        string  `json:"input"`
	Instructions string  `json:"instructions,omitempty"`
	Temperature  float64 `json:"temperature,omitempty"`
}

// OpenAIContent is one content block within a response output item.
type OpenAIContent struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// OpenAIOutputItem is one output item of a Responses API response.
type OpenAIOutputItem struct {
	Type    string          `json:"type,omitempty"`
	Content []OpenAIContent `json:"content"`
}

// OpenAIResponse represents the response structure for the Responses API.
type OpenAIResponse struct {
	ID     string             `json:"id"`
	Model  string             `json:"model"`
	Output []OpenAIOutputItem `json:"output"`
	Error  *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code,omitempty"`
	} `json:"error,omitempty"`
}

// NewOpenAIService creates a new OpenAI generation service.
func NewOpenAIService(apiKey, dialogueModel, supervisorModel string, logger *slog.Logger) *OpenAIService {
	if dialogueModel == "" {
		dialogueModel = DefaultDialogueModel
	}
	if supervisorModel == "" {
		supervisorModel = DefaultSupervisorModel
	}
	return &OpenAIService{
		apiKey:          apiKey,
		dialogueModel:   dialogueModel,
		supervisorModel: supervisorModel,
		httpClient: &http.Client{
			Timeout: openAITimeout,
		},
		logger: logger,
	}
}

// Generate performs one blocking request-response generation call.
func (s *OpenAIService) Generate(ctx context.Context, instructions, prompt string, profile engine.ModelProfile, temperature float64) (string, error) {
	request := OpenAIResponseRequest{
		Model:        s.modelFor(profile),
		Input:        prompt,
		Instructions: instructions,
		Temperature:  temperature,
	}

	reqBody, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, openAIBaseURL+"/responses", bytes.NewBuffer(reqBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var openAIResp OpenAIResponse
	if err := json.Unmarshal(body, &openAIResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if openAIResp.Error != nil {
		return "", fmt.Errorf("API error: %s", openAIResp.Error.Message)
	}

	for _, item := range openAIResp.Output {
		for _, content := range item.Content {
			if content.Text != "" {
				return content.Text, nil
			}
		}
	}

	return "", fmt.Errorf("no text content found in response")
}

func (s *OpenAIService) modelFor(profile engine.ModelProfile) string {
	if profile == engine.ProfileSupervisor {
		return s.supervisorModel
	}
	return s.dialogueModel
}
