package services

import (
	"encoding/json"
	"log/slog"
	"os"
	"testing"

	"github.com/keeper-games/last-algorithm/pkg/engine"
)

func TestNewOpenAIService(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	service := NewOpenAIService("test-api-key", "dialogue-model", "supervisor-model", logger)

	if service.apiKey != "test-api-key" {
		t.Errorf("Expected apiKey 'test-api-key', got %q", service.apiKey)
	}
	if service.dialogueModel != "dialogue-model" {
		t.Errorf("Expected dialogueModel 'dialogue-model', got %q", service.dialogueModel)
	}
	if service.supervisorModel != "supervisor-model" {
		t.Errorf("Expected supervisorModel 'supervisor-model', got %q", service.supervisorModel)
	}
	if service.httpClient == nil {
		t.Error("Expected httpClient to be initialized")
	}
}

func TestNewOpenAIService_DefaultModels(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	service := NewOpenAIService("test-api-key", "", "", logger)

	if service.dialogueModel != DefaultDialogueModel {
		t.Errorf("Expected default dialogue model %q, got %q", DefaultDialogueModel, service.dialogueModel)
	}
	if service.supervisorModel != DefaultSupervisorModel {
		t.Errorf("Expected default supervisor model %q, got %q", DefaultSupervisorModel, service.supervisorModel)
	}
}

func TestOpenAIService_ModelFor(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	service := NewOpenAIService("key", "dialogue-model", "supervisor-model", logger)

	if got := service.modelFor(engine.ProfileSupervisor); got != "supervisor-model" {
		t.Errorf("Expected 'supervisor-model' for supervisor profile, got %q", got)
	}
	if got := service.modelFor(engine.ProfileDialogue); got != "dialogue-model" {
		t.Errorf("Expected 'dialogue-model' for dialogue profile, got %q", got)
	}
}

func TestOpenAIResponse_Unmarshal(t *testing.T) {
	raw := `{
		"id": "resp_123",
		"model": "gpt-4o",
		"output": [
			{"type": "message", "content": [{"type": "output_text", "text": "Hey Sarah."}]}
		]
	}`

	var resp OpenAIResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if len(resp.Output) != 1 || len(resp.Output[0].Content) != 1 {
		t.Fatalf("Unexpected output shape: %+v", resp.Output)
	}
	if resp.Output[0].Content[0].Text != "Hey Sarah." {
		t.Errorf("Expected text 'Hey Sarah.', got %q", resp.Output[0].Content[0].Text)
	}
}
