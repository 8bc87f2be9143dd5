package ai

import (
	"context"
	"errors"
	"strings"
	"testing"

	domainerrors "github.com/netassist/netconfig-assist/pkg/domain/errors"
	"github.com/rs/zerolog"
)

type mockLLMClient struct {
	usageTracker
	result     string
	tokenUsage TokenUsage
	err        error
	prompts    []string
}

func (m *mockLLMClient) GetChatCompletion(ctx context.Context, prompt string) (string, TokenUsage, error) {
	m.prompts = append(m.prompts, prompt)
	if m.err != nil {
		return "", TokenUsage{}, m.err
	}
	m.add(m.tokenUsage)
	return m.result, m.tokenUsage, nil
}

func (m *mockLLMClient) Model() string    { return "mock-model" }
func (m *mockLLMClient) Provider() string { return "mock" }

func TestTestConnection_Success(t *testing.T) {
	mockClient := &mockLLMClient{
		result: "Hello! This is working perfectly.",
		tokenUsage: TokenUsage{
			PromptTokens:     15,
			CompletionTokens: 10,
			TotalTokens:      25,
		},
	}

	if err := TestConnection(context.Background(), mockClient, zerolog.Nop()); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if len(mockClient.prompts) != 1 || mockClient.prompts[0] != ProbePrompt {
		t.Errorf("Expected probe prompt to be sent once, got %v", mockClient.prompts)
	}
}

func TestTestConnection_Error(t *testing.T) {
	mockClient := &mockLLMClient{err: errors.New("API connection failed")}

	err := TestConnection(context.Background(), mockClient, zerolog.Nop())
	if err == nil {
		t.Fatal("Expected error, got nil")
	}

	expectedError := "failed to get chat completion from mock"
	if !strings.Contains(err.Error(), expectedError) {
		t.Errorf("Expected error to contain '%s', got '%s'", expectedError, err.Error())
	}
	if !strings.Contains(err.Error(), "API connection failed") {
		t.Errorf("Expected cause in error, got '%s'", err.Error())
	}
}

func TestTestConnection_ConfigurationErrorPassesThrough(t *testing.T) {
	cause := domainerrors.New(domainerrors.CodeConfigurationInvalid, "gemini", MissingAPIKeyMessage, nil)
	mockClient := &mockLLMClient{err: cause}

	err := TestConnection(context.Background(), mockClient, zerolog.Nop())
	if got := domainerrors.CodeOf(err); got != domainerrors.CodeConfigurationInvalid {
		t.Errorf("Expected CONFIGURATION_INVALID, got %s", got)
	}
}
