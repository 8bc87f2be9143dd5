package ai

import (
	"testing"

	"github.com/Azure/azure-sdk-for-go/sdk/ai/azopenai"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/netassist/netconfig-assist/pkg/domain/errors"
)

func TestAzOpenAIClient_TokenUsageManagement(t *testing.T) {
	client := &AzOpenAIClient{
		deploymentID: "test-deployment",
	}

	// Test initial state
	usage := client.GetTokenUsage()
	if usage.PromptTokens != 0 || usage.CompletionTokens != 0 || usage.TotalTokens != 0 {
		t.Errorf("Expected zero initial usage, got %+v", usage)
	}

	azUsage := &azopenai.CompletionsUsage{
		PromptTokens:     to.Ptr(int32(50)),
		CompletionTokens: to.Ptr(int32(100)),
		TotalTokens:      to.Ptr(int32(150)),
	}

	got := client.IncrementTokenUsage(azUsage)
	if got.TotalTokens != 150 {
		t.Errorf("Expected returned TotalTokens=150, got %d", got.TotalTokens)
	}

	client.IncrementTokenUsage(azUsage)
	usage = client.GetTokenUsage()
	if usage.PromptTokens != 100 {
		t.Errorf("Expected PromptTokens=100 after second increment, got %d", usage.PromptTokens)
	}
	if usage.CompletionTokens != 200 {
		t.Errorf("Expected CompletionTokens=200 after second increment, got %d", usage.CompletionTokens)
	}
	if usage.TotalTokens != 300 {
		t.Errorf("Expected TotalTokens=300 after second increment, got %d", usage.TotalTokens)
	}

	// nil usage blocks are ignored
	client.IncrementTokenUsage(nil)
	if client.GetTokenUsage() != usage {
		t.Errorf("Expected nil usage to be ignored, got %+v", client.GetTokenUsage())
	}

	client.ResetTokenUsage()
	usage = client.GetTokenUsage()
	if usage.PromptTokens != 0 || usage.CompletionTokens != 0 || usage.TotalTokens != 0 {
		t.Errorf("Expected zero usage after reset, got %+v", usage)
	}
}

func TestNewAzOpenAIClient_MissingSettings(t *testing.T) {
	tests := []struct {
		name         string
		endpoint     string
		apiKey       string
		deploymentID string
	}{
		{name: "empty endpoint", apiKey: "k", deploymentID: "d"},
		{name: "empty api key", endpoint: "https://test.openai.azure.com", deploymentID: "d"},
		{name: "empty deployment id", endpoint: "https://test.openai.azure.com", apiKey: "k"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewAzOpenAIClient(tt.endpoint, tt.apiKey, tt.deploymentID, DefaultTemperature, DefaultMaxOutputTokens)
			if err == nil {
				t.Fatal("Expected error for missing settings")
			}
			if errors.CodeOf(err) != errors.CodeConfigurationInvalid {
				t.Errorf("Expected CONFIGURATION_INVALID, got %s", errors.CodeOf(err))
			}
		})
	}
}

func TestNewAzOpenAIClient_Valid(t *testing.T) {
	client, err := NewAzOpenAIClient("https://test.openai.azure.com", "test-key", "gpt-4o", DefaultTemperature, DefaultMaxOutputTokens)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if client.Model() != "gpt-4o" {
		t.Errorf("Expected model gpt-4o, got %s", client.Model())
	}
	if client.Provider() != ProviderAzure {
		t.Errorf("Expected provider %s, got %s", ProviderAzure, client.Provider())
	}
}
