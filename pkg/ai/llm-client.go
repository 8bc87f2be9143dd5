package ai

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/ai/azopenai"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/netassist/netconfig-assist/pkg/domain/errors"
)

type AzOpenAIClient struct {
	usageTracker
	client       *azopenai.Client
	deploymentID string
	temperature  float32
	maxTokens    int32
}

// NewAzOpenAIClient creates and returns a new AzOpenAIClient using the provided credentials
// The deploymentID is stored and used for all subsequent API calls
func NewAzOpenAIClient(endpoint, apiKey, deploymentID string, temperature float32, maxTokens int32) (*AzOpenAIClient, error) {
	if apiKey == "" || endpoint == "" || deploymentID == "" {
		return nil, errors.New(errors.CodeConfigurationInvalid, "ai",
			"Azure OpenAI is not configured. Set AZURE_OPENAI_KEY, AZURE_OPENAI_ENDPOINT and AZURE_OPENAI_DEPLOYMENT_ID.", nil)
	}
	keyCredential := azcore.NewKeyCredential(apiKey)
	client, err := azopenai.NewClientWithKeyCredential(endpoint, keyCredential, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating Azure OpenAI client: %w", err)
	}
	return &AzOpenAIClient{
		client:       client,
		deploymentID: deploymentID,
		temperature:  temperature,
		maxTokens:    maxTokens,
	}, nil
}

func (c *AzOpenAIClient) Model() string    { return c.deploymentID }
func (c *AzOpenAIClient) Provider() string { return ProviderAzure }

// GetChatCompletion sends a prompt to the LLM and returns the completion text.
func (c *AzOpenAIClient) GetChatCompletion(ctx context.Context, promptText string) (string, TokenUsage, error) {
	resp, err := c.client.GetChatCompletions(
		ctx,
		azopenai.ChatCompletionsOptions{
			DeploymentName: to.Ptr(c.deploymentID),
			Temperature:    to.Ptr(c.temperature),
			MaxTokens:      to.Ptr(c.maxTokens),
			Messages: []azopenai.ChatRequestMessageClassification{
				&azopenai.ChatRequestUserMessage{
					Content: azopenai.NewChatRequestUserMessageContent(promptText),
				},
			},
		},
		nil,
	)
	if err != nil {
		return "", TokenUsage{}, errors.New(errors.CodeNetworkError, "ai", "Error communicating with Azure OpenAI", err)
	}

	usage := c.IncrementTokenUsage(resp.Usage)

	if len(resp.Choices) > 0 && resp.Choices[0].Message != nil && resp.Choices[0].Message.Content != nil {
		return *resp.Choices[0].Message.Content, usage, nil
	}
	return "", usage, nil
}

// IncrementTokenUsage adds the SDK usage block to the running total and
// returns it converted.
func (c *AzOpenAIClient) IncrementTokenUsage(u *azopenai.CompletionsUsage) TokenUsage {
	if u == nil {
		return TokenUsage{}
	}
	var t TokenUsage
	if u.PromptTokens != nil {
		t.PromptTokens = int(*u.PromptTokens)
	}
	if u.CompletionTokens != nil {
		t.CompletionTokens = int(*u.CompletionTokens)
	}
	if u.TotalTokens != nil {
		t.TotalTokens = int(*u.TotalTokens)
	}
	c.add(t)
	return t
}
