package ai

import (
	"context"
	"fmt"

	"github.com/netassist/netconfig-assist/pkg/domain/errors"
	"github.com/rs/zerolog"
)

// ProbePrompt is sent by TestConnection.
const ProbePrompt = "Hello! Tell me this is working in one short sentence."

// TestConnection sends ProbePrompt and logs the reply and token usage.
func TestConnection(ctx context.Context, client LLMClient, log zerolog.Logger) error {
	content, tokenUsage, err := client.GetChatCompletion(ctx, ProbePrompt)
	if err != nil {
		if errors.CodeOf(err) == errors.CodeConfigurationInvalid {
			return err
		}
		return errors.New(errors.CodeNetworkError, "ai", fmt.Sprintf("failed to get chat completion from %s", client.Provider()), err)
	}

	log.Info().
		Str("provider", client.Provider()).
		Str("model", client.Model()).
		Msg("LLM connection test")
	log.Info().Msgf("Response: %s", content)
	log.Info().Msgf("Total tokens used: %d, Prompt tokens: %d, Completion tokens: %d", tokenUsage.TotalTokens, tokenUsage.PromptTokens, tokenUsage.CompletionTokens)
	return nil
}
