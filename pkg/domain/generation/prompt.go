package generation

import (
	"fmt"
	"strings"
)

// ConfigurationPrompt is the instruction sent to the LLM. It takes the policy
// context and the user's request, in that order.
const ConfigurationPrompt = `
You are a very very expert network engineer assistant. Your task is to generate a network device
configuration based on the user's request, ensuring it adheres to the provided
network policy. Provide the configuration in a clean and detail, human-readable text format,
without any extra conversation.

Network Policy:
%s

User Request:
%s

Generated Configuration:
`

// BuildPrompt fills ConfigurationPrompt.
func BuildPrompt(policyContext, userPrompt string) string {
	return fmt.Sprintf(ConfigurationPrompt, strings.TrimSpace(policyContext), strings.TrimSpace(userPrompt))
}
