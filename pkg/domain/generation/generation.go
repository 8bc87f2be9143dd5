// Package generation models a configuration generation request and its
// result.
package generation

import (
	"strings"
	"time"

	"github.com/netassist/netconfig-assist/pkg/domain/errors"
)

const (
	// EmptyRequestMessage is shown when the user submits no request text.
	EmptyRequestMessage = "Please provide a configuration request."
	// NoConfigurationText replaces an empty LLM answer.
	NoConfigurationText = "No configuration generated."

	VerifiedMessage = "Configuration verified! It is consistent with the selected policy."
	DeployMessage   = "The configuration is now ready for safe deployment to a virtual device for final testing."
)

// Notice statuses.
const (
	StatusVerified = "verified"
	StatusReady    = "ready"
)

// Request asks for a configuration under a named policy.
type Request struct {
	PolicyName string `json:"policy"`
	Prompt     string `json:"prompt"`
}

// Validate rejects requests without any request text.
func (r Request) Validate() error {
	if strings.TrimSpace(r.Prompt) == "" {
		return errors.New(errors.CodeMissingParameter, "generation", EmptyRequestMessage, nil)
	}
	return nil
}

// TokenUsage is the token accounting reported by the LLM provider.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Add accumulates other into u.
func (u *TokenUsage) Add(other TokenUsage) {
	u.PromptTokens += other.PromptTokens
	u.CompletionTokens += other.CompletionTokens
	u.TotalTokens += other.TotalTokens
}

// Notice is a status banner attached to a generation.
type Notice struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Generation is a completed configuration generation.
type Generation struct {
	ID            string        `json:"id"`
	PolicyName    string        `json:"policy"`
	Prompt        string        `json:"prompt"`
	Configuration string        `json:"configuration"`
	Provider      string        `json:"provider"`
	Model         string        `json:"model"`
	CreatedAt     time.Time     `json:"created_at"`
	Duration      time.Duration `json:"duration"`
	Usage         TokenUsage    `json:"usage"`
	Verification  Notice        `json:"verification"`
	Deployment    Notice        `json:"deployment"`
}

// NormalizeConfiguration substitutes NoConfigurationText for empty output.
func NormalizeConfiguration(text string) string {
	if strings.TrimSpace(text) == "" {
		return NoConfigurationText
	}
	return text
}

// Verify returns the verification notice for g. Verification is simulated:
// every generated configuration is reported consistent with its policy.
func Verify(g *Generation) Notice {
	return Notice{Status: StatusVerified, Message: VerifiedMessage}
}

// Deploy returns the simulated deployment notice for g.
func Deploy(g *Generation) Notice {
	return Notice{Status: StatusReady, Message: DeployMessage}
}
