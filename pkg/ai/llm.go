package ai

import (
	"context"
	"sync"

	"github.com/netassist/netconfig-assist/pkg/domain/generation"
)

// Provider names accepted in configuration.
const (
	ProviderGemini = "gemini"
	ProviderAzure  = "azure"
)

// Sampling defaults used by every provider.
const (
	DefaultTemperature     float32 = 0.5
	DefaultMaxOutputTokens int32   = 1024
)

// TokenUsage is re-exported so callers of this package need not import the
// domain package for accounting alone.
type TokenUsage = generation.TokenUsage

// LLMClient sends a single prompt to a language model.
type LLMClient interface {
	GetChatCompletion(ctx context.Context, prompt string) (string, TokenUsage, error)
	GetTokenUsage() TokenUsage
	ResetTokenUsage()
	Model() string
	Provider() string
}

// usageTracker accumulates token usage across calls.
type usageTracker struct {
	mu    sync.Mutex
	usage TokenUsage
}

func (u *usageTracker) add(t TokenUsage) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.usage.Add(t)
}

func (u *usageTracker) GetTokenUsage() TokenUsage {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.usage
}

func (u *usageTracker) ResetTokenUsage() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.usage = TokenUsage{}
}
