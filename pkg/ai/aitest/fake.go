// Package aitest provides an in-memory ai.LLMClient for tests.
package aitest

import (
	"context"
	"sync"

	"github.com/netassist/netconfig-assist/pkg/ai"
)

// FakeClient returns canned responses and records prompts.
type FakeClient struct {
	mu sync.Mutex

	Response string
	Usage    ai.TokenUsage
	Err      error
	// Hook, when set, runs instead of the canned response.
	Hook func(ctx context.Context, prompt string) (string, ai.TokenUsage, error)

	prompts []string
	total   ai.TokenUsage
}

var _ ai.LLMClient = (*FakeClient)(nil)

func (f *FakeClient) GetChatCompletion(ctx context.Context, prompt string) (string, ai.TokenUsage, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	hook := f.Hook
	f.mu.Unlock()

	if hook != nil {
		return hook(ctx, prompt)
	}
	if f.Err != nil {
		return "", ai.TokenUsage{}, f.Err
	}

	f.mu.Lock()
	f.total.Add(f.Usage)
	f.mu.Unlock()
	return f.Response, f.Usage, nil
}

// Prompts returns every prompt received so far.
func (f *FakeClient) Prompts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.prompts))
	copy(out, f.prompts)
	return out
}

func (f *FakeClient) GetTokenUsage() ai.TokenUsage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.total
}

func (f *FakeClient) ResetTokenUsage() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.total = ai.TokenUsage{}
}

func (f *FakeClient) Model() string    { return "fake-model" }
func (f *FakeClient) Provider() string { return "fake" }
