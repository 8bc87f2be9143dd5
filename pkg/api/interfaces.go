package api

import (
	"context"

	"github.com/netassist/netconfig-assist/pkg/domain/generation"
	"github.com/netassist/netconfig-assist/pkg/domain/policy"
	"github.com/netassist/netconfig-assist/pkg/service/assistant"
)

// Server represents a long-running transport (HTTP, MCP stdio).
type Server interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// Assistant is what the transports need from the application core.
type Assistant interface {
	Policies() []policy.Policy
	Policy(name string) (policy.Policy, error)
	DefaultPolicy() policy.Policy
	Generate(ctx context.Context, req generation.Request) (*generation.Generation, error)
	History(ctx context.Context, limit int) ([]*generation.Generation, error)
	Generation(ctx context.Context, id string) (*generation.Generation, error)
	DeleteGeneration(ctx context.Context, id string) error
	HistoryEnabled() bool
	Provider() (provider, model string)
}

var _ Assistant = (*assistant.Service)(nil)
