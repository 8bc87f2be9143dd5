// Package tools exposes the assistant as MCP tools.
package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/netassist/netconfig-assist/pkg/api"
	"github.com/rs/zerolog"
)

// ToolDependencies holds what tool handlers need.
type ToolDependencies struct {
	Assistant api.Assistant
	Logger    zerolog.Logger
}

// ToolParam describes one string input parameter.
type ToolParam struct {
	Name        string
	Description string
	Required    bool
	Enum        func(deps ToolDependencies) []string
}

// ToolConfig declares a tool and its handler.
type ToolConfig struct {
	Name        string
	Description string
	Params      []ToolParam
	Handler     func(deps ToolDependencies) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)
}

// PolicySummary is the list_policies result entry.
type PolicySummary struct {
	Name    string `json:"name"`
	Details string `json:"details"`
	Source  string `json:"source"`
}
