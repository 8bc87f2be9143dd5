package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/pkg/errors"

	domainerrors "github.com/netassist/netconfig-assist/pkg/domain/errors"
	"github.com/netassist/netconfig-assist/pkg/domain/generation"
)

var toolConfigs = []ToolConfig{
	{
		Name:        "list_policies",
		Description: "List the network policies available as generation context",
		Handler:     listPoliciesHandler,
	},
	{
		Name:        "get_policy",
		Description: "Show the full text of one network policy",
		Params: []ToolParam{
			{Name: "name", Description: "Policy name as returned by list_policies", Required: true, Enum: policyNames},
		},
		Handler: getPolicyHandler,
	},
	{
		Name:        "generate_configuration",
		Description: "Generate a network device configuration that adheres to the selected policy",
		Params: []ToolParam{
			{Name: "prompt", Description: "Detailed description of the configuration you need", Required: true},
			{Name: "policy", Description: "Policy to use as context; defaults to the first policy", Enum: policyNames},
		},
		Handler: generateHandler,
	},
}

// ToolNames returns the names of all registered tools.
func ToolNames() []string {
	names := make([]string, 0, len(toolConfigs))
	for _, c := range toolConfigs {
		names = append(names, c.Name)
	}
	return names
}

// RegisterTools registers all tools based on their configurations
func RegisterTools(mcpServer *server.MCPServer, deps ToolDependencies) error {
	if deps.Assistant == nil {
		return errors.New("Assistant is required but not provided")
	}
	for _, config := range toolConfigs {
		if err := RegisterTool(mcpServer, config, deps); err != nil {
			return errors.Wrapf(err, "failed to register tool %s", config.Name)
		}
	}
	return nil
}

// RegisterTool registers a single tool based on its configuration
func RegisterTool(mcpServer *server.MCPServer, config ToolConfig, deps ToolDependencies) error {
	if config.Handler == nil {
		return errors.Errorf("tool %s has no handler", config.Name)
	}

	mcpServer.AddTool(BuildTool(config, deps), config.Handler(deps))
	deps.Logger.Debug().Str("name", config.Name).Msg("Registered tool")
	return nil
}

// BuildTool creates the MCP tool definition for config.
func BuildTool(config ToolConfig, deps ToolDependencies) mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(config.Description)}
	for _, p := range config.Params {
		propOpts := []mcp.PropertyOption{mcp.Description(p.Description)}
		if p.Required {
			propOpts = append(propOpts, mcp.Required())
		}
		if p.Enum != nil {
			if values := p.Enum(deps); len(values) > 0 {
				propOpts = append(propOpts, mcp.Enum(values...))
			}
		}
		opts = append(opts, mcp.WithString(p.Name, propOpts...))
	}
	return mcp.NewTool(config.Name, opts...)
}

func policyNames(deps ToolDependencies) []string {
	policies := deps.Assistant.Policies()
	names := make([]string, 0, len(policies))
	for _, p := range policies {
		names = append(names, p.Name)
	}
	return names
}

func listPoliciesHandler(deps ToolDependencies) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		policies := deps.Assistant.Policies()
		out := make([]PolicySummary, 0, len(policies))
		for _, p := range policies {
			out = append(out, PolicySummary{Name: p.Name, Details: p.Details(), Source: p.Source})
		}
		return jsonResult(out)
	}
}

func getPolicyHandler(deps ToolDependencies) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, err := req.RequireString("name")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		p, err := deps.Assistant.Policy(name)
		if err != nil {
			return mcp.NewToolResultError(domainerrors.MessageOf(err)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("%s\n\n%s", p.Name, p.Details())), nil
	}
}

func generateHandler(deps ToolDependencies) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		g, err := deps.Assistant.Generate(ctx, generation.Request{
			PolicyName: req.GetString("policy", ""),
			Prompt:     req.GetString("prompt", ""),
		})
		if err != nil {
			deps.Logger.Warn().Err(err).Msg("generate_configuration failed")
			return mcp.NewToolResultError(domainerrors.MessageOf(err)), nil
		}
		return jsonResult(g)
	}
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("error marshaling result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
