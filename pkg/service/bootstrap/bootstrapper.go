// Package bootstrap provides MCP server initialization and setup logic
package bootstrap

import (
	"context"
	"io"

	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/netassist/netconfig-assist/pkg/api"
	"github.com/netassist/netconfig-assist/pkg/domain/errors"
	"github.com/netassist/netconfig-assist/pkg/service/tools"
)

// ServerName is announced to MCP clients during initialization.
const ServerName = "netconfig-assist"

// Bootstrapper handles MCP server creation and component registration
type Bootstrapper struct {
	logger    zerolog.Logger
	version   string
	assistant api.Assistant
}

// NewBootstrapper creates a new bootstrapper instance
func NewBootstrapper(logger zerolog.Logger, version string, assistant api.Assistant) *Bootstrapper {
	return &Bootstrapper{
		logger:    logger.With().Str("component", "mcp").Logger(),
		version:   version,
		assistant: assistant,
	}
}

// CreateMCPServer creates a new mcp-go server with tool capabilities
func (b *Bootstrapper) CreateMCPServer() *server.MCPServer {
	return server.NewMCPServer(
		ServerName,
		b.version,
		server.WithToolCapabilities(true),
		server.WithLogging(),
	)
}

// RegisterComponents registers all tools with the MCP server
func (b *Bootstrapper) RegisterComponents(mcpServer *server.MCPServer) error {
	if mcpServer == nil {
		return errors.New(errors.CodeInternalError, "bootstrapper", "mcp server not initialized", nil)
	}

	deps := tools.ToolDependencies{Assistant: b.assistant, Logger: b.logger}
	if err := tools.RegisterTools(mcpServer, deps); err != nil {
		return errors.New(errors.CodeInternalError, "bootstrapper", "failed to register components", err)
	}

	b.logger.Info().Strs("tools", tools.ToolNames()).Msg("MCP tools registered")
	return nil
}

// Serve runs the stdio transport until ctx is cancelled or in is closed.
func (b *Bootstrapper) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	mcpServer := b.CreateMCPServer()
	if err := b.RegisterComponents(mcpServer); err != nil {
		return err
	}

	stdio := server.NewStdioServer(mcpServer)
	stdio.SetErrorLogger(zerologStdLogger(b.logger))

	b.logger.Info().Str("version", b.version).Msg("Starting MCP stdio server")
	if err := stdio.Listen(ctx, in, out); err != nil && ctx.Err() == nil {
		return errors.New(errors.CodeIoError, "bootstrapper", "stdio server stopped", err)
	}
	return nil
}
