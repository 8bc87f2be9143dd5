package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/netassist/netconfig-assist/pkg/logger"
	"github.com/netassist/netconfig-assist/pkg/service/bootstrap"
)

func newMCPCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Run as an MCP server over stdio",
		Long:  `The mcp command exposes list_policies, get_policy and generate_configuration as MCP tools on stdin/stdout.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// stdout carries the protocol
			logger.SetOutput(os.Stderr)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			c, err := initClients(ctx, opts.cfg, clientOptions{withHistory: true})
			if err != nil {
				return err
			}
			defer c.Close()

			b := bootstrap.NewBootstrapper(logger.Logger(), Version, c.Assistant)
			return b.Serve(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}
