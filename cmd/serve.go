package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/netassist/netconfig-assist/pkg/infrastructure/transport"
	"github.com/netassist/netconfig-assist/pkg/logger"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var (
		address string
		port    int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the web UI and JSON API",
		Long:  `The serve command starts the HTTP server hosting the configuration assistant UI, the JSON API, /healthz and /metrics.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.cfg
			if cmd.Flags().Changed("address") {
				cfg.Address = address
			}
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			c, err := initClients(ctx, cfg, clientOptions{withHistory: true})
			if err != nil {
				return err
			}
			defer c.Close()

			httpCfg := transport.HTTPTransportConfig{
				Address:        cfg.Address,
				Port:           cfg.Port,
				CORSOrigins:    cfg.CORSOrigins,
				Assistant:      c.Assistant,
				Logger:         logger.Logger(),
				Tracing:        cfg.TracingEnabled,
				Version:        Version,
				RequestTimeout: cfg.RequestTimeout,
			}
			if c.Registry != nil {
				httpCfg.Gatherer = c.Registry
			}
			server, err := transport.NewHTTPTransport(httpCfg)
			if err != nil {
				return err
			}

			provider, model := c.Assistant.Provider()
			lg := logger.Logger()
			lg.Info().
				Str("address", server.Addr()).
				Str("provider", provider).
				Str("model", model).
				Msg("Network configuration assistant ready")

			if err := server.Start(ctx); err != nil && err != context.Canceled {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&address, "address", "0.0.0.0", "Address to bind the HTTP server to")
	cmd.Flags().IntVarP(&port, "port", "p", 8501, "Port to bind the HTTP server to")
	return cmd
}
