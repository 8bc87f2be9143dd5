package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/netassist/netconfig-assist/pkg/ai"
	"github.com/netassist/netconfig-assist/pkg/infrastructure/observability"
	"github.com/netassist/netconfig-assist/pkg/infrastructure/persistence/history"
	"github.com/netassist/netconfig-assist/pkg/infrastructure/policyfile"
	"github.com/netassist/netconfig-assist/pkg/logger"
	"github.com/netassist/netconfig-assist/pkg/service/assistant"
	"github.com/netassist/netconfig-assist/pkg/service/config"
)

// newLLMClient builds the client for the configured provider. Tests replace it.
var newLLMClient = func(cfg *config.Config) (ai.LLMClient, error) {
	switch cfg.Provider {
	case ai.ProviderAzure:
		return ai.NewAzOpenAIClient(cfg.AzureEndpoint, cfg.AzureAPIKey, cfg.AzureDeployment, cfg.Temperature, cfg.MaxOutputTokens)
	case ai.ProviderGemini:
		return ai.NewGeminiClient(ai.GeminiConfig{
			APIKey:          cfg.GoogleAPIKey,
			Model:           cfg.GeminiModel,
			BaseURL:         cfg.GeminiBaseURL,
			Temperature:     cfg.Temperature,
			MaxOutputTokens: cfg.MaxOutputTokens,
			Timeout:         cfg.RequestTimeout,
			RetryMax:        cfg.RetryMax,
			Logger:          logger.With("gemini"),
		}), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}

// Clients holds everything a command needs to talk to the assistant.
type Clients struct {
	Assistant *assistant.Service
	LLM       ai.LLMClient
	Registry  *prometheus.Registry

	store  history.Store
	tracer *observability.TracingManager
}

type clientOptions struct {
	// withHistory opens the history database when enabled in config.
	withHistory bool
}

// initClients wires the assistant from configuration.
func initClients(ctx context.Context, cfg *config.Config, opts clientOptions) (*Clients, error) {
	catalog, err := policyfile.LoadCatalog(cfg.PolicyDir, cfg.PolicyDirOptional())
	if err != nil {
		return nil, err
	}

	llm, err := newLLMClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s client: %w", cfg.Provider, err)
	}

	c := &Clients{LLM: llm}

	var metrics *observability.Metrics
	if cfg.MetricsEnabled {
		c.Registry = prometheus.NewRegistry()
		c.Registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		metrics = observability.NewMetrics(c.Registry)
	}

	// Spans go to stderr so they never mix with command or MCP output.
	c.tracer = observability.NewTracingManager(observability.TracingConfig{
		Enabled:        cfg.TracingEnabled,
		ServiceName:    cfg.ServiceName,
		ServiceVersion: cfg.ServiceVersion,
		Output:         os.Stderr,
	})
	if err := c.tracer.Initialize(ctx); err != nil {
		return nil, err
	}

	if opts.withHistory && cfg.HistoryEnabled {
		store, err := history.NewBoltStore(cfg.HistoryPath)
		if err != nil {
			_ = c.tracer.Shutdown(ctx)
			return nil, err
		}
		c.store = store
	}

	svc, err := assistant.New(assistant.Options{
		Catalog:        catalog,
		LLM:            llm,
		Store:          c.store,
		Metrics:        metrics,
		Tracer:         c.tracer,
		RequestTimeout: cfg.RequestTimeout,
		Logger:         logger.Logger(),
	})
	if err != nil {
		c.Close()
		return nil, err
	}
	c.Assistant = svc

	lg := logger.Logger()
	lg.Debug().
		Str("provider", llm.Provider()).
		Str("model", llm.Model()).
		Int("policies", catalog.Len()).
		Bool("history", c.store != nil).
		Msg("Assistant initialized")
	return c, nil
}

// Close releases the history database and flushes spans.
func (c *Clients) Close() {
	if c.store != nil {
		if err := c.store.Close(); err != nil {
			logger.Warnf("failed to close history: %v", err)
		}
	}
	if c.tracer != nil {
		if err := c.tracer.Shutdown(context.Background()); err != nil {
			logger.Warnf("failed to flush traces: %v", err)
		}
	}
}
