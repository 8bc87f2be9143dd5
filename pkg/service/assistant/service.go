// Package assistant orchestrates policy retrieval, prompt assembly, LLM
// generation and history for network configuration requests.
package assistant

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/netassist/netconfig-assist/pkg/ai"
	"github.com/netassist/netconfig-assist/pkg/domain/errors"
	"github.com/netassist/netconfig-assist/pkg/domain/generation"
	"github.com/netassist/netconfig-assist/pkg/domain/policy"
	"github.com/netassist/netconfig-assist/pkg/infrastructure/observability"
	"github.com/netassist/netconfig-assist/pkg/infrastructure/persistence/history"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
)

const defaultRequestTimeout = 60 * time.Second

// Options wires the service's collaborators. Store, Metrics and Tracer are optional.
type Options struct {
	Catalog        *policy.Catalog
	LLM            ai.LLMClient
	Store          history.Store
	Metrics        *observability.Metrics
	Tracer         *observability.TracingManager
	RequestTimeout time.Duration
	Logger         zerolog.Logger
}

// Service is the application core shared by the HTTP, MCP and CLI surfaces.
type Service struct {
	catalog *policy.Catalog
	llm     ai.LLMClient
	store   history.Store
	metrics *observability.Metrics
	tracer  *observability.TracingManager
	timeout time.Duration
	log     zerolog.Logger

	now   func() time.Time
	newID func() string
}

// New validates opts and builds a Service.
func New(opts Options) (*Service, error) {
	if opts.Catalog == nil || opts.Catalog.Len() == 0 {
		return nil, errors.New(errors.CodeConfigurationInvalid, "assistant", "at least one policy is required", nil)
	}
	if opts.LLM == nil {
		return nil, errors.New(errors.CodeConfigurationInvalid, "assistant", "an LLM client is required", nil)
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = defaultRequestTimeout
	}

	return &Service{
		catalog: opts.Catalog,
		llm:     opts.LLM,
		store:   opts.Store,
		metrics: opts.Metrics,
		tracer:  opts.Tracer,
		timeout: opts.RequestTimeout,
		log:     opts.Logger.With().Str("component", "assistant").Logger(),
		now:     time.Now,
		newID:   func() string { return uuid.NewString() },
	}, nil
}

// Policies returns the catalog's policies in presentation order.
func (s *Service) Policies() []policy.Policy {
	return s.catalog.List()
}

// Policy returns the named policy.
func (s *Service) Policy(name string) (policy.Policy, error) {
	return s.catalog.Get(name)
}

// DefaultPolicy returns the policy selected when none is given.
func (s *Service) DefaultPolicy() policy.Policy {
	p, _ := s.catalog.Default()
	return p
}

// HistoryEnabled reports whether generations are persisted.
func (s *Service) HistoryEnabled() bool {
	return s.store != nil
}

// Provider returns the LLM provider and model in use.
func (s *Service) Provider() (provider, model string) {
	return s.llm.Provider(), s.llm.Model()
}

func (s *Service) resolvePolicy(name string) (policy.Policy, error) {
	if strings.TrimSpace(name) == "" {
		return s.DefaultPolicy(), nil
	}
	return s.catalog.Get(name)
}

// Generate produces a configuration for req. A blank policy name selects
// the default policy. History failures are logged and do not fail the call.
func (s *Service) Generate(ctx context.Context, req generation.Request) (*generation.Generation, error) {
	ctx, span := s.tracer.StartSpan(ctx, "assistant.generate",
		attribute.String("policy", req.PolicyName),
		attribute.String("provider", s.llm.Provider()),
	)
	defer span.End()

	gm := observability.GenerationMetrics{
		Policy:   req.PolicyName,
		Provider: s.llm.Provider(),
		Model:    s.llm.Model(),
	}
	fail := func(err error) (*generation.Generation, error) {
		gm.ErrorCode = string(errors.CodeOf(err))
		s.metrics.RecordGeneration(gm)
		observability.RecordError(span, err)
		return nil, err
	}

	if err := req.Validate(); err != nil {
		return fail(err)
	}

	pol, err := s.resolvePolicy(req.PolicyName)
	if err != nil {
		return fail(err)
	}
	gm.Policy = pol.Name

	prompt := generation.BuildPrompt(pol.Context, req.Prompt)
	gm.PromptLength = len(prompt)

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := s.now()
	text, usage, err := s.llm.GetChatCompletion(callCtx, prompt)
	gm.Duration = s.now().Sub(start)
	if err != nil {
		if ctx.Err() == nil && stderrors.Is(callCtx.Err(), context.DeadlineExceeded) && errors.CodeOf(err) != errors.CodeTimeoutError {
			err = errors.New(errors.CodeTimeoutError, "assistant",
				fmt.Sprintf("the model did not respond within %s", s.timeout), err)
		}
		s.log.Error().Err(err).
			Str("policy", pol.Name).
			Dur("duration", gm.Duration).
			Msg("Configuration generation failed")
		return fail(err)
	}

	g := &generation.Generation{
		ID:            s.newID(),
		PolicyName:    pol.Name,
		Prompt:        strings.TrimSpace(req.Prompt),
		Configuration: generation.NormalizeConfiguration(text),
		Provider:      s.llm.Provider(),
		Model:         s.llm.Model(),
		CreatedAt:     start.UTC(),
		Duration:      gm.Duration,
		Usage:         usage,
	}
	g.Verification = generation.Verify(g)
	g.Deployment = generation.Deploy(g)

	if s.store != nil {
		if err := s.store.Save(ctx, g); err != nil {
			s.log.Warn().Err(err).Str("id", g.ID).Msg("Failed to save generation to history")
		}
	}

	gm.Success = true
	gm.ResponseLength = len(g.Configuration)
	gm.PromptTokens = usage.PromptTokens
	gm.CompletionTokens = usage.CompletionTokens
	s.metrics.RecordGeneration(gm)
	span.SetAttributes(attribute.String("generation.id", g.ID), attribute.Int("tokens.total", usage.TotalTokens))

	s.log.Info().
		Str("id", g.ID).
		Str("policy", pol.Name).
		Str("model", g.Model).
		Dur("duration", g.Duration).
		Int("tokens", usage.TotalTokens).
		Msg("Configuration generated")
	return g, nil
}

// History returns up to limit past generations, newest first.
func (s *Service) History(ctx context.Context, limit int) ([]*generation.Generation, error) {
	if s.store == nil {
		return []*generation.Generation{}, nil
	}
	return s.store.List(ctx, limit)
}

// Generation returns one past generation.
func (s *Service) Generation(ctx context.Context, id string) (*generation.Generation, error) {
	if s.store == nil {
		return nil, errors.New(errors.CodeNotFound, "assistant", "generation history is disabled", nil)
	}
	return s.store.Get(ctx, id)
}

// DeleteGeneration removes one past generation.
func (s *Service) DeleteGeneration(ctx context.Context, id string) error {
	if s.store == nil {
		return errors.New(errors.CodeNotFound, "assistant", "generation history is disabled", nil)
	}
	return s.store.Delete(ctx, id)
}
