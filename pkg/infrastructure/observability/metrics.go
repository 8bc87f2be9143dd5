// Package observability provides Prometheus metrics and OpenTelemetry
// tracing for configuration generation.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics collects generation and LLM request metrics.
type Metrics struct {
	generationsTotal   *prometheus.CounterVec
	generationDuration *prometheus.HistogramVec
	tokensTotal        *prometheus.CounterVec
	promptLength       *prometheus.HistogramVec
	responseLength     *prometheus.HistogramVec
}

// GenerationMetrics describes one generation attempt.
type GenerationMetrics struct {
	Policy           string
	Provider         string
	Model            string
	Duration         time.Duration
	PromptLength     int
	ResponseLength   int
	PromptTokens     int
	CompletionTokens int
	Success          bool
	ErrorCode        string
}

// NewMetrics registers the collectors on reg. A nil reg yields collectors
// that are never exported, which is what tests and the CLI use.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		generationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "netconfig_generations_total",
			Help: "Total number of configuration generation requests",
		}, []string{"policy", "provider", "status", "code"}),

		generationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "netconfig_generation_duration_seconds",
			Help:    "Duration of configuration generations in seconds",
			Buckets: []float64{0.1, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0, 60.0},
		}, []string{"provider", "model", "status"}),

		tokensTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "netconfig_llm_tokens_total",
			Help: "Total number of LLM tokens processed",
		}, []string{"provider", "model", "type"}), // type: prompt, completion

		promptLength: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "netconfig_prompt_length_chars",
			Help:    "Length of LLM prompts in characters",
			Buckets: []float64{100, 500, 1000, 2000, 5000, 10000, 20000},
		}, []string{"provider"}),

		responseLength: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "netconfig_response_length_chars",
			Help:    "Length of generated configurations in characters",
			Buckets: []float64{100, 500, 1000, 2000, 5000, 10000, 20000},
		}, []string{"provider"}),
	}
}

// RecordGeneration records one generation attempt.
func (m *Metrics) RecordGeneration(gm GenerationMetrics) {
	if m == nil {
		return
	}
	status := "success"
	if !gm.Success {
		status = "error"
	}

	m.generationsTotal.WithLabelValues(gm.Policy, gm.Provider, status, gm.ErrorCode).Inc()
	m.generationDuration.WithLabelValues(gm.Provider, gm.Model, status).Observe(gm.Duration.Seconds())
	if gm.PromptLength > 0 {
		m.promptLength.WithLabelValues(gm.Provider).Observe(float64(gm.PromptLength))
	}
	if !gm.Success {
		return
	}
	m.responseLength.WithLabelValues(gm.Provider).Observe(float64(gm.ResponseLength))
	m.tokensTotal.WithLabelValues(gm.Provider, gm.Model, "prompt").Add(float64(gm.PromptTokens))
	m.tokensTotal.WithLabelValues(gm.Provider, gm.Model, "completion").Add(float64(gm.CompletionTokens))
}
