// Package transport serves the assistant over HTTP: a browser UI and a JSON API.
package transport

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/netassist/netconfig-assist/pkg/api"
)

const (
	// HTTPTimeout is the lower bound for a single request, including the LLM call.
	HTTPTimeout     = 90 * time.Second
	HTTPIdleTimeout = 120 * time.Second
	CORSMaxAge      = 5 * time.Minute
	ShutdownTimeout = 10 * time.Second

	// DefaultHistoryLimit is used when ?limit= is absent.
	DefaultHistoryLimit = 20
	maxRequestBytes     = 1 << 20
)

// httpTimeoutMargin keeps the HTTP deadline behind the assistant's own
// LLM timeout so the caller sees TIMEOUT_ERROR rather than a cut connection.
const httpTimeoutMargin = 30 * time.Second

// HTTPTransportConfig configures the HTTP transport.
type HTTPTransportConfig struct {
	Address     string
	Port        int
	CORSOrigins []string
	Assistant   api.Assistant
	Logger      zerolog.Logger
	// Gatherer serves /metrics when non-nil.
	Gatherer prometheus.Gatherer
	// Tracing wraps the router with otelhttp.
	Tracing bool
	Version string
	// RequestTimeout is the assistant's LLM timeout; HTTP deadlines are derived from it.
	RequestTimeout time.Duration
}

// ErrorResponse is the JSON body of every failed API call.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// PolicyResponse is one policy in API responses.
type PolicyResponse struct {
	Name    string `json:"name"`
	Context string `json:"context"`
	Details string `json:"details"`
	Source  string `json:"source"`
}

// HealthResponse is returned by /healthz.
type HealthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version,omitempty"`
	Provider string `json:"provider"`
	Model    string `json:"model"`
	Policies int    `json:"policies"`
	History  bool   `json:"history"`
	Uptime   string `json:"uptime"`
}

// RequestDeadline returns the per-request HTTP deadline for an LLM timeout.
func RequestDeadline(llmTimeout time.Duration) time.Duration {
	if d := llmTimeout + httpTimeoutMargin; d > HTTPTimeout {
		return d
	}
	return HTTPTimeout
}
