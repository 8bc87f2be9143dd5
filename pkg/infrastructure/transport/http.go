package transport

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/netassist/netconfig-assist/pkg/api"
	"github.com/netassist/netconfig-assist/pkg/domain/errors"
)

// HTTPTransport serves the UI and JSON API.
type HTTPTransport struct {
	assistant   api.Assistant
	logger      zerolog.Logger
	address     string
	port        int
	corsOrigins []string
	version     string
	timeout     time.Duration
	startTime   time.Time
	router      chi.Router
	handler     http.Handler
	server      *http.Server
	ui          *uiRenderer
}

var _ api.Server = (*HTTPTransport)(nil)

// NewHTTPTransport creates a new HTTP transport
func NewHTTPTransport(config HTTPTransportConfig) (*HTTPTransport, error) {
	if config.Assistant == nil {
		return nil, errors.New(errors.CodeConfigurationInvalid, "http_transport", "assistant is required", nil)
	}
	if config.Port == 0 {
		config.Port = 8501
	}

	ui, err := newUIRenderer()
	if err != nil {
		return nil, errors.New(errors.CodeInternalError, "http_transport", "failed to parse UI templates", err)
	}

	t := &HTTPTransport{
		assistant:   config.Assistant,
		logger:      config.Logger.With().Str("component", "http_transport").Logger(),
		address:     config.Address,
		port:        config.Port,
		corsOrigins: config.CORSOrigins,
		version:     config.Version,
		timeout:     RequestDeadline(config.RequestTimeout),
		startTime:   time.Now(),
		ui:          ui,
	}

	t.setupRouter(config)
	t.handler = t.router
	if config.Tracing {
		t.handler = otelhttp.NewHandler(t.router, "netconfig-assist",
			otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
				return r.Method + " " + r.URL.Path
			}),
		)
	}
	return t, nil
}

// setupRouter initializes HTTP router and middleware
func (t *HTTPTransport) setupRouter(config HTTPTransportConfig) {
	t.router = chi.NewRouter()

	t.setupMiddlewareChain()

	t.router.Get("/", t.handleIndex)
	t.router.Post("/", t.handleSubmit)
	t.router.Get("/healthz", t.handleHealth)
	if config.Gatherer != nil {
		t.router.Handle("/metrics", promhttp.HandlerFor(config.Gatherer, promhttp.HandlerOpts{}))
	}

	t.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/policies", t.handleListPolicies)
		r.Get("/policies/{name}", t.handleGetPolicy)
		r.Post("/generate", t.handleGenerate)
		r.Get("/generations", t.handleListGenerations)
		r.Get("/generations/{id}", t.handleGetGeneration)
		r.Delete("/generations/{id}", t.handleDeleteGeneration)
	})
}

// setupMiddlewareChain configures middleware chain
func (t *HTTPTransport) setupMiddlewareChain() {
	t.router.Use(middleware.RequestID)
	t.router.Use(middleware.RealIP)
	t.router.Use(middleware.Recoverer)

	t.router.Use(t.setupCORS())

	t.router.Use(t.loggingMiddleware)

	t.router.Use(middleware.Timeout(t.timeout))
}

// setupCORS creates CORS middleware
func (t *HTTPTransport) setupCORS() func(http.Handler) http.Handler {
	corsOptions := cors.Options{
		AllowedOrigins:   t.corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           int(CORSMaxAge.Seconds()),
	}

	if len(t.corsOrigins) == 0 || (len(t.corsOrigins) == 1 && t.corsOrigins[0] == "*") {
		corsOptions.AllowedOrigins = []string{"*"}
		corsOptions.AllowCredentials = false
	}

	return cors.Handler(corsOptions)
}

func (t *HTTPTransport) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		event := t.logger.Info()
		if status >= http.StatusInternalServerError {
			event = t.logger.Warn()
		}
		event.
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(start)).
			Msg("HTTP request")
	})
}

// Addr returns the listen address.
func (t *HTTPTransport) Addr() string {
	return net.JoinHostPort(t.address, strconv.Itoa(t.port))
}

// Timeout returns the per-request deadline applied by the router and server.
func (t *HTTPTransport) Timeout() time.Duration {
	return t.timeout
}

// Handler returns the fully wrapped HTTP handler.
func (t *HTTPTransport) Handler() http.Handler {
	return t.handler
}

// Serve starts the HTTP server and blocks until ctx is cancelled or the
// listener fails.
func (t *HTTPTransport) Serve(ctx context.Context) error {
	t.server = &http.Server{
		Addr:         t.Addr(),
		Handler:      t.handler,
		ReadTimeout:  t.timeout,
		WriteTimeout: t.timeout,
		IdleTimeout:  HTTPIdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		t.logger.Info().Str("address", t.server.Addr).Msg("Starting HTTP transport")
		if err := t.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- errors.New(errors.CodeNetworkError, "http_transport",
				fmt.Sprintf("failed to start HTTP server on %s", t.server.Addr), err)
		}
	}()

	select {
	case <-ctx.Done():
		return t.Close()
	case err := <-errCh:
		return err
	}
}

// Close gracefully shuts down the HTTP server
func (t *HTTPTransport) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	return t.Stop(ctx)
}

// Start starts the HTTP transport
func (t *HTTPTransport) Start(ctx context.Context) error {
	return t.Serve(ctx)
}

// Stop gracefully shuts down the HTTP transport
func (t *HTTPTransport) Stop(ctx context.Context) error {
	if t.server == nil {
		return nil
	}

	t.logger.Info().Msg("Stopping HTTP transport")
	return t.server.Shutdown(ctx)
}
