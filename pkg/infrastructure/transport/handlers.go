package transport

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/netassist/netconfig-assist/pkg/domain/errors"
	"github.com/netassist/netconfig-assist/pkg/domain/generation"
	"github.com/netassist/netconfig-assist/pkg/domain/policy"
)

func toPolicyResponse(p policy.Policy) PolicyResponse {
	return PolicyResponse{Name: p.Name, Context: p.Context, Details: p.Details(), Source: p.Source}
}

func (t *HTTPTransport) handleHealth(w http.ResponseWriter, _ *http.Request) {
	provider, model := t.assistant.Provider()
	t.sendJSON(w, http.StatusOK, HealthResponse{
		Status:   "ok",
		Version:  t.version,
		Provider: provider,
		Model:    model,
		Policies: len(t.assistant.Policies()),
		History:  t.assistant.HistoryEnabled(),
		Uptime:   time.Since(t.startTime).Round(time.Second).String(),
	})
}

func (t *HTTPTransport) handleListPolicies(w http.ResponseWriter, _ *http.Request) {
	policies := t.assistant.Policies()
	out := make([]PolicyResponse, 0, len(policies))
	for _, p := range policies {
		out = append(out, toPolicyResponse(p))
	}
	t.sendJSON(w, http.StatusOK, map[string]interface{}{
		"policies": out,
		"count":    len(out),
	})
}

// pathParam returns a decoded route parameter. chi routes on the raw path when
// it holds escapes such as %2F, leaving the parameter encoded.
func pathParam(r *http.Request, key string) (string, error) {
	v := chi.URLParam(r, key)
	if r.URL.RawPath == "" {
		return v, nil
	}
	v, err := url.PathUnescape(v)
	if err != nil {
		return "", errors.New(errors.CodeInvalidParameter, "http_transport", fmt.Sprintf("malformed %s in path", key), err)
	}
	return v, nil
}

func (t *HTTPTransport) handleGetPolicy(w http.ResponseWriter, r *http.Request) {
	name, err := pathParam(r, "name")
	if err != nil {
		t.sendError(w, err)
		return
	}
	p, err := t.assistant.Policy(name)
	if err != nil {
		t.sendError(w, err)
		return
	}
	t.sendJSON(w, http.StatusOK, toPolicyResponse(p))
}

func (t *HTTPTransport) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generation.Request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req); err != nil {
		t.sendError(w, errors.New(errors.CodeValidationFailed, "http_transport", "invalid JSON request body", err))
		return
	}

	g, err := t.assistant.Generate(r.Context(), req)
	if err != nil {
		t.sendError(w, err)
		return
	}
	t.sendJSON(w, http.StatusOK, g)
}

func (t *HTTPTransport) handleListGenerations(w http.ResponseWriter, r *http.Request) {
	limit := DefaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			t.sendError(w, errors.New(errors.CodeInvalidParameter, "http_transport", "limit must be a non-negative integer", err))
			return
		}
		limit = n
	}

	items, err := t.assistant.History(r.Context(), limit)
	if err != nil {
		t.sendError(w, err)
		return
	}
	t.sendJSON(w, http.StatusOK, map[string]interface{}{
		"generations": items,
		"count":       len(items),
	})
}

func (t *HTTPTransport) handleGetGeneration(w http.ResponseWriter, r *http.Request) {
	id, err := pathParam(r, "id")
	if err != nil {
		t.sendError(w, err)
		return
	}
	g, err := t.assistant.Generation(r.Context(), id)
	if err != nil {
		t.sendError(w, err)
		return
	}
	t.sendJSON(w, http.StatusOK, g)
}

func (t *HTTPTransport) handleDeleteGeneration(w http.ResponseWriter, r *http.Request) {
	id, err := pathParam(r, "id")
	if err != nil {
		t.sendError(w, err)
		return
	}
	if err := t.assistant.DeleteGeneration(r.Context(), id); err != nil {
		t.sendError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// StatusForError maps an error code to an HTTP status.
func StatusForError(err error) int {
	switch errors.CodeOf(err) {
	case errors.CodeMissingParameter, errors.CodeInvalidParameter, errors.CodeValidationFailed:
		return http.StatusBadRequest
	case errors.CodeNotFound:
		return http.StatusNotFound
	case errors.CodeAlreadyExists:
		return http.StatusConflict
	case errors.CodeConfigurationInvalid:
		return http.StatusServiceUnavailable
	case errors.CodeNetworkError, errors.CodeGenerationFailed:
		return http.StatusBadGateway
	case errors.CodeTimeoutError:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func (t *HTTPTransport) sendError(w http.ResponseWriter, err error) {
	status := StatusForError(err)
	if status >= http.StatusInternalServerError {
		t.logger.Error().Err(err).Int("status", status).Msg("Request failed")
	}
	t.sendJSON(w, status, ErrorResponse{
		Error: errors.MessageOf(err),
		Code:  string(errors.CodeOf(err)),
	})
}

func (t *HTTPTransport) sendJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.logger.Error().Err(err).Msg("Failed to encode response")
	}
}
