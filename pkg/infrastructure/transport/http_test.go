package transport

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netassist/netconfig-assist/pkg/ai/aitest"
	"github.com/netassist/netconfig-assist/pkg/domain/errors"
	"github.com/netassist/netconfig-assist/pkg/domain/generation"
	"github.com/netassist/netconfig-assist/pkg/domain/policy"
	"github.com/netassist/netconfig-assist/pkg/infrastructure/observability"
	"github.com/netassist/netconfig-assist/pkg/infrastructure/persistence/history"
	"github.com/netassist/netconfig-assist/pkg/service/assistant"
)

type testEnv struct {
	llm    *aitest.FakeClient
	server *httptest.Server
}

func newTestEnv(t *testing.T, llm *aitest.FakeClient) *testEnv {
	t.Helper()
	return newTestEnvWithCatalog(t, llm, policy.Builtin())
}

func newTestEnvWithCatalog(t *testing.T, llm *aitest.FakeClient, catalog *policy.Catalog) *testEnv {
	t.Helper()

	store, err := history.NewBoltStore(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	reg := prometheus.NewRegistry()
	svc, err := assistant.New(assistant.Options{
		Catalog: catalog,
		LLM:     llm,
		Store:   store,
		Metrics: observability.NewMetrics(reg),
		Logger:  zerolog.Nop(),
	})
	require.NoError(t, err)

	tr, err := NewHTTPTransport(HTTPTransportConfig{
		Assistant: svc,
		Logger:    zerolog.Nop(),
		Gatherer:  reg,
		Version:   "test",
	})
	require.NoError(t, err)

	srv := httptest.NewServer(tr.Handler())
	t.Cleanup(srv.Close)
	return &testEnv{llm: llm, server: srv}
}

func (e *testEnv) postJSON(t *testing.T, path, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(e.server.URL+path, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func (e *testEnv) get(t *testing.T, path string) *http.Response {
	t.Helper()
	resp, err := http.Get(e.server.URL + path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(data)
}

func TestNewHTTPTransport_RequiresAssistant(t *testing.T) {
	_, err := NewHTTPTransport(HTTPTransportConfig{Logger: zerolog.Nop()})
	assert.Equal(t, errors.CodeConfigurationInvalid, errors.CodeOf(err))
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, &aitest.FakeClient{})

	resp := env.get(t, "/healthz")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var h HealthResponse
	decode(t, resp, &h)
	assert.Equal(t, "ok", h.Status)
	assert.Equal(t, "fake", h.Provider)
	assert.Equal(t, 3, h.Policies)
	assert.True(t, h.History)
}

func TestPolicies(t *testing.T) {
	env := newTestEnv(t, &aitest.FakeClient{})

	resp := env.get(t, "/api/v1/policies")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list struct {
		Policies []PolicyResponse `json:"policies"`
		Count    int              `json:"count"`
	}
	decode(t, resp, &list)
	require.Equal(t, 3, list.Count)
	assert.Equal(t, policy.StrictFirewall, list.Policies[0].Name)

	resp = env.get(t, "/api/v1/policies/"+url.PathEscape(policy.GuestNetwork))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var p PolicyResponse
	decode(t, resp, &p)
	assert.Equal(t, policy.GuestNetwork, p.Name)
	assert.Equal(t, policy.SourceBuiltin, p.Source)

	resp = env.get(t, "/api/v1/policies/Unknown")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	var e ErrorResponse
	decode(t, resp, &e)
	assert.Equal(t, string(errors.CodeNotFound), e.Code)
}

func TestGenerateAndHistory(t *testing.T) {
	env := newTestEnv(t, &aitest.FakeClient{Response: "vlan 10\n name SALES"})

	resp := env.postJSON(t, "/api/v1/generate", `{"policy":"Guest Network Policy","prompt":"Create VLAN 10"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var g generation.Generation
	decode(t, resp, &g)
	assert.Equal(t, "vlan 10\n name SALES", g.Configuration)
	assert.Equal(t, policy.GuestNetwork, g.PolicyName)
	assert.Equal(t, generation.VerifiedMessage, g.Verification.Message)

	resp = env.get(t, "/api/v1/generations?limit=5")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list struct {
		Generations []generation.Generation `json:"generations"`
		Count       int                     `json:"count"`
	}
	decode(t, resp, &list)
	require.Equal(t, 1, list.Count)
	assert.Equal(t, g.ID, list.Generations[0].ID)

	resp = env.get(t, "/api/v1/generations/"+g.ID)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	req, err := http.NewRequest(http.MethodDelete, env.server.URL+"/api/v1/generations/"+g.ID, nil)
	require.NoError(t, err)
	delResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	_ = delResp.Body.Close()
	assert.Equal(t, http.StatusNoContent, delResp.StatusCode)

	resp = env.get(t, "/api/v1/generations/"+g.ID)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGenerate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		llmErr error
		body   string
		status int
		code   errors.Code
	}{
		{name: "empty prompt", body: `{"prompt":"  "}`, status: http.StatusBadRequest, code: errors.CodeMissingParameter},
		{name: "bad json", body: `{"prompt":`, status: http.StatusBadRequest, code: errors.CodeValidationFailed},
		{name: "unknown policy", body: `{"policy":"Nope","prompt":"x"}`, status: http.StatusNotFound, code: errors.CodeNotFound},
		{
			name:   "upstream failure",
			llmErr: errors.New(errors.CodeNetworkError, "gemini", "503 Service Unavailable", nil),
			body:   `{"prompt":"x"}`,
			status: http.StatusBadGateway,
			code:   errors.CodeNetworkError,
		},
		{
			name:   "missing key",
			llmErr: errors.New(errors.CodeConfigurationInvalid, "gemini", "API Key is not configured.", nil),
			body:   `{"prompt":"x"}`,
			status: http.StatusServiceUnavailable,
			code:   errors.CodeConfigurationInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, &aitest.FakeClient{Response: "ok", Err: tt.llmErr})

			resp := env.postJSON(t, "/api/v1/generate", tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)
			var e ErrorResponse
			decode(t, resp, &e)
			assert.Equal(t, string(tt.code), e.Code)
			assert.NotEmpty(t, e.Error)
		})
	}
}

func TestListGenerations_InvalidLimit(t *testing.T) {
	env := newTestEnv(t, &aitest.FakeClient{})

	resp := env.get(t, "/api/v1/generations?limit=abc")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestStatusForError(t *testing.T) {
	assert.Equal(t, http.StatusGatewayTimeout, StatusForError(context.DeadlineExceeded))
	assert.Equal(t, http.StatusInternalServerError, StatusForError(assert.AnError))
	assert.Equal(t, http.StatusConflict, StatusForError(errors.New(errors.CodeAlreadyExists, "x", "dup", nil)))
}

func TestUI_Index(t *testing.T) {
	env := newTestEnv(t, &aitest.FakeClient{})

	resp := env.get(t, "/?policy="+url.QueryEscape(policy.DMZWebServer))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := readBody(t, resp)

	assert.Contains(t, body, PageTitle)
	assert.Contains(t, body, "1. Select Network Policy (Retrieval)")
	assert.Contains(t, body, "2. Describe Your Configuration Request (Generation)")
	assert.Contains(t, body, `<option value="DMZ Web Server Policy" selected>`)
	assert.Contains(t, body, "Policy Details:")
	assert.Contains(t, body, "initiate connections to internal databases on port 3306.")
	assert.Contains(t, body, "Choose a policy to act as the knowledge context for the AI:")
	assert.NotContains(t, body, "3. Generated Configuration")
}

func TestUI_Submit(t *testing.T) {
	env := newTestEnv(t, &aitest.FakeClient{Response: "ip access-list extended GUEST"})

	resp, err := http.PostForm(env.server.URL+"/", url.Values{
		"policy": {policy.GuestNetwork},
		"prompt": {"Isolate guests"},
	})
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := readBody(t, resp)

	assert.Contains(t, body, "3. Generated Configuration")
	assert.Contains(t, body, "ip access-list extended GUEST")
	assert.Contains(t, body, "4. Verification &amp; Deployment Simulation")
	assert.Contains(t, body, generation.VerifiedMessage)
	assert.Contains(t, body, generation.DeployMessage)
	assert.Contains(t, env.llm.Prompts()[0], "Isolate guests")
}

func TestUI_SubmitEmptyPrompt(t *testing.T) {
	env := newTestEnv(t, &aitest.FakeClient{Response: "unused"})

	resp, err := http.PostForm(env.server.URL+"/", url.Values{"prompt": {""}})
	require.NoError(t, err)
	defer resp.Body.Close()
	body := readBody(t, resp)

	assert.Contains(t, body, generation.EmptyRequestMessage)
	assert.NotContains(t, body, "3. Generated Configuration")
	assert.Empty(t, env.llm.Prompts())
}

func TestUI_SubmitError(t *testing.T) {
	env := newTestEnv(t, &aitest.FakeClient{Err: errors.New(errors.CodeNetworkError, "gemini", "boom", nil)})

	resp, err := http.PostForm(env.server.URL+"/", url.Values{"prompt": {"anything"}})
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Contains(t, readBody(t, resp), "An error occurred: boom")
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t, &aitest.FakeClient{Response: "ok"})
	env.postJSON(t, "/api/v1/generate", `{"prompt":"x"}`)

	resp := env.get(t, "/metrics")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "netconfig_generations_total")
}

func TestGetPolicy_NameWithSlash(t *testing.T) {
	catalog := policy.Builtin()
	require.NoError(t, catalog.Add(policy.Policy{
		Name:    "Branch/Office Policy",
		Context: "Branch offices reach the data center only over the IPsec tunnel.",
		Source:  "branch.yaml",
	}))
	env := newTestEnvWithCatalog(t, &aitest.FakeClient{}, catalog)

	resp := env.get(t, "/api/v1/policies/"+url.PathEscape("Branch/Office Policy"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var p PolicyResponse
	decode(t, resp, &p)
	assert.Equal(t, "Branch/Office Policy", p.Name)
	assert.Equal(t, "branch.yaml", p.Source)
}

func TestUI_SubmitUnknownPolicy(t *testing.T) {
	env := newTestEnv(t, &aitest.FakeClient{Response: "should not be generated"})

	resp, err := http.PostForm(env.server.URL+"/", url.Values{
		"policy": {"Removed Policy"},
		"prompt": {"x"},
	})
	require.NoError(t, err)
	defer resp.Body.Close()
	body := readBody(t, resp)

	assert.Contains(t, body, "An error occurred:")
	assert.Contains(t, body, "Removed Policy")
	assert.NotContains(t, body, "3. Generated Configuration")
	assert.Empty(t, env.llm.Prompts())
}

func TestRequestDeadline(t *testing.T) {
	tests := []struct {
		name string
		llm  time.Duration
		want time.Duration
	}{
		{name: "unset", llm: 0, want: HTTPTimeout},
		{name: "default llm timeout", llm: 60 * time.Second, want: HTTPTimeout},
		{name: "long llm timeout", llm: 5 * time.Minute, want: 5*time.Minute + httpTimeoutMargin},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RequestDeadline(tt.llm))
		})
	}
}

func TestNewHTTPTransport_TimeoutFollowsRequestTimeout(t *testing.T) {
	svc, err := assistant.New(assistant.Options{
		Catalog: policy.Builtin(),
		LLM:     &aitest.FakeClient{},
		Logger:  zerolog.Nop(),
	})
	require.NoError(t, err)

	tr, err := NewHTTPTransport(HTTPTransportConfig{
		Assistant:      svc,
		Logger:         zerolog.Nop(),
		RequestTimeout: 3 * time.Minute,
	})
	require.NoError(t, err)
	assert.Greater(t, tr.Timeout(), 3*time.Minute)
}
