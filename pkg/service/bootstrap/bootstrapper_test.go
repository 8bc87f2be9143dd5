package bootstrap

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netassist/netconfig-assist/pkg/ai/aitest"
	"github.com/netassist/netconfig-assist/pkg/domain/policy"
	"github.com/netassist/netconfig-assist/pkg/service/assistant"
)

func newTestBootstrapper(t *testing.T) *Bootstrapper {
	t.Helper()
	svc, err := assistant.New(assistant.Options{
		Catalog: policy.Builtin(),
		LLM:     &aitest.FakeClient{Response: "ok"},
		Logger:  zerolog.Nop(),
	})
	require.NoError(t, err)
	return NewBootstrapper(zerolog.Nop(), "test", svc)
}

func TestRegisterComponents_NilServer(t *testing.T) {
	b := newTestBootstrapper(t)
	assert.Error(t, b.RegisterComponents(nil))
}

func TestRegisterComponents_ListsTools(t *testing.T) {
	b := newTestBootstrapper(t)
	s := b.CreateMCPServer()
	require.NotNil(t, s)
	require.NoError(t, b.RegisterComponents(s))

	ctx := context.Background()
	s.HandleMessage(ctx, json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2024-11-05","capabilities":{},"clientInfo":{"name":"test","version":"0"}}}`))
	resp := s.HandleMessage(ctx, json.RawMessage(`{"jsonrpc":"2.0","id":2,"method":"tools/list","params":{}}`))

	data, err := json.Marshal(resp)
	require.NoError(t, err)
	for _, name := range []string{"list_policies", "get_policy", "generate_configuration"} {
		assert.Contains(t, string(data), `"name":"`+name+`"`)
	}
}
