package generation

import (
	"strings"
	"testing"

	"github.com/netassist/netconfig-assist/pkg/domain/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		prompt  string
		wantErr bool
	}{
		{name: "empty", prompt: "", wantErr: true},
		{name: "whitespace", prompt: " \n\t ", wantErr: true},
		{name: "ok", prompt: "Configure VLAN 10", wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Request{Prompt: tt.prompt}.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, errors.CodeMissingParameter, errors.CodeOf(err))
			assert.Equal(t, EmptyRequestMessage, errors.MessageOf(err))
		})
	}
}

func TestBuildPrompt(t *testing.T) {
	p := BuildPrompt("\n  Context: deny all inbound.\n", "  Configure VLAN 10  ")

	policyIdx := strings.Index(p, "Network Policy:\nContext: deny all inbound.\n")
	requestIdx := strings.Index(p, "User Request:\nConfigure VLAN 10\n")
	outputIdx := strings.Index(p, "Generated Configuration:")

	require.NotEqual(t, -1, policyIdx)
	require.NotEqual(t, -1, requestIdx)
	require.NotEqual(t, -1, outputIdx)
	assert.Less(t, policyIdx, requestIdx)
	assert.Less(t, requestIdx, outputIdx)
	assert.True(t, strings.HasPrefix(p, "\nYou are a very very expert network engineer assistant."))
	assert.Contains(t, p, "Provide the configuration in a clean and detail, human-readable text format,\nwithout any extra conversation.")
}

func TestNormalizeConfiguration(t *testing.T) {
	assert.Equal(t, NoConfigurationText, NormalizeConfiguration(""))
	assert.Equal(t, NoConfigurationText, NormalizeConfiguration("  \n"))
	assert.Equal(t, "vlan 10", NormalizeConfiguration("vlan 10"))
}

func TestTokenUsage_Add(t *testing.T) {
	u := TokenUsage{PromptTokens: 1, CompletionTokens: 2, TotalTokens: 3}
	u.Add(TokenUsage{PromptTokens: 10, CompletionTokens: 20, TotalTokens: 30})
	assert.Equal(t, TokenUsage{PromptTokens: 11, CompletionTokens: 22, TotalTokens: 33}, u)
}

func TestNotices(t *testing.T) {
	g := &Generation{Configuration: "interface vlan10"}
	assert.Equal(t, Notice{Status: StatusVerified, Message: VerifiedMessage}, Verify(g))
	assert.Equal(t, Notice{Status: StatusReady, Message: DeployMessage}, Deploy(g))
}
