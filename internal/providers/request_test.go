package providers

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/lumen/internal/prompt"
)

var testConv = prompt.Conversation{
	{Role: prompt.RoleSystem, Text: "You explain diffs.\nBe brief."},
	{Role: prompt.RoleUser, Text: "Changes:\n```diff\n+foo \"quoted\" \\ back\n-bar\n```"},
}

func mustConfig(t *testing.T, v Variant, key string) Config {
	t.Helper()
	cfg, err := NewConfig(v, key, "")
	require.NoError(t, err)
	return cfg
}

func TestBuildRequest_ChatVariants(t *testing.T) {
	for _, v := range []Variant{OpenAI, Groq} {
		t.Run(v.String(), func(t *testing.T) {
			spec, err := BuildRequest(testConv, mustConfig(t, v, "sk-test"))
			require.NoError(t, err)

			assert.Equal(t, "POST", spec.Method)
			assert.Equal(t, v.Endpoint(), spec.URL)
			assert.Equal(t, "Bearer sk-test", spec.Header.Get("Authorization"))
			assert.Equal(t, "application/json", spec.Header.Get("Content-Type"))

			var body chatRequest
			require.NoError(t, json.Unmarshal(spec.Body, &body))
			assert.Equal(t, v.DefaultModel(), body.Model)
			assert.True(t, body.Stream)
			require.Len(t, body.Messages, 2)
			assert.Equal(t, chatMessage{Role: "system", Content: testConv[0].Text}, body.Messages[0])
			assert.Equal(t, chatMessage{Role: "user", Content: testConv[1].Text}, body.Messages[1])
		})
	}
}

func TestBuildRequest_Claude(t *testing.T) {
	spec, err := BuildRequest(testConv, mustConfig(t, Claude, "sk-ant-test"))
	require.NoError(t, err)

	assert.Equal(t, "https://api.anthropic.com/v1/messages", spec.URL)
	assert.Equal(t, "sk-ant-test", spec.Header.Get("x-api-key"))
	assert.Equal(t, claudeAPIVersion, spec.Header.Get("anthropic-version"))
	assert.Empty(t, spec.Header.Get("Authorization"))

	var body claudeRequest
	require.NoError(t, json.Unmarshal(spec.Body, &body))
	assert.Equal(t, "claude-3-5-sonnet-20240620", body.Model)
	assert.Equal(t, claudeMaxTokens, body.MaxTokens)
	assert.True(t, body.Stream)
	assert.Equal(t, testConv[0].Text, body.System)
	require.Len(t, body.Messages, 1)
	assert.Equal(t, chatMessage{Role: "user", Content: testConv[1].Text}, body.Messages[0])
}

func TestBuildRequest_ClaudeKeepsTurnOrder(t *testing.T) {
	conv := prompt.Conversation{
		{Role: prompt.RoleSystem, Text: "sys"},
		{Role: prompt.RoleUser, Text: "one"},
		{Role: prompt.RoleAssistant, Text: "two"},
		{Role: prompt.RoleUser, Text: "three"},
	}
	spec, err := BuildRequest(conv, mustConfig(t, Claude, "k"))
	require.NoError(t, err)

	var body claudeRequest
	require.NoError(t, json.Unmarshal(spec.Body, &body))
	require.Len(t, body.Messages, 3)
	assert.Equal(t, []string{"one", "two", "three"},
		[]string{body.Messages[0].Content, body.Messages[1].Content, body.Messages[2].Content})
	assert.Equal(t, "assistant", body.Messages[1].Role)
}

func TestBuildRequest_Phind(t *testing.T) {
	spec, err := BuildRequest(testConv, mustConfig(t, Phind, ""))
	require.NoError(t, err)

	assert.Equal(t, "https://https.extension.phind.com/agent/", spec.URL)
	assert.Empty(t, spec.Header.Get("Authorization"))
	assert.Equal(t, "identity", spec.Header.Get("Accept-Encoding"))

	var body phindRequest
	require.NoError(t, json.Unmarshal(spec.Body, &body))
	assert.Equal(t, "Phind-70B", body.RequestedModel)
	assert.True(t, body.IsVSCodeExtension)
	assert.Equal(t, testConv[1].Text, body.UserInput)
	require.Len(t, body.MessageHistory, 2)
	assert.Equal(t, "system", body.MessageHistory[0].Role)
	assert.Equal(t, testConv[0].Text, body.MessageHistory[0].Content)
	assert.Equal(t, testConv[1].Text, body.MessageHistory[1].Content)
}

func TestBuildRequest_Ollama(t *testing.T) {
	cfg, err := NewConfig(Ollama, "", "codellama")
	require.NoError(t, err)
	spec, err := BuildRequest(testConv, cfg)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:11434/api/chat", spec.URL)
	assert.Empty(t, spec.Header.Get("Authorization"))

	var body ollamaRequest
	require.NoError(t, json.Unmarshal(spec.Body, &body))
	assert.Equal(t, "codellama", body.Model)
	assert.True(t, body.Stream)
	require.Len(t, body.Messages, 2)
	assert.Equal(t, testConv[1].Text, body.Messages[1].Content)
}

func TestBuildRequest_OllamaOptionalKey(t *testing.T) {
	spec, err := BuildRequest(testConv, mustConfig(t, Ollama, "local-token"))
	require.NoError(t, err)
	assert.Equal(t, "Bearer local-token", spec.Header.Get("Authorization"))
}

func TestBuildRequest_EmptyConversation(t *testing.T) {
	_, err := BuildRequest(nil, mustConfig(t, Ollama, ""))
	assert.Error(t, err)
}

func TestRequestSpec_HTTPRequest(t *testing.T) {
	spec, err := BuildRequest(testConv, mustConfig(t, OpenAI, "sk-test"))
	require.NoError(t, err)

	req, err := spec.HTTPRequest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "POST", req.Method)
	assert.Equal(t, "api.openai.com", req.URL.Host)
	assert.Equal(t, "Bearer sk-test", req.Header.Get("Authorization"))
	assert.Equal(t, int64(len(spec.Body)), req.ContentLength)
}
