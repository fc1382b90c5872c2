package providers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/lumen/internal/apperr"
)

func TestParseVariant(t *testing.T) {
	tests := []struct {
		in   string
		want Variant
	}{
		{"openai", OpenAI},
		{"PHIND", Phind},
		{" groq ", Groq},
		{"claude", Claude},
		{"anthropic", Claude},
		{"ollama", Ollama},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseVariant(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseVariant("gemini")
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindProviderConfig))
}

func TestVariant_Exhaustive(t *testing.T) {
	for _, v := range Variants {
		assert.NotEqual(t, "unknown", v.String())
		assert.NotEmpty(t, v.Endpoint(), v.String())
		assert.NotEmpty(t, v.DefaultModel(), v.String())
		require.NotEmpty(t, v.KnownModels(), v.String())
		assert.Equal(t, v.DefaultModel(), v.KnownModels()[0], v.String())
	}
	assert.Equal(t, "unknown", Variant(42).String())
}

func TestNewConfig_KeyRequirement(t *testing.T) {
	_, err := NewConfig(Claude, "", "")
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindProviderConfig))

	for _, v := range []Variant{OpenAI, Groq} {
		_, err := NewConfig(v, "   ", "")
		assert.True(t, apperr.IsKind(err, apperr.KindProviderConfig), v.String())
	}

	cfg, err := NewConfig(Ollama, "", "")
	require.NoError(t, err)
	assert.Equal(t, Ollama, cfg.Variant)
	assert.Equal(t, "llama3", cfg.Model)
	assert.Equal(t, "http://localhost:11434/api/chat", cfg.Endpoint)

	cfg, err = NewConfig(Phind, "", "")
	require.NoError(t, err)
	assert.Equal(t, "Phind-70B", cfg.Model)
}

func TestNewConfig_ModelOverride(t *testing.T) {
	cfg, err := NewConfig(OpenAI, "sk-test", " gpt-4o ")
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", cfg.Model)
	assert.Equal(t, "sk-test", cfg.APIKey)

	cfg, err = NewConfig(Ollama, "", "some-local-model:7b")
	require.NoError(t, err)
	assert.Equal(t, "some-local-model:7b", cfg.Model)

	cfg, err = NewConfig(Phind, "", "Phind-Instant")
	require.NoError(t, err)
	assert.Equal(t, "Phind-Instant", cfg.Model)

	_, err = NewConfig(Phind, "", "gpt-4o")
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindProviderConfig))
	assert.Contains(t, err.Error(), "unrecognized model")
}

func TestNewConfig_UnknownVariant(t *testing.T) {
	_, err := NewConfig(Variant(42), "", "")
	assert.True(t, apperr.IsKind(err, apperr.KindProviderConfig))
}
