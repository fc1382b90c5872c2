package providers

import (
	"slices"
	"strings"

	"github.com/dshills/lumen/internal/apperr"
)

// Variant is one of the supported backends.
type Variant int

const (
	OpenAI Variant = iota
	Phind
	Groq
	Claude
	Ollama
)

// Variants lists every supported backend in display order.
var Variants = []Variant{OpenAI, Phind, Groq, Claude, Ollama}

func (v Variant) String() string {
	switch v {
	case OpenAI:
		return "openai"
	case Phind:
		return "phind"
	case Groq:
		return "groq"
	case Claude:
		return "claude"
	case Ollama:
		return "ollama"
	default:
		return "unknown"
	}
}

// ParseVariant maps a provider name to its Variant. Matching is
// case-insensitive; "anthropic" is accepted as an alias for claude.
func ParseVariant(name string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "openai":
		return OpenAI, nil
	case "phind":
		return Phind, nil
	case "groq":
		return Groq, nil
	case "claude", "anthropic":
		return Claude, nil
	case "ollama":
		return Ollama, nil
	default:
		return 0, apperr.ProviderConfig("unknown provider %q (expected one of openai, phind, groq, claude, ollama)", name)
	}
}

// RequiresAPIKey reports whether the backend rejects unauthenticated calls.
func (v Variant) RequiresAPIKey() bool {
	switch v {
	case OpenAI, Groq, Claude:
		return true
	default:
		return false
	}
}

// DefaultModel is used when no model override is configured.
func (v Variant) DefaultModel() string {
	switch v {
	case OpenAI:
		return "gpt-4o-mini"
	case Phind:
		return "Phind-70B"
	case Groq:
		return "mixtral-8x7b-32768"
	case Claude:
		return "claude-3-5-sonnet-20240620"
	case Ollama:
		return "llama3"
	default:
		return ""
	}
}

// Endpoint is the streaming chat endpoint for the backend.
func (v Variant) Endpoint() string {
	switch v {
	case OpenAI:
		return "https://api.openai.com/v1/chat/completions"
	case Phind:
		return "https://https.extension.phind.com/agent/"
	case Groq:
		return "https://api.groq.com/openai/v1/chat/completions"
	case Claude:
		return "https://api.anthropic.com/v1/messages"
	case Ollama:
		return "http://localhost:11434/api/chat"
	default:
		return ""
	}
}

// KnownModels lists models documented for the backend, default first.
func (v Variant) KnownModels() []string {
	switch v {
	case OpenAI:
		return []string{"gpt-4o-mini", "gpt-4o", "gpt-4-turbo", "gpt-3.5-turbo"}
	case Phind:
		return []string{"Phind-70B", "Phind-CodeLlama-34B", "Phind-Instant"}
	case Groq:
		return []string{"mixtral-8x7b-32768", "llama3-70b-8192", "llama3-8b-8192", "gemma-7b-it"}
	case Claude:
		return []string{"claude-3-5-sonnet-20240620", "claude-3-opus-20240229", "claude-3-haiku-20240307"}
	case Ollama:
		return []string{"llama3", "llama3.1", "codellama", "qwen2.5-coder", "mistral"}
	default:
		return nil
	}
}

// acceptsModel reports whether a model override is allowed. Only Phind
// restricts overrides to its documented list.
func (v Variant) acceptsModel(model string) bool {
	if v == Phind {
		return slices.Contains(v.KnownModels(), model)
	}
	return true
}

// Config is the validated provider selection. Build it with NewConfig.
type Config struct {
	Variant  Variant
	APIKey   string
	Model    string
	Endpoint string
}

// NewConfig validates a provider selection. It fails when a variant that
// needs a key has none, or when the model override is not recognized.
func NewConfig(variant Variant, apiKey, model string) (Config, error) {
	if variant.Endpoint() == "" {
		return Config{}, apperr.ProviderConfig("unsupported provider variant %d", int(variant))
	}
	apiKey = strings.TrimSpace(apiKey)
	if variant.RequiresAPIKey() && apiKey == "" {
		return Config{}, apperr.ProviderConfig("%s requires an API key (set --api-key or LUMEN_API_KEY)", variant)
	}

	model = strings.TrimSpace(model)
	if model == "" {
		model = variant.DefaultModel()
	} else if !variant.acceptsModel(model) {
		return Config{}, apperr.ProviderConfig("unrecognized model %q for %s (known: %s)",
			model, variant, strings.Join(variant.KnownModels(), ", "))
	}

	return Config{
		Variant:  variant,
		APIKey:   apiKey,
		Model:    model,
		Endpoint: variant.Endpoint(),
	}, nil
}

// Fragment is one unit of streamed text. Done marks the end of the stream
// and carries no text.
type Fragment struct {
	Text string
	Done bool
}
