package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dshills/lumen/internal/apperr"
	"github.com/dshills/lumen/internal/prompt"
)

// RequestSpec is a backend-specific HTTP request, ready to send.
type RequestSpec struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

// HTTPRequest converts the spec into an *http.Request bound to ctx.
func (r RequestSpec) HTTPRequest(ctx context.Context) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, r.Method, r.URL, bytes.NewReader(r.Body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	for k, vs := range r.Header {
		req.Header[k] = append([]string(nil), vs...)
	}
	return req, nil
}

// BuildRequest renders conv into the request schema of cfg.Variant,
// including its authentication headers. Message order and text are kept
// as given.
func BuildRequest(conv prompt.Conversation, cfg Config) (RequestSpec, error) {
	if len(conv) == 0 {
		return RequestSpec{}, apperr.InvalidArguments("empty conversation")
	}

	var (
		body   any
		header = http.Header{}
	)
	header.Set("Content-Type", "application/json")

	switch cfg.Variant {
	case OpenAI, Groq:
		body = newChatRequest(conv, cfg.Model)
		header.Set("Authorization", "Bearer "+cfg.APIKey)
		header.Set("Accept", "text/event-stream")
	case Claude:
		body = newClaudeRequest(conv, cfg.Model)
		header.Set("x-api-key", cfg.APIKey)
		header.Set("anthropic-version", claudeAPIVersion)
		header.Set("Accept", "text/event-stream")
	case Phind:
		body = newPhindRequest(conv, cfg.Model)
		header.Set("User-Agent", "")
		header.Set("Accept", "*/*")
		header.Set("Accept-Encoding", "identity")
	case Ollama:
		body = newOllamaRequest(conv, cfg.Model)
		if cfg.APIKey != "" {
			header.Set("Authorization", "Bearer "+cfg.APIKey)
		}
	default:
		return RequestSpec{}, apperr.ProviderConfig("unsupported provider variant %d", int(cfg.Variant))
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return RequestSpec{}, fmt.Errorf("marshaling request: %w", err)
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = cfg.Variant.Endpoint()
	}
	return RequestSpec{
		Method: http.MethodPost,
		URL:    endpoint,
		Header: header,
		Body:   payload,
	}, nil
}
