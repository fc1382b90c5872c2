package providers

import (
	"encoding/json"
	"strings"

	"github.com/dshills/lumen/internal/apperr"
	"github.com/dshills/lumen/internal/prompt"
)

const (
	claudeAPIVersion = "2023-06-01"
	claudeMaxTokens  = 4096
)

// claudeRequest is the Anthropic messages schema. System messages move to
// the top-level system field; the rest keep their order.
type claudeRequest struct {
	Model     string        `json:"model"`
	MaxTokens int           `json:"max_tokens"`
	System    string        `json:"system,omitempty"`
	Messages  []chatMessage `json:"messages"`
	Stream    bool          `json:"stream"`
}

func newClaudeRequest(conv prompt.Conversation, model string) claudeRequest {
	var system []string
	var msgs []chatMessage
	for _, m := range conv {
		if m.Role == prompt.RoleSystem {
			system = append(system, m.Text)
			continue
		}
		msgs = append(msgs, chatMessage{Role: string(m.Role), Content: m.Text})
	}
	return claudeRequest{
		Model:     model,
		MaxTokens: claudeMaxTokens,
		System:    strings.Join(system, "\n\n"),
		Messages:  msgs,
		Stream:    true,
	}
}

type claudeEvent struct {
	Type  string `json:"type"`
	Delta struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"delta"`
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// parseClaudeData decodes one SSE data payload. The event type is repeated
// inside the payload, so `event:` lines are not needed.
func parseClaudeData(data []byte) (text string, done bool, err error) {
	var ev claudeEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return "", false, apperr.Protocol(0, "claude: malformed stream event %q", truncate(data))
	}
	switch ev.Type {
	case "content_block_delta":
		if ev.Delta.Type == "text_delta" || ev.Delta.Type == "" {
			return ev.Delta.Text, false, nil
		}
		return "", false, nil
	case "message_stop":
		return "", true, nil
	case "error":
		return "", false, apperr.Protocol(0, "claude API error: %s: %s", ev.Error.Type, ev.Error.Message)
	default:
		// message_start, content_block_start/stop, message_delta, ping
		return "", false, nil
	}
}
