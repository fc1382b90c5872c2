package providers

import (
	"encoding/json"

	"github.com/dshills/lumen/internal/apperr"
	"github.com/dshills/lumen/internal/prompt"
)

// chatRequest is the OpenAI chat-completions schema, also served by Groq.
type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func newChatMessages(conv prompt.Conversation) []chatMessage {
	msgs := make([]chatMessage, 0, len(conv))
	for _, m := range conv {
		msgs = append(msgs, chatMessage{Role: string(m.Role), Content: m.Text})
	}
	return msgs
}

func newChatRequest(conv prompt.Conversation, model string) chatRequest {
	return chatRequest{
		Model:    model,
		Messages: newChatMessages(conv),
		Stream:   true,
	}
}

// chatChunk is one `data:` payload of an OpenAI-style stream. Phind uses the
// same delta shape.
type chatChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
		FinishReason *string `json:"finish_reason"`
	} `json:"choices"`
	Error *apiError `json:"error,omitempty"`
}

// apiError is the `{"error": {...}}` body shared by OpenAI, Groq and Phind.
type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// parseChatData decodes one SSE data payload of an OpenAI-compatible stream.
func parseChatData(v Variant, data []byte) (text string, done bool, err error) {
	if string(data) == "[DONE]" {
		return "", true, nil
	}
	var chunk chatChunk
	if err := json.Unmarshal(data, &chunk); err != nil {
		return "", false, apperr.Protocol(0, "%s: malformed stream chunk %q", v, truncate(data))
	}
	if chunk.Error != nil {
		return "", false, apperr.Protocol(0, "%s API error: %s", v, chunk.Error.Message)
	}
	for _, c := range chunk.Choices {
		text += c.Delta.Content
	}
	return text, false, nil
}
