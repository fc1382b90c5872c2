package providers

import (
	"encoding/json"

	"github.com/dshills/lumen/internal/apperr"
	"github.com/dshills/lumen/internal/prompt"
)

type ollamaRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

func newOllamaRequest(conv prompt.Conversation, model string) ollamaRequest {
	return ollamaRequest{
		Model:    model,
		Messages: newChatMessages(conv),
		Stream:   true,
	}
}

// ollamaChunk is one line of Ollama's newline-delimited JSON stream.
type ollamaChunk struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
	Done  bool   `json:"done"`
	Error string `json:"error"`
}

func parseOllamaLine(line []byte) (text string, done bool, err error) {
	var chunk ollamaChunk
	if err := json.Unmarshal(line, &chunk); err != nil {
		return "", false, apperr.Protocol(0, "ollama: malformed stream line %q", truncate(line))
	}
	if chunk.Error != "" {
		return "", false, apperr.Protocol(0, "ollama API error: %s", chunk.Error)
	}
	return chunk.Message.Content, chunk.Done, nil
}
