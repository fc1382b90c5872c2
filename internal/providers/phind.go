package providers

import (
	"github.com/dshills/lumen/internal/prompt"
)

// phindRequest mirrors the payload of the Phind editor extension.
type phindRequest struct {
	AdditionalExtensionContext string        `json:"additional_extension_context"`
	AllowMagicButtons          bool          `json:"allow_magic_buttons"`
	IsVSCodeExtension          bool          `json:"is_vscode_extension"`
	MessageHistory             []chatMessage `json:"message_history"`
	RequestedModel             string        `json:"requested_model"`
	UserInput                  string        `json:"user_input"`
}

func newPhindRequest(conv prompt.Conversation, model string) phindRequest {
	return phindRequest{
		AdditionalExtensionContext: "",
		AllowMagicButtons:          true,
		IsVSCodeExtension:          true,
		MessageHistory:             newChatMessages(conv),
		RequestedModel:             model,
		UserInput:                  conv.LastUser(),
	}
}
