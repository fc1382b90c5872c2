package providers

import (
	"strings"

	"github.com/dshills/lumen/internal/apperr"
)

// ExtractError builds the error for a non-2xx response. The backend's own
// message is used when the body has a recognizable error shape; otherwise
// the raw body is reported on one line, clipped.
func ExtractError(v Variant, status int, body []byte) error {
	msg := errorMessage(body)
	if msg == "" {
		msg = truncate([]byte(strings.Join(strings.Fields(string(body)), " ")))
	}
	if msg == "" {
		msg = "empty response body"
	}
	return apperr.Protocol(status, "%s API error: %s", v, msg)
}
