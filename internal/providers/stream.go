package providers

import (
	"bytes"
	"encoding/json"
	"strings"
	"unicode/utf8"

	"github.com/dshills/lumen/internal/apperr"
)

// Decoder turns the raw bytes of a streaming response into fragments. It
// is fed arbitrary chunks; a line split across chunks is held until its
// newline arrives (or until Close).
type Decoder struct {
	variant    Variant
	buf        []byte
	done       bool
	sawPayload bool
}

// NewDecoder returns a decoder for the stream format of v.
func NewDecoder(v Variant) *Decoder {
	return &Decoder{variant: v}
}

// Feed consumes one chunk and returns the fragments completed by it, in
// order. On error the fragments decoded before the failing line are still
// returned.
func (d *Decoder) Feed(chunk []byte) ([]Fragment, error) {
	d.buf = append(d.buf, chunk...)

	var out []Fragment
	for {
		i := bytes.IndexByte(d.buf, '\n')
		if i < 0 {
			break
		}
		line := d.buf[:i]
		d.buf = d.buf[i+1:]

		frag, err := d.decodeLine(line)
		if err != nil {
			return out, err
		}
		if frag.Text != "" {
			out = append(out, frag)
		}
	}
	if len(d.buf) == 0 {
		d.buf = nil
	}
	return out, nil
}

// Close flushes a trailing line without a newline and ends the stream. The
// final fragment is always the Done marker. A backend that sent data but no
// end-of-stream signal (where its protocol has one) is a protocol error.
func (d *Decoder) Close() ([]Fragment, error) {
	var out []Fragment
	if len(d.buf) > 0 {
		line := d.buf
		d.buf = nil
		frag, err := d.decodeLine(line)
		if err != nil {
			return nil, err
		}
		if frag.Text != "" {
			out = append(out, frag)
		}
	}
	if !d.done && d.sawPayload && d.variant.hasEndSignal() {
		return out, apperr.Protocol(0, "%s: stream ended without an end-of-stream signal", d.variant)
	}
	return append(out, Fragment{Done: true}), nil
}

// Done reports whether the end-of-stream signal has been seen.
func (d *Decoder) Done() bool { return d.done }

// hasEndSignal reports whether the stream format carries an explicit
// terminator. Phind streams end when the connection closes.
func (v Variant) hasEndSignal() bool {
	return v != Phind
}

func (d *Decoder) decodeLine(raw []byte) (Fragment, error) {
	line := bytes.TrimRight(raw, "\r")
	if len(bytes.TrimSpace(line)) == 0 {
		return Fragment{}, nil
	}

	payload, ok, err := d.payload(line)
	if err != nil || !ok {
		return Fragment{}, err
	}
	if d.done {
		return Fragment{}, apperr.Protocol(0, "%s: data received after end of stream: %q", d.variant, truncate(payload))
	}
	d.sawPayload = true

	var (
		text string
		done bool
	)
	switch d.variant {
	case OpenAI, Groq, Phind:
		text, done, err = parseChatData(d.variant, payload)
	case Claude:
		text, done, err = parseClaudeData(payload)
	case Ollama:
		text, done, err = parseOllamaLine(payload)
	default:
		err = apperr.ProviderConfig("unsupported provider variant %d", int(d.variant))
	}
	if err != nil {
		return Fragment{}, err
	}
	if done {
		d.done = true
	}
	return Fragment{Text: text}, nil
}

// payload extracts the data carried by a line. For SSE variants only
// `data:` lines carry data; comments and other fields are skipped. A bare
// JSON line in an SSE stream is treated as an error body.
func (d *Decoder) payload(line []byte) ([]byte, bool, error) {
	if d.variant == Ollama {
		return bytes.TrimSpace(line), true, nil
	}

	switch {
	case bytes.HasPrefix(line, []byte("data:")):
		return bytes.TrimSpace(line[len("data:"):]), true, nil
	case line[0] == ':':
		return nil, false, nil
	case isSSEField(line):
		return nil, false, nil
	case line[0] == '{':
		return nil, false, embeddedError(d.variant, line)
	default:
		return nil, false, apperr.Protocol(0, "%s: unexpected stream line %q", d.variant, truncate(line))
	}
}

func isSSEField(line []byte) bool {
	for _, f := range []string{"event:", "id:", "retry:"} {
		if bytes.HasPrefix(line, []byte(f)) {
			return true
		}
	}
	return false
}

// embeddedError reports a JSON error object found in place of stream data.
func embeddedError(v Variant, body []byte) error {
	if msg := errorMessage(body); msg != "" {
		return apperr.Protocol(0, "%s API error: %s", v, msg)
	}
	return apperr.Protocol(0, "%s: unexpected stream line %q", v, truncate(body))
}

// errorMessage pulls the human-readable message out of the error shapes
// the supported backends use. It returns "" if body is not one of them.
func errorMessage(body []byte) string {
	var nested struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &nested); err == nil && nested.Error.Message != "" {
		return nested.Error.Message
	}
	var flat struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &flat); err == nil && flat.Error != "" {
		return flat.Error
	}
	return ""
}

func truncate(b []byte) string {
	const limit = 200
	s := strings.TrimSpace(string(b))
	if len(s) > limit {
		cut := limit
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		return s[:cut] + "..."
	}
	return s
}
