package providers

import (
	"context"
	"errors"
	"io"
	"iter"
	"log/slog"
	"net/http"

	"github.com/dshills/lumen/internal/apperr"
	"github.com/dshills/lumen/internal/prompt"
)

const (
	readBufferSize = 4096
	maxErrorBody   = 1 << 20
)

// Client sends conversations to one configured backend.
type Client struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
}

// NewClient binds cfg to httpClient. The same *http.Client should be shared
// for the life of the process so connections are pooled. A nil logger
// discards diagnostics.
func NewClient(cfg Config, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Client{cfg: cfg, http: httpClient, logger: logger}
}

// Config returns the validated provider configuration.
func (c *Client) Config() Config { return c.cfg }

// Name returns the backend name.
func (c *Client) Name() string { return c.cfg.Variant.String() }

// Stream sends conv and yields text fragments as they arrive, ending with
// a Done fragment. Iteration stops at the first error, which is yielded
// once. Each iteration reissues the request.
func (c *Client) Stream(ctx context.Context, conv prompt.Conversation) iter.Seq2[Fragment, error] {
	return func(yield func(Fragment, error) bool) {
		spec, err := BuildRequest(conv, c.cfg)
		if err != nil {
			yield(Fragment{}, err)
			return
		}
		req, err := spec.HTTPRequest(ctx)
		if err != nil {
			yield(Fragment{}, err)
			return
		}

		c.logger.Debug("sending request",
			"provider", c.cfg.Variant.String(),
			"model", c.cfg.Model,
			"endpoint", spec.URL,
			"messages", len(conv),
			"bytes", len(spec.Body))

		resp, err := c.http.Do(req)
		if err != nil {
			yield(Fragment{}, apperr.Wrap(apperr.KindNetwork, err, "%s: sending request", c.cfg.Variant))
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
			c.logger.Debug("request failed", "provider", c.cfg.Variant.String(), "status", resp.StatusCode)
			yield(Fragment{}, ExtractError(c.cfg.Variant, resp.StatusCode, body))
			return
		}

		dec := NewDecoder(c.cfg.Variant)
		buf := make([]byte, readBufferSize)
		count := 0
		emit := func(frags []Fragment) bool {
			for _, f := range frags {
				if !f.Done {
					count++
				}
				if !yield(f, nil) {
					return false
				}
			}
			return true
		}

		for {
			n, rerr := resp.Body.Read(buf)
			if n > 0 {
				frags, err := dec.Feed(buf[:n])
				if !emit(frags) {
					return
				}
				if err != nil {
					yield(Fragment{}, err)
					return
				}
			}
			if errors.Is(rerr, io.EOF) {
				break
			}
			if rerr != nil {
				yield(Fragment{}, apperr.Wrap(apperr.KindNetwork, rerr, "%s: reading response", c.cfg.Variant))
				return
			}
		}

		frags, err := dec.Close()
		if err != nil {
			if emit(frags) {
				yield(Fragment{}, err)
			}
			return
		}
		c.logger.Debug("stream complete", "provider", c.cfg.Variant.String(), "fragments", count)
		emit(frags)
	}
}
