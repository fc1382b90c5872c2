// Package providers streams completions from the supported text-generation
// backends.
//
// Supported variants: OpenAI, Groq, Anthropic (Claude), Phind, and a local
// Ollama server. The set is closed: each operation ([BuildRequest],
// [Decoder.Feed], [ExtractError]) dispatches on [Variant] with a switch, so a
// new backend must be handled in every one of them.
//
// [Client.Stream] issues the request and yields text fragments lazily as the
// response body arrives. Lines split across reads are buffered by the
// [Decoder] and never emitted half-parsed. There is no retry and no client
// timeout; the caller's context is the only way to abort a request.
//
// Use [NewConfig] to validate a provider selection once at startup and
// [NewClient] to bind it to a shared *http.Client.
package providers
