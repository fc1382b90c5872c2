// Package redact scrubs secrets out of a unified diff before it is sent to
// a backend.
//
// Detection is regex based and covers API keys, bearer tokens, JWTs,
// private key headers and provider-specific key formats. [Patch] also drops
// the body of any file section whose path matches a glob in the caller's
// path list, leaving only the diff header so the model still sees that
// the file changed.
package redact
