// Package prompt turns a git entity and a command intent into the
// conversation sent to a provider.
//
// Every conversation is a system message followed by a user message. The
// patch text is embedded verbatim and never truncated; if it is too large
// for the model the backend reports the error.
package prompt
