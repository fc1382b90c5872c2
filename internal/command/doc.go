// Package command wires git retrieval, prompt construction and provider
// streaming into the three user-facing operations: explain, list and draft.
package command
