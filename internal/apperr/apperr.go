package apperr

import (
	"errors"
	"fmt"
)

// Kind categorizes a failure so the CLI can choose an exit code.
type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidArguments
	KindProviderConfig
	KindNetwork
	KindProviderProtocol
	KindGitEntity
)

func (k Kind) String() string {
	switch k {
	case KindInvalidArguments:
		return "invalid arguments"
	case KindProviderConfig:
		return "provider config"
	case KindNetwork:
		return "network"
	case KindProviderProtocol:
		return "provider protocol"
	case KindGitEntity:
		return "git"
	default:
		return "unknown"
	}
}

// Error is a categorized failure. StatusCode is set only for errors that
// came back from an HTTP response.
type Error struct {
	Kind       Kind
	Message    string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// New creates an Error of the given kind.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error of the given kind around cause.
func Wrap(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: cause}
}

// InvalidArguments reports contradictory or insufficient command input.
func InvalidArguments(format string, args ...any) *Error {
	return New(KindInvalidArguments, format, args...)
}

// ProviderConfig reports a bad provider selection, credential or model.
func ProviderConfig(format string, args ...any) *Error {
	return New(KindProviderConfig, format, args...)
}

// GitEntity reports a commit or diff that could not be resolved.
func GitEntity(format string, args ...any) *Error {
	return New(KindGitEntity, format, args...)
}

// Protocol reports a backend failure. status is 0 when the failure was
// found inside the stream rather than in the HTTP status line.
func Protocol(status int, format string, args ...any) *Error {
	e := New(KindProviderProtocol, format, args...)
	e.StatusCode = status
	return e
}

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsKind reports whether err carries the given Kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// StatusCode returns the HTTP status attached to err, or 0.
func StatusCode(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.StatusCode
	}
	return 0
}
