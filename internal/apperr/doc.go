// Package apperr defines the error taxonomy shared by every lumen command.
//
// Each failure carries a [Kind]: invalid arguments, provider configuration,
// network, provider protocol, or git entity resolution. Errors are never
// retried; the CLI maps the kind to an exit code and prints one line.
package apperr
