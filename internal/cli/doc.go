// Package cli implements the lumen command tree with cobra.
//
// Every command resolves configuration through [config.Load], builds a
// single provider client over the shared HTTP client and hands off to
// [command.Runner]. Errors are printed once, as a red "error:" line, and
// mapped to an exit code by their [apperr.Kind].
package cli
