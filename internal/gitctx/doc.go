// Package gitctx resolves the git entities lumen explains: a single commit
// or the current diff.
//
// Commits are looked up by hash (full or abbreviated) with go-git, which
// also supplies the recent-commit log for the interactive picker. Working
// tree and staged diffs shell out to git so the patch matches exactly what
// `git diff` prints.
//
// An [Entity] is immutable once built; the prompt layer only reads it.
package gitctx
