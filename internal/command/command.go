package command

import (
	"context"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"strings"

	"github.com/dshills/lumen/internal/apperr"
	"github.com/dshills/lumen/internal/gitctx"
	"github.com/dshills/lumen/internal/prompt"
	"github.com/dshills/lumen/internal/providers"
	"github.com/dshills/lumen/internal/redact"
	"github.com/dshills/lumen/internal/stream"
)

// Repository resolves git entities.
type Repository interface {
	Commit(ctx context.Context, hash string) (gitctx.Commit, error)
	Diff(ctx context.Context, staged bool) (gitctx.Diff, error)
}

// Picker lets the user choose a commit interactively and returns its hash.
type Picker interface {
	PickCommit(ctx context.Context) (string, error)
}

// Streamer sends a conversation to a backend. *providers.Client
// implements it.
type Streamer interface {
	Stream(ctx context.Context, conv prompt.Conversation) iter.Seq2[providers.Fragment, error]
}

// ExplainRequest selects what to explain. Exactly one of Hash or Diff
// must be set. Staged only applies with Diff.
type ExplainRequest struct {
	Hash     string
	Diff     bool
	Staged   bool
	Question string
}

// Runner executes commands. Out receives answer text as it streams.
type Runner struct {
	Repo   Repository
	Picker Picker
	Client Streamer
	Out    io.Writer
	Logger *slog.Logger

	// Redact scrubs secrets from patches before they leave the process.
	Redact bool
	// RedactPaths lists file globs whose diff bodies are withheld when
	// Redact is set. Nil means redact.DefaultPaths.
	RedactPaths []string
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return r.Logger
}

// Explain streams an explanation of a commit or of the current diff and
// returns the full answer.
func (r *Runner) Explain(ctx context.Context, req ExplainRequest) (string, error) {
	hash := strings.TrimSpace(req.Hash)
	switch {
	case hash != "" && req.Diff:
		return "", apperr.InvalidArguments("specify either a commit hash or --diff, not both")
	case hash == "" && !req.Diff:
		return "", apperr.InvalidArguments("specify a commit hash or --diff")
	case req.Staged && !req.Diff:
		return "", apperr.InvalidArguments("--staged requires --diff")
	}

	var entity gitctx.Entity
	if req.Diff {
		diff, err := r.Repo.Diff(ctx, req.Staged)
		if err != nil {
			return "", err
		}
		if diff.Empty() {
			return "", apperr.GitEntity("diff is empty")
		}
		entity = diff
	} else {
		commit, err := r.Repo.Commit(ctx, hash)
		if err != nil {
			return "", err
		}
		entity = commit
	}

	return r.run(ctx, prompt.Explain{Question: strings.TrimSpace(req.Question)}, entity)
}

// List asks the picker for a commit and explains it.
func (r *Runner) List(ctx context.Context) (string, error) {
	if r.Picker == nil {
		return "", apperr.InvalidArguments("no commit picker available")
	}
	hash, err := r.Picker.PickCommit(ctx)
	if err != nil {
		return "", err
	}
	r.logger().Debug("commit picked", "hash", hash)
	return r.Explain(ctx, ExplainRequest{Hash: hash})
}

// Draft streams a conventional commit message for the staged changes and
// returns it. userContext is optional free text describing intent.
func (r *Runner) Draft(ctx context.Context, userContext string) (string, error) {
	diff, err := r.Repo.Diff(ctx, true)
	if err != nil {
		return "", err
	}
	if diff.Empty() {
		return "", apperr.InvalidArguments("no staged changes to draft a message for")
	}
	return r.run(ctx, prompt.Draft{Context: strings.TrimSpace(userContext)}, diff)
}

func (r *Runner) run(ctx context.Context, intent prompt.Intent, entity gitctx.Entity) (string, error) {
	if r.Redact {
		entity = r.redacted(entity)
	}
	conv := prompt.Build(intent, entity)
	r.logger().Debug("conversation built",
		"intent", fmt.Sprintf("%T", intent),
		"patch_bytes", len(entity.Patch()),
		"redacted", r.Redact)

	answer, err := stream.Collect(r.Client.Stream(ctx, conv), r.Out)
	if err != nil {
		return "", err
	}
	return answer, nil
}

func (r *Runner) redacted(entity gitctx.Entity) gitctx.Entity {
	paths := r.RedactPaths
	if paths == nil {
		paths = redact.DefaultPaths
	}
	switch e := entity.(type) {
	case gitctx.Commit:
		return gitctx.NewCommit(e.Hash(), e.Author(), redact.Secrets(e.Message()), redact.Patch(e.Patch(), paths))
	case gitctx.Diff:
		return gitctx.NewDiff(redact.Patch(e.Patch(), paths), e.Staged())
	default:
		panic(fmt.Sprintf("command: unknown entity %T", entity))
	}
}
