package ui

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/dshills/lumen/internal/apperr"
	"github.com/dshills/lumen/internal/gitctx"
)

// DefaultPickerLimit is how many recent commits the picker offers.
const DefaultPickerLimit = 100

// CommitLister returns recent commits, newest first. gitctx.Repo
// implements it.
type CommitLister interface {
	Recent(ctx context.Context, n int) ([]gitctx.CommitInfo, error)
}

// Picker offers a filterable list of recent commits.
type Picker struct {
	Commits CommitLister
	Limit   int
}

// PickCommit shows the list and returns the chosen full hash.
func (p Picker) PickCommit(ctx context.Context) (string, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = DefaultPickerLimit
	}
	commits, err := p.Commits.Recent(ctx, limit)
	if err != nil {
		return "", err
	}
	if len(commits) == 0 {
		return "", apperr.GitEntity("repository has no commits")
	}

	var selected string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Select a commit to explain").
				Options(commitOptions(commits)...).
				Filtering(true).
				Height(15).
				Value(&selected),
		),
	)
	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", apperr.InvalidArguments("no commit selected")
		}
		return "", fmt.Errorf("commit picker: %w", err)
	}
	return selected, nil
}

func commitOptions(commits []gitctx.CommitInfo) []huh.Option[string] {
	opts := make([]huh.Option[string], 0, len(commits))
	for _, c := range commits {
		opts = append(opts, huh.NewOption(commitLabel(c), c.SHA))
	}
	return opts
}

// commitLabel is "<short> <subject> (<author>, <date>)".
func commitLabel(c gitctx.CommitInfo) string {
	meta := c.Author
	if !c.When.IsZero() {
		meta += ", " + c.When.Format("2006-01-02")
	}
	return fmt.Sprintf("%s %s %s", hashStyle.Render(c.Short()), c.Subject, dimStyle.Render("("+meta+")"))
}
