package gitctx

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	gitlib "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"

	"github.com/dshills/lumen/internal/apperr"
)

// Repo reads commits and diffs from the repository containing Dir.
type Repo struct {
	// Dir is any path inside the work tree. Empty means the current directory.
	Dir string
}

// CommitInfo is one entry of the recent-commit log.
type CommitInfo struct {
	SHA     string
	Subject string
	Author  string
	When    time.Time
}

// Short returns the abbreviated hash.
func (c CommitInfo) Short() string {
	if len(c.SHA) > 7 {
		return c.SHA[:7]
	}
	return c.SHA
}

func (r Repo) dir() string {
	if r.Dir == "" {
		return "."
	}
	return r.Dir
}

func (r Repo) open() (*gitlib.Repository, error) {
	repo, err := gitlib.PlainOpenWithOptions(r.dir(), &gitlib.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, apperr.Wrap(apperr.KindGitEntity, err, "not a git repository")
	}
	return repo, nil
}

// Commit resolves rev (a full or abbreviated hash, or any revision go-git
// understands) and returns its metadata and patch against the first parent.
func (r Repo) Commit(ctx context.Context, rev string) (Commit, error) {
	repo, err := r.open()
	if err != nil {
		return Commit{}, err
	}
	hash, err := repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return Commit{}, apperr.Wrap(apperr.KindGitEntity, err, "commit %s not found", rev)
	}
	c, err := repo.CommitObject(*hash)
	if err != nil {
		return Commit{}, apperr.Wrap(apperr.KindGitEntity, err, "commit %s not found", rev)
	}

	patch, err := commitPatch(ctx, c)
	if err != nil {
		return Commit{}, apperr.Wrap(apperr.KindGitEntity, err, "diff for commit %s", rev)
	}

	author := fmt.Sprintf("%s <%s>", c.Author.Name, c.Author.Email)
	return NewCommit(c.Hash.String(), author, strings.TrimSpace(c.Message), patch), nil
}

func commitPatch(ctx context.Context, c *object.Commit) (string, error) {
	tree, err := c.Tree()
	if err != nil {
		return "", err
	}
	var parentTree *object.Tree
	if c.NumParents() > 0 {
		parent, err := c.Parent(0)
		if err != nil {
			return "", err
		}
		parentTree, err = parent.Tree()
		if err != nil {
			return "", err
		}
	}
	changes, err := object.DiffTreeWithOptions(ctx, parentTree, tree, object.DefaultDiffTreeOptions)
	if err != nil {
		return "", err
	}
	if len(changes) == 0 {
		return "", nil
	}
	patch, err := changes.PatchContext(ctx)
	if err != nil {
		return "", err
	}
	return patch.String(), nil
}

// Diff returns the staged diff (index vs HEAD) or the unstaged diff
// (working tree vs index). An empty patch is not an error here; callers
// decide whether an empty diff is acceptable.
func (r Repo) Diff(ctx context.Context, staged bool) (Diff, error) {
	args := []string{"diff", "--no-color", "--no-ext-diff", "--src-prefix=a/", "--dst-prefix=b/"}
	if staged {
		args = append(args, "--cached")
	}
	out, err := r.gitOutput(ctx, args...)
	if err != nil {
		return Diff{}, apperr.Wrap(apperr.KindGitEntity, err, "git %s", strings.Join(args, " "))
	}
	return NewDiff(out, staged), nil
}

// Recent returns up to n commits reachable from HEAD, newest first.
func (r Repo) Recent(ctx context.Context, n int) ([]CommitInfo, error) {
	repo, err := r.open()
	if err != nil {
		return nil, err
	}
	iter, err := repo.Log(&gitlib.LogOptions{Order: gitlib.LogOrderCommitterTime})
	if err != nil {
		return nil, apperr.Wrap(apperr.KindGitEntity, err, "reading commit log")
	}
	defer iter.Close()

	var commits []CommitInfo
	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if n > 0 && len(commits) >= n {
			return storer.ErrStop
		}
		subject, _, _ := strings.Cut(strings.TrimSpace(c.Message), "\n")
		commits = append(commits, CommitInfo{
			SHA:     c.Hash.String(),
			Subject: subject,
			Author:  c.Author.Name,
			When:    c.Author.When,
		})
		return nil
	})
	if err != nil && !errors.Is(err, storer.ErrStop) {
		return nil, apperr.Wrap(apperr.KindGitEntity, err, "reading commit log")
	}
	return commits, nil
}

func (r Repo) gitOutput(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = r.dir()
	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return string(out), fmt.Errorf("%s: %s", err, strings.Join(strings.Fields(string(exitErr.Stderr)), " "))
		}
		return "", err
	}
	return string(out), nil
}
