package gitctx

// Entity is either a Commit or a Diff. The set is closed: only this package
// can add implementations.
type Entity interface {
	// Patch returns the unified diff text.
	Patch() string
	entity()
}

// Commit is a single commit resolved by hash.
type Commit struct {
	hash    string
	author  string
	message string
	patch   string
}

// NewCommit builds an immutable Commit.
func NewCommit(hash, author, message, patch string) Commit {
	return Commit{hash: hash, author: author, message: message, patch: patch}
}

func (c Commit) Hash() string    { return c.hash }
func (c Commit) Author() string  { return c.author }
func (c Commit) Message() string { return c.message }
func (c Commit) Patch() string   { return c.patch }
func (Commit) entity()           {}

// Diff is the working tree diff (Staged false) or the index diff (Staged true).
type Diff struct {
	patch  string
	staged bool
}

// NewDiff builds an immutable Diff.
func NewDiff(patch string, staged bool) Diff {
	return Diff{patch: patch, staged: staged}
}

func (d Diff) Patch() string { return d.patch }
func (d Diff) Staged() bool  { return d.staged }

// Empty reports whether the diff has no changes.
func (d Diff) Empty() bool { return len(d.patch) == 0 }

func (Diff) entity() {}
