package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/lumen/internal/gitctx"
)

func TestBuild_DraftStagedDiff(t *testing.T) {
	diff := gitctx.NewDiff("+foo\n-bar", true)

	conv := Build(Draft{}, diff)

	require.Len(t, conv, 2)
	assert.Equal(t, RoleSystem, conv[0].Role)
	assert.Equal(t, RoleUser, conv[1].Role)
	assert.Contains(t, conv[0].Text, "commit message")
	assert.Contains(t, conv[1].Text, "+foo\n-bar")
	assert.NotContains(t, conv[1].Text, "context to understand intent")
}

func TestBuild_DraftWithContext(t *testing.T) {
	conv := Build(Draft{Context: "  fixes login redirect  "}, gitctx.NewDiff("+x", true))

	assert.Contains(t, conv.LastUser(), "Use the following context to understand intent: fixes login redirect\n")
	// Context precedes the diff.
	assert.Less(t, strings.Index(conv.LastUser(), "fixes login"), strings.Index(conv.LastUser(), "+x"))
}

func TestBuild_ExplainCommit(t *testing.T) {
	c := gitctx.NewCommit("0123abc", "Ada <ada@example.com>", "fix: handle nil", "@@ -1 +1 @@\n-a\n+b")

	conv := Build(Explain{}, c)

	require.Len(t, conv, 2)
	assert.Contains(t, conv.System(), "explains Git changes")
	user := conv.LastUser()
	assert.Contains(t, user, "Hash: 0123abc")
	assert.Contains(t, user, "Author: Ada <ada@example.com>")
	assert.Contains(t, user, "Message: fix: handle nil")
	assert.Contains(t, user, "@@ -1 +1 @@\n-a\n+b")
	assert.Contains(t, user, "Core changes made")
}

func TestBuild_ExplainQuestionAfterPatch(t *testing.T) {
	d := gitctx.NewDiff("+PATCH", false)

	conv := Build(Explain{Question: "why is this needed?"}, d)

	user := conv.LastUser()
	assert.Contains(t, user, "Working tree changes")
	assert.NotContains(t, user, "Core changes made")
	q := strings.Index(user, "Question: why is this needed?")
	p := strings.Index(user, "+PATCH")
	require.GreaterOrEqual(t, q, 0)
	assert.Greater(t, q, p)
}

func TestBuild_ExplainStagedDiff(t *testing.T) {
	conv := Build(Explain{}, gitctx.NewDiff("+x", true))
	assert.Contains(t, conv.LastUser(), "Staged changes")
}

func TestBuild_PatchNotTruncated(t *testing.T) {
	big := strings.Repeat("+line of code\n", 50000)

	conv := Build(Explain{}, gitctx.NewDiff(big, false))

	assert.Contains(t, conv.LastUser(), big)
}

func TestBuild_Deterministic(t *testing.T) {
	d := gitctx.NewDiff("+foo", true)
	assert.Equal(t, Build(Draft{Context: "c"}, d), Build(Draft{Context: "c"}, d))
}

func TestConversation_Helpers(t *testing.T) {
	conv := Conversation{
		{Role: RoleSystem, Text: "sys"},
		{Role: RoleUser, Text: "first"},
		{Role: RoleAssistant, Text: "reply"},
		{Role: RoleUser, Text: "second"},
	}
	assert.Equal(t, "sys", conv.System())
	assert.Equal(t, "second", conv.LastUser())
	assert.Equal(t, "", Conversation{}.System())
	assert.Equal(t, "", Conversation{}.LastUser())
}
