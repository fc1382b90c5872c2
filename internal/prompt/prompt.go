package prompt

import (
	"fmt"
	"strings"

	"github.com/dshills/lumen/internal/gitctx"
)

// Role identifies the author of a message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of a conversation.
type Message struct {
	Role Role
	Text string
}

// Conversation is an ordered message sequence sent to a provider.
type Conversation []Message

// System returns the text of the first system message, or "".
func (c Conversation) System() string {
	for _, m := range c {
		if m.Role == RoleSystem {
			return m.Text
		}
	}
	return ""
}

// LastUser returns the text of the last user message, or "".
func (c Conversation) LastUser() string {
	for i := len(c) - 1; i >= 0; i-- {
		if c[i].Role == RoleUser {
			return c[i].Text
		}
	}
	return ""
}

// Intent selects the prompt template. It is either Explain or Draft.
type Intent interface {
	intent()
}

// Explain asks for an explanation of the entity. Question, if set,
// replaces the default summary request.
type Explain struct {
	Question string
}

// Draft asks for a conventional commit message. Context is free text from
// the user describing the intent of the change.
type Draft struct {
	Context string
}

func (Explain) intent() {}
func (Draft) intent()   {}

const explainSystemPrompt = `You are a helpful assistant that explains Git changes in a concise way. ` +
	`Focus only on the most significant changes and their direct impact. ` +
	`When answering specific questions, address them directly and precisely. ` +
	`Keep explanations brief but informative and don't ask for further explanations. ` +
	`Use markdown for clarity.`

const draftSystemPrompt = `You are a commit message generator that follows these rules:
1. Write in present tense
2. Be concise and direct
3. Output only the commit message without any explanations
4. Follow the format: <type>(<optional scope>): <commit message>`

const defaultExplainRequest = `Provide a short explanation covering:
1. Core changes made
2. Direct impact of the changes

If relevant:
- Key technical details
- Notable patterns or approaches used`

// conventionalTypes is kept in a fixed order so prompts are deterministic.
var conventionalTypes = []struct{ name, desc string }{
	{"docs", "Documentation only changes"},
	{"style", "Changes that do not affect the meaning of the code (white-space, formatting, missing semi-colons, etc)"},
	{"refactor", "A code change that neither fixes a bug nor adds a feature"},
	{"perf", "A code change that improves performance"},
	{"test", "Adding missing tests or correcting existing tests"},
	{"build", "Changes that affect the build system or external dependencies"},
	{"ci", "Changes to CI configuration files and scripts"},
	{"chore", "Other changes that don't modify src or test files"},
	{"revert", "Reverts a previous commit"},
	{"feat", "A new feature"},
	{"fix", "A bug fix"},
}

// Build returns the conversation for intent over entity: one system message
// followed by one user message. The patch is embedded verbatim.
func Build(intent Intent, entity gitctx.Entity) Conversation {
	switch in := intent.(type) {
	case Draft:
		return Conversation{
			{Role: RoleSystem, Text: draftSystemPrompt},
			{Role: RoleUser, Text: draftUserPrompt(entity, in.Context)},
		}
	case Explain:
		return Conversation{
			{Role: RoleSystem, Text: explainSystemPrompt},
			{Role: RoleUser, Text: explainUserPrompt(entity, in.Question)},
		}
	default:
		panic(fmt.Sprintf("prompt: unknown intent %T", intent))
	}
}

func explainUserPrompt(entity gitctx.Entity, question string) string {
	var b strings.Builder

	switch e := entity.(type) {
	case gitctx.Commit:
		b.WriteString("Context - Commit:\n\n")
		fmt.Fprintf(&b, "Hash: %s\n", e.Hash())
		fmt.Fprintf(&b, "Author: %s\n", e.Author())
		fmt.Fprintf(&b, "Message: %s\n", e.Message())
	case gitctx.Diff:
		if e.Staged() {
			b.WriteString("Context - Staged changes:\n\n")
		} else {
			b.WriteString("Context - Working tree changes:\n\n")
		}
	}

	b.WriteString("Changes:\n```diff\n")
	b.WriteString(entity.Patch())
	b.WriteString("\n```\n\n")

	if q := strings.TrimSpace(question); q != "" {
		fmt.Fprintf(&b, "Question: %s\n", q)
	} else {
		b.WriteString(defaultExplainRequest)
		b.WriteString("\n")
	}
	return b.String()
}

func draftUserPrompt(entity gitctx.Entity, context string) string {
	var b strings.Builder

	b.WriteString("Generate a concise git commit message written in present tense for the following code diff with the given specifications below:\n\n")
	b.WriteString("The output response must be in format:\n<type>(<optional scope>): <commit message>\n")
	b.WriteString("Choose a type from the type-to-description list below that best describes the git diff:\n")
	for _, ct := range conventionalTypes {
		fmt.Fprintf(&b, "- %s: %s\n", ct.name, ct.desc)
	}
	b.WriteString("Focus on being accurate and concise.\n")
	if c := strings.TrimSpace(context); c != "" {
		fmt.Fprintf(&b, "Use the following context to understand intent: %s\n", c)
	}
	b.WriteString("Commit message must be a maximum of 72 characters.\n")
	b.WriteString("Exclude anything unnecessary such as translation. Your entire response will be passed directly into git commit.\n\n")

	b.WriteString("Code diff:\n```diff\n")
	b.WriteString(entity.Patch())
	b.WriteString("\n```\n")
	return b.String()
}
