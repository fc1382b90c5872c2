package cli

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/lumen/internal/apperr"
)

const (
	hookName        = "prepare-commit-msg"
	hookMarkerStart = "# >>> lumen prepare-commit-msg hook >>>"
	hookMarkerEnd   = "# <<< lumen prepare-commit-msg hook <<<"
)

var hookContext string

var hookCmd = &cobra.Command{
	Use:   "hook",
	Short: "Manage the git prepare-commit-msg hook that pre-fills drafted messages",
}

var hookInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Install lumen as a git prepare-commit-msg hook",
	Args:  usageArgs(cobra.NoArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		hookPath, err := getHookPath(cmd.Context())
		if err != nil {
			return err
		}

		section := generateHookScript(hookDraftArgs())

		existing, err := os.ReadFile(hookPath)
		if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("reading hook file: %w", err)
		}

		var content string
		if len(existing) == 0 {
			content = "#!/bin/sh\n" + section
		} else {
			content = replaceLumenSection(string(existing), section)
		}

		if err := os.MkdirAll(filepath.Dir(hookPath), 0o755); err != nil {
			return fmt.Errorf("creating hooks directory: %w", err)
		}
		if err := os.WriteFile(hookPath, []byte(content), 0o755); err != nil {
			return fmt.Errorf("writing hook file: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Installed lumen %s hook at %s\n", hookName, hookPath)
		return nil
	},
}

var hookUninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Remove the lumen prepare-commit-msg hook",
	Args:  usageArgs(cobra.NoArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		hookPath, err := getHookPath(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		existing, err := os.ReadFile(hookPath)
		if err != nil {
			if os.IsNotExist(err) {
				fmt.Fprintf(out, "No %s hook found.\n", hookName)
				return nil
			}
			return fmt.Errorf("reading hook file: %w", err)
		}

		content := removeLumenSection(string(existing))

		// Only a shebang left: delete the file.
		trimmed := strings.TrimSpace(content)
		if trimmed == "" || trimmed == "#!/bin/sh" || trimmed == "#!/bin/bash" {
			if err := os.Remove(hookPath); err != nil {
				return fmt.Errorf("removing hook file: %w", err)
			}
			fmt.Fprintf(out, "Removed lumen %s hook at %s\n", hookName, hookPath)
			return nil
		}

		if err := os.WriteFile(hookPath, []byte(content), 0o755); err != nil {
			return fmt.Errorf("writing hook file: %w", err)
		}
		fmt.Fprintf(out, "Removed lumen section from %s\n", hookPath)
		return nil
	},
}

// getHookPath asks git where the hook lives so core.hooksPath and
// worktrees are honored.
func getHookPath(ctx context.Context) (string, error) {
	cmd := exec.CommandContext(ctx, "git", "rev-parse", "--git-path", "hooks/"+hookName)
	if repoDir != "" {
		cmd.Dir = repoDir
	}
	out, err := cmd.Output()
	if err != nil {
		return "", apperr.Wrap(apperr.KindGitEntity, err, "not a git repository (git rev-parse failed)")
	}
	path := strings.TrimSpace(string(out))
	if !filepath.IsAbs(path) && repoDir != "" {
		path = filepath.Join(repoDir, path)
	}
	return path, nil
}

// hookDraftArgs returns the lumen arguments baked into the hook, taken from
// the global flags given to "hook install".
func hookDraftArgs() []string {
	var args []string
	if flagProvider != "" {
		args = append(args, "--provider", flagProvider)
	}
	if flagModel != "" {
		args = append(args, "--model", flagModel)
	}
	if flagRedact {
		args = append(args, "--redact")
	}
	args = append(args, "draft")
	if hookContext != "" {
		args = append(args, "--context", hookContext)
	}
	return args
}

// generateHookScript writes a section that drafts a message only for a
// plain "git commit" (no -m, template, merge or amend source) and never
// blocks the commit.
func generateHookScript(draftArgs []string) string {
	quoted := make([]string, len(draftArgs))
	for i, a := range draftArgs {
		quoted[i] = shellQuote(a)
	}

	var b strings.Builder
	b.WriteString(hookMarkerStart + "\n")
	b.WriteString("if [ -z \"$2\" ]; then\n")
	fmt.Fprintf(&b, "  LUMEN_MSG=$(lumen %s 2>/dev/null)\n", strings.Join(quoted, " "))
	b.WriteString("  if [ $? -eq 0 ] && [ -n \"$LUMEN_MSG\" ]; then\n")
	b.WriteString("    { printf '%s\\n' \"$LUMEN_MSG\"; cat \"$1\"; } > \"$1.lumen\" && mv \"$1.lumen\" \"$1\"\n")
	b.WriteString("  else\n")
	b.WriteString("    echo \"lumen: could not draft a commit message, continuing\" >&2\n")
	b.WriteString("  fi\n")
	b.WriteString("fi\n")
	b.WriteString(hookMarkerEnd + "\n")
	return b.String()
}

func shellQuote(s string) string {
	if s != "" && strings.IndexFunc(s, func(r rune) bool {
		return !(r == '-' || r == '_' || r == '.' || r == '/' || r == ':' ||
			(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'))
	}) < 0 {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func replaceLumenSection(existing, section string) string {
	startIdx := strings.Index(existing, hookMarkerStart)
	endIdx := strings.Index(existing, hookMarkerEnd)

	if startIdx == -1 || endIdx == -1 {
		if !strings.HasSuffix(existing, "\n") {
			existing += "\n"
		}
		return existing + section
	}

	before := existing[:startIdx]
	after := strings.TrimPrefix(existing[endIdx+len(hookMarkerEnd):], "\n")
	return before + section + after
}

func removeLumenSection(existing string) string {
	startIdx := strings.Index(existing, hookMarkerStart)
	endIdx := strings.Index(existing, hookMarkerEnd)

	if startIdx == -1 || endIdx == -1 {
		return existing
	}

	before := existing[:startIdx]
	after := strings.TrimPrefix(existing[endIdx+len(hookMarkerEnd):], "\n")
	return before + after
}

func init() {
	hookCmd.AddCommand(hookInstallCmd)
	hookCmd.AddCommand(hookUninstallCmd)
	hookInstallCmd.Flags().StringVarP(&hookContext, "context", "c", "", "Context passed to every drafted message")
}
