package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/lumen/internal/command"
	"github.com/dshills/lumen/internal/config"
	"github.com/dshills/lumen/internal/gitctx"
	"github.com/dshills/lumen/internal/providers"
	"github.com/dshills/lumen/internal/ui"
)

// Command flags
var (
	flagDiff    bool
	flagStaged  bool
	flagQuery   string
	flagContext string
)

func buildOverrides() map[string]string {
	m := make(map[string]string)
	if flagProvider != "" {
		m["provider"] = flagProvider
	}
	if flagAPIKey != "" {
		m["api_key"] = flagAPIKey
	}
	if flagModel != "" {
		m["model"] = flagModel
	}
	if flagRedact {
		m["redact_secrets"] = "true"
	}
	return m
}

// loadProvider resolves the effective configuration into a validated
// provider config.
func loadProvider() (config.Config, providers.Config, error) {
	cfg, err := config.Load(buildOverrides())
	if err != nil {
		return config.Config{}, providers.Config{}, err
	}
	variant, err := providers.ParseVariant(cfg.Provider)
	if err != nil {
		return config.Config{}, providers.Config{}, err
	}
	pcfg, err := providers.NewConfig(variant, cfg.APIKey, cfg.Model)
	if err != nil {
		return config.Config{}, providers.Config{}, err
	}
	return cfg, pcfg, nil
}

// session is one command invocation's runner plus the terminal pieces
// around it.
type session struct {
	runner  *command.Runner
	spinner *ui.Spinner
	out     *ui.FirstWriteWriter
}

func newSession(cmd *cobra.Command) (*session, error) {
	cfg, pcfg, err := loadProvider()
	if err != nil {
		return nil, err
	}
	logger := newLogger(cmd.ErrOrStderr())
	logger.Debug("configuration loaded", "provider", pcfg.Variant.String(), "model", pcfg.Model, "redact", cfg.RedactSecrets)

	spin := ui.NewSpinner(terminalFile(cmd.ErrOrStderr()), fmt.Sprintf("Waiting for %s...", pcfg.Variant))
	out := ui.NewFirstWriteWriter(cmd.OutOrStdout(), spin.Stop)
	repo := gitctx.Repo{Dir: repoDir}

	return &session{
		runner: &command.Runner{
			Repo:   repo,
			Picker: spinAfterPick{picker: ui.Picker{Commits: repo}, spinner: spin},
			Client: providers.NewClient(pcfg, httpClient, logger),
			Out:    out,
			Logger: logger,
			Redact: cfg.RedactSecrets,
		},
		spinner: spin,
		out:     out,
	}, nil
}

// terminalFile returns w as a file the spinner can draw on, or nil when w
// is not backed by one.
func terminalFile(w io.Writer) *os.File {
	f, _ := w.(*os.File)
	return f
}

// finish stops the spinner and terminates a streamed answer with a
// newline.
func (s *session) finish(answer string) {
	s.spinner.Stop()
	if s.out.Wrote() && !strings.HasSuffix(answer, "\n") {
		fmt.Fprintln(s.out.W)
	}
}

// spinAfterPick starts the spinner once the interactive picker has
// returned so the two never share the terminal.
type spinAfterPick struct {
	picker  command.Picker
	spinner *ui.Spinner
}

func (p spinAfterPick) PickCommit(ctx context.Context) (string, error) {
	hash, err := p.picker.PickCommit(ctx)
	if err == nil {
		p.spinner.Start()
	}
	return hash, err
}

var explainCmd = &cobra.Command{
	Use:   "explain [commit]",
	Short: "Explain a commit or the current diff",
	Example: "  lumen explain HEAD\n" +
		"  lumen explain 1a2b3c4 -q \"why was the cache removed?\"\n" +
		"  lumen explain --diff --staged",
	Args: usageArgs(cobra.MaximumNArgs(1)),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := command.ExplainRequest{Diff: flagDiff, Staged: flagStaged, Question: flagQuery}
		if len(args) == 1 {
			req.Hash = args[0]
		}
		return runStreaming(cmd, func(ctx context.Context, r *command.Runner) (string, error) {
			return r.Explain(ctx, req)
		}, true)
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Pick a recent commit interactively and explain it",
	Args:  usageArgs(cobra.NoArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStreaming(cmd, func(ctx context.Context, r *command.Runner) (string, error) {
			return r.List(ctx)
		}, false)
	},
}

var draftCmd = &cobra.Command{
	Use:   "draft",
	Short: "Draft a conventional commit message for the staged changes",
	Example: "  lumen draft\n" +
		"  lumen draft -c \"match brand guidelines\"\n" +
		"  git commit -m \"$(lumen draft)\"",
	Args: usageArgs(cobra.NoArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStreaming(cmd, func(ctx context.Context, r *command.Runner) (string, error) {
			return r.Draft(ctx, flagContext)
		}, true)
	},
}

// runStreaming sets up a session, optionally starts the spinner, and runs
// op. The spinner is always stopped before returning.
func runStreaming(cmd *cobra.Command, op func(context.Context, *command.Runner) (string, error), spinNow bool) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	if spinNow {
		s.spinner.Start()
	}
	answer, err := op(cmd.Context(), s.runner)
	s.finish(answer)
	return err
}

func init() {
	explainCmd.Flags().BoolVar(&flagDiff, "diff", false, "Explain the working tree diff instead of a commit")
	explainCmd.Flags().BoolVar(&flagStaged, "staged", false, "With --diff, explain the staged changes")
	explainCmd.Flags().StringVarP(&flagQuery, "query", "q", "", "Ask a specific question about the change")
	draftCmd.Flags().StringVarP(&flagContext, "context", "c", "", "Extra context describing the intent of the change")
}
