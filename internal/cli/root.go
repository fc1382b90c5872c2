package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dshills/lumen/internal/apperr"
	"github.com/dshills/lumen/internal/ui"
)

const version = "0.1.0"

// Exit codes
const (
	ExitSuccess      = 0
	ExitFailure      = 1
	ExitUsageError   = 2
	ExitConfigError  = 3
	ExitRuntimeError = 4
)

// Global flags
var (
	flagProvider string
	flagAPIKey   string
	flagModel    string
	flagVerbose  bool
	flagRedact   bool
)

// httpClient is shared by every request in the process. It has no
// timeout; cancellation comes from the command context.
var httpClient = &http.Client{}

// repoDir is the directory git commands run in. Empty means the working
// directory.
var repoDir string

var rootCmd = &cobra.Command{
	Use:   "lumen",
	Short: "Explain git commits and draft commit messages with AI",
	Long: "Lumen explains commits and working-tree diffs, and drafts conventional commit\n" +
		"messages for staged changes, streaming answers from OpenAI, Phind, Groq,\n" +
		"Claude or a local Ollama server.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Run executes the root command and returns an exit code.
func Run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
}

func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		ui.PrintError(stderr, err)
		return exitCodeFor(err)
	}
	return ExitSuccess
}

func exitCodeFor(err error) int {
	switch apperr.KindOf(err) {
	case apperr.KindInvalidArguments:
		return ExitUsageError
	case apperr.KindProviderConfig:
		return ExitConfigError
	case apperr.KindNetwork, apperr.KindProviderProtocol, apperr.KindGitEntity:
		return ExitRuntimeError
	}
	if errors.Is(err, context.Canceled) {
		return ExitRuntimeError
	}
	return ExitFailure
}

// usageArgs wraps a cobra positional-args validator so its failures map to
// the usage exit code.
func usageArgs(fn cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := fn(cmd, args); err != nil {
			return apperr.InvalidArguments("%v", err)
		}
		return nil
	}
}

func newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if flagVerbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print lumen version",
	Args:  usageArgs(cobra.NoArgs),
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "lumen version %s\n", version)
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flagProvider, "provider", "p", "", "AI provider (openai, phind, groq, claude, ollama) [env: LUMEN_AI_PROVIDER]")
	pf.StringVarP(&flagAPIKey, "api-key", "k", "", "API key for the provider [env: LUMEN_API_KEY]")
	pf.StringVarP(&flagModel, "model", "m", "", "Model override [env: LUMEN_AI_MODEL]")
	pf.BoolVarP(&flagVerbose, "verbose", "v", false, "Log request diagnostics to stderr")
	pf.BoolVar(&flagRedact, "redact", false, "Redact secrets from diffs before sending them")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return apperr.InvalidArguments("%v", err)
	})

	rootCmd.AddCommand(explainCmd, listCmd, draftCmd, modelsCmd, configCmd, hookCmd, versionCmd)
}
