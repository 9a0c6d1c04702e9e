package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"syscall"

	"go.uber.org/automaxprocs/maxprocs"

	mdcommand "github.com/alnah/go-mdcommand"
	"github.com/alnah/go-mdcommand/internal/assets"
	"github.com/alnah/go-mdcommand/internal/config"
	"github.com/alnah/go-mdcommand/internal/fileutil"
	"github.com/alnah/go-mdcommand/internal/hints"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Sentinel errors for command dispatch.
var (
	ErrUsage          = errors.New("invalid usage")
	ErrUnknownCommand = errors.New("unknown command")
)

// errHelp reports that usage was printed on request. It is not a failure.
var errHelp = errors.New("help requested")

// commands lists every subcommand name, in help order.
var commands = []string{"convert", "show", "serve", "rules", "doctor", "completion", "version", "help"}

func main() {
	os.Exit(runMain(os.Args, DefaultEnv()))
}

// runMain runs the CLI and returns the process exit code.
func runMain(args []string, env *Environment) int {
	rest := args[1:]

	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	_, _ = maxprocs.Set(maxprocs.Logger(maxprocsLogger(hasVerbose(rest), env.Stderr)))

	warnUnknownEnvVars(env.Stderr)

	ctx, stop := notifyContext(context.Background())
	defer stop()

	err := run(ctx, rest, env)
	if err == nil || errors.Is(err, errHelp) {
		return ExitSuccess
	}

	fmt.Fprintf(env.Stderr, "error: %v%s\n", err, hintFor(err))
	return exitCodeFor(err)
}

// run dispatches to a subcommand. A bare Markdown path is shorthand for
// "convert <path>".
func run(ctx context.Context, args []string, env *Environment) error {
	if len(args) == 0 {
		printUsage(env.Stderr)
		return fmt.Errorf("%w: no command given", ErrUsage)
	}

	cmd, rest := args[0], args[1:]
	if !isCommand(cmd) && looksLikeMarkdown(cmd) {
		cmd, rest = "convert", args
	}

	switch cmd {
	case "convert":
		return runConvert(ctx, rest, env)
	case "show":
		return runShow(ctx, rest, env)
	case "serve":
		return runServe(ctx, rest, env)
	case "rules":
		return runRules(rest, env)
	case "doctor":
		return runDoctorCmd(rest, env)
	case "completion":
		return runCompletion(rest, env)
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "mdcommand %s\n", Version)
		return nil
	case "help", "-h", "--help":
		return runHelp(rest, env)
	default:
		printUsage(env.Stderr)
		return fmt.Errorf("%w: %q", ErrUnknownCommand, cmd)
	}
}

// isCommand reports whether s names a subcommand. Matching is case sensitive.
func isCommand(s string) bool {
	return slices.Contains(commands, s)
}

// looksLikeMarkdown reports whether arg is a Markdown file path.
func looksLikeMarkdown(arg string) bool {
	return fileutil.IsMarkdownFile(arg) && filepath.Base(arg) != filepath.Ext(arg)
}

// hasVerbose scans raw arguments for -v or --verbose, before any
// subcommand parsing happens.
func hasVerbose(args []string) bool {
	for _, a := range args {
		if a == "--" {
			return false
		}
		if a == "-v" || a == "--verbose" {
			return true
		}
	}
	return false
}

func maxprocsLogger(verbose bool, w io.Writer) func(string, ...interface{}) {
	if !verbose {
		return func(string, ...interface{}) {}
	}
	return func(format string, args ...interface{}) {
		fmt.Fprintf(w, format+"\n", args...)
	}
}

// hintFor returns an actionable hint for well-known failures, or "".
func hintFor(err error) string {
	var notFound *config.NotFoundError
	switch {
	case errors.Is(err, mdcommand.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.As(err, &notFound):
		return hints.ForConfigNotFound(notFound.Tried)
	case errors.Is(err, mdcommand.ErrStyleNotFound):
		return hints.ForStyleNotFound(assets.StyleNames())
	case errors.Is(err, mdcommand.ErrInvalidRule):
		return hints.ForInvalidRule()
	case errors.Is(err, ErrWriteOutput):
		return hints.ForOutputDirectory()
	case errors.Is(err, syscall.EADDRINUSE):
		return hints.ForAddressInUse()
	case errors.Is(err, ErrUsage), errors.Is(err, ErrUnknownCommand):
		return "\n  hint: run 'mdcommand help' for usage"
	}
	return ""
}
