package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"

	mdcommand "github.com/alnah/go-mdcommand"
	"github.com/alnah/go-mdcommand/internal/pipeline"
)

// ErrClipboard indicates the system clipboard could not be written.
var ErrClipboard = errors.New("clipboard unavailable")

const (
	defaultShowWidth = 80
	defaultTheme     = "dark"
	stdinArg         = "-"
)

// runShow transforms one document and renders it in the terminal.
func runShow(_ context.Context, args []string, env *Environment) error {
	flags, positional, err := parseShowFlags(args, env.Stdout)
	if err != nil {
		return err
	}
	if len(positional) == 0 {
		return fmt.Errorf("%w: show needs a file or - for stdin", ErrNoInput)
	}

	envCfg := loadEnvConfig()
	cfg, err := loadConfig(flags.common.config, envCfg, env)
	if err != nil {
		return err
	}
	if flags.mode != "" {
		cfg.Mode = flags.mode
	}
	mode, err := mdcommand.ParseMode(cfg.Mode)
	if err != nil {
		return err
	}
	rules, err := cfg.CompileRules()
	if err != nil {
		return err
	}

	text, err := readSource(positional[0], env.Stdin)
	if err != nil {
		return err
	}

	conv, err := mdcommand.NewConverter(mdcommand.WithRules(rules...))
	if err != nil {
		return err
	}
	defer func() { _ = conv.Close() }()

	md, log := conv.Transform(pipeline.NormalizeLineEndings(text), mode)

	if flags.raw {
		fmt.Fprint(env.Stdout, md)
		if md != "" && !strings.HasSuffix(md, "\n") {
			fmt.Fprintln(env.Stdout)
		}
	} else {
		out, err := renderTerminal(pipeline.IsolateRules(md, log), flags.width, resolveTheme(flags.theme, envCfg.Theme))
		if err != nil {
			return err
		}
		fmt.Fprint(env.Stdout, out)
	}

	if flags.log {
		if len(log) == 0 {
			fmt.Fprintln(env.Stdout, "No commands converted.")
		} else {
			writeLogTable(env.Stdout, log)
		}
	}

	if flags.copy {
		if err := env.Clipboard(md); err != nil {
			return fmt.Errorf("%w: %v", ErrClipboard, err)
		}
		if !flags.common.quiet {
			fmt.Fprintf(env.Stderr, "Copied Markdown (%d chars)\n", len([]rune(md)))
		}
	}

	return nil
}

// readSource reads a file, or stdin when arg is "-".
func readSource(arg string, stdin io.Reader) (string, error) {
	if arg == stdinArg {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("%w: stdin: %v", ErrReadMarkdown, err)
		}
		return string(data), nil
	}
	if err := validateMarkdownExtension(arg); err != nil {
		return "", err
	}
	data, err := os.ReadFile(arg) // #nosec G304 -- user-provided path
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrReadMarkdown, err)
	}
	return string(data), nil
}

// renderTerminal renders Markdown with glamour.
func renderTerminal(md string, width int, theme string) (string, error) {
	if width <= 0 {
		width = defaultShowWidth
	}
	renderer, err := glamour.NewTermRenderer(
		themeOption(theme),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("creating terminal renderer: %w", err)
	}
	out, err := renderer.Render(md)
	if err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return out, nil
}

// resolveTheme picks the glamour theme: flag, MDCOMMAND_THEME,
// GLAMOUR_STYLE, then dark. Dark avoids the background color query that
// auto detection sends to the terminal.
func resolveTheme(flagValue, envValue string) string {
	for _, v := range []string{flagValue, envValue, os.Getenv("GLAMOUR_STYLE")} {
		if v = strings.ToLower(strings.TrimSpace(v)); v != "" {
			return v
		}
	}
	return defaultTheme
}

func themeOption(theme string) glamour.TermRendererOption {
	switch theme {
	case "auto":
		return glamour.WithAutoStyle()
	case "dark", "light", "notty":
		return glamour.WithStandardStyle(theme)
	default:
		return glamour.WithStandardStyle(defaultTheme)
	}
}
