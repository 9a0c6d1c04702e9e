package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdcommand <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Write \"heading 2: Plan\" or \"bold this: now\" and get Markdown back.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  convert     Convert command text to Markdown, HTML or PDF")
	fmt.Fprintln(w, "  show        Render command text in the terminal")
	fmt.Fprintln(w, "  serve       Start the live browser preview")
	fmt.Fprintln(w, "  rules       List the command vocabulary")
	fmt.Fprintln(w, "  doctor      Check Chrome and configuration")
	fmt.Fprintln(w, "  completion  Generate shell completion script")
	fmt.Fprintln(w, "  version     Show version information")
	fmt.Fprintln(w, "  help        Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "A Markdown file as first argument runs convert: mdcommand notes.md")
	fmt.Fprintln(w, "Run 'mdcommand help <command>' for details on a specific command.")
}

// printConvertUsage prints usage for the convert command.
func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdcommand convert <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Rewrite command lines into Markdown, then write Markdown, HTML or PDF.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    File or directory (optional if config has input.defaultDir)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file or directory")
	fmt.Fprintln(w, "  -t, --to <format>         Output format: md (default), html, pdf")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "      --mode <mode>         commands (default) or off to pass text through")
	fmt.Fprintln(w, "      --log                 Print every converted line")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Document:")
	fmt.Fprintln(w, "      --title <s>           HTML title (default: first heading)")
	fmt.Fprintln(w, "      --style <s>           Style name, CSS file or inline CSS")
	fmt.Fprintln(w, "      --asset-path <dir>    Directory with custom styles")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "PDF:")
	fmt.Fprintln(w, "  -p, --page-size <s>       Page size: letter, a4, legal")
	fmt.Fprintln(w, "      --orientation <s>     Orientation: portrait, landscape")
	fmt.Fprintln(w, "      --margin <f>          Margin in inches (0.25-3.0)")
	fmt.Fprintln(w, "      --timeout <d>         Export timeout, e.g. 45s, 2m")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show detailed timing")
}

// printShowUsage prints usage for the show command.
func printShowUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdcommand show <file|-> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Rewrite command lines and render the result in the terminal.")
	fmt.Fprintln(w, "Use - to read from stdin.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --raw                 Print canonical Markdown instead of rendering")
	fmt.Fprintln(w, "      --copy                Copy canonical Markdown to the clipboard")
	fmt.Fprintln(w, "      --log                 Print every converted line")
	fmt.Fprintln(w, "      --mode <mode>         commands (default) or off")
	fmt.Fprintln(w, "      --width <n>           Word wrap width (default 80)")
	fmt.Fprintln(w, "      --theme <s>           dark (default), light, notty, auto")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
}

// printServeUsage prints usage for the serve command.
func printServeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdcommand serve [dir] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Start a browser editor that converts as you type.")
	fmt.Fprintln(w, "Files under dir are readable at /view/<path> and /files/<path>.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --host <s>            Listen host (default 127.0.0.1)")
	fmt.Fprintln(w, "      --port <n>            Listen port (default 7331, 0 = any)")
	fmt.Fprintln(w, "      --watch <file>        Push this file to the editor on every save")
	fmt.Fprintln(w, "      --mode <mode>         Default mode: commands or off")
	fmt.Fprintln(w, "      --debounce <ms>       Editor keystroke debounce")
	fmt.Fprintln(w, "      --title <s>           Editor page title")
	fmt.Fprintln(w, "      --style <s>           Style name, CSS file or inline CSS")
	fmt.Fprintln(w, "      --asset-path <dir>    Directory with custom styles and templates")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only log errors")
	fmt.Fprintln(w, "  -v, --verbose             Log debug details")
}

// printRulesUsage prints usage for the rules command.
func printRulesUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdcommand rules [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "List every command in the order it is tried, with an example.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -c, --config <name>       Include rules from a config file")
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdcommand doctor [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check Chrome for PDF export, the configuration, and the system.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --json                Print results as JSON")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path to check")
	fmt.Fprintln(w, "  -v, --verbose             Print the effective configuration")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) error {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return nil
	}

	switch args[0] {
	case "convert":
		printConvertUsage(env.Stdout)
	case "show":
		printShowUsage(env.Stdout)
	case "serve":
		printServeUsage(env.Stdout)
	case "rules":
		printRulesUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "completion":
		printCompletionUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: mdcommand version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: mdcommand help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		printUsage(env.Stderr)
		return fmt.Errorf("%w: %q", ErrUnknownCommand, args[0])
	}
	return nil
}
