package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"
)

// Shell represents a supported shell for completion generation.
type Shell string

// Supported shells for completion.
const (
	ShellBash Shell = "bash"
	ShellZsh  Shell = "zsh"
	ShellFish Shell = "fish"
)

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = errors.New("unsupported shell")

// flagType represents the completion type for a flag.
type flagType int

const (
	flagString flagType = iota // default
	flagBool
	flagInt
	flagFloat
	flagEnum // has predefined values
	flagFile // file with glob pattern
	flagDir  // directory
)

// flagDef describes a flag for completion purposes.
type flagDef struct {
	Long     string   // --output
	Short    string   // o (empty if none)
	Type     flagType // completion type
	Desc     string   // help text
	Values   []string // for enum flags
	FileGlob string   // for file flags
}

// commandDef describes a command for completion.
type commandDef struct {
	Name        string
	Desc        string
	Flags       []flagDef
	Args        []string // fixed positional values, e.g. shell names
	TakesFiles  bool     // accepts file arguments
	TakesDir    bool     // accepts a directory argument
	FilePattern string   // glob for file arguments (e.g., "*.md")
}

// completionMeta holds completion-specific metadata for flags.
// Flag names, types, and descriptions come from the FlagSets.
type completionMeta struct {
	Values   []string // enum values
	FileGlob string   // file glob pattern
	IsDir    bool     // directory completion
}

const markdownGlob = "*.md,*.markdown,*.txt"

// flagCompletionMeta maps flag names to their completion metadata.
var flagCompletionMeta = map[string]completionMeta{
	// Enum flags
	"to":          {Values: []string{"md", "html", "pdf"}},
	"mode":        {Values: []string{"commands", "off"}},
	"page-size":   {Values: []string{"letter", "a4", "legal"}},
	"orientation": {Values: []string{"portrait", "landscape"}},
	"theme":       {Values: []string{"dark", "light", "notty", "auto"}},

	// File flags with glob patterns
	"config": {FileGlob: "*.yaml,*.yml"},
	"style":  {FileGlob: "*.css"},
	"watch":  {FileGlob: markdownGlob},

	// Directory flags
	"output":     {IsDir: true},
	"asset-path": {IsDir: true},
}

// extractFlagsFromFlagSet extracts flag definitions from a pflag.FlagSet.
// Enriches with completion metadata from flagCompletionMeta.
func extractFlagsFromFlagSet(fs *flag.FlagSet) []flagDef {
	var flags []flagDef

	fs.VisitAll(func(f *flag.Flag) {
		fd := flagDef{
			Long:  f.Name,
			Short: f.Shorthand,
			Desc:  f.Usage,
		}

		switch f.Value.Type() {
		case "bool":
			fd.Type = flagBool
		case "int", "int8", "int16", "int32", "int64", "uint", "uint8", "uint16", "uint32", "uint64":
			fd.Type = flagInt
		case "float32", "float64":
			fd.Type = flagFloat
		default:
			fd.Type = flagString
		}

		if meta, ok := flagCompletionMeta[f.Name]; ok {
			switch {
			case len(meta.Values) > 0:
				fd.Type = flagEnum
				fd.Values = meta.Values
			case meta.FileGlob != "":
				fd.Type = flagFile
				fd.FileGlob = meta.FileGlob
			case meta.IsDir:
				fd.Type = flagDir
			}
		}

		flags = append(flags, fd)
	})

	return flags
}

// getCommands returns the command registry for completion.
// Flags are extracted from the actual FlagSets, the single source of truth.
func getCommands() []commandDef {
	convertFS, _ := newConvertFlagSet()
	showFS, _ := newShowFlagSet()
	serveFS, _ := newServeFlagSet()
	rulesFS, _ := newRulesFlagSet()
	doctorFS, _ := newDoctorFlagSet()

	return []commandDef{
		{
			Name:        "convert",
			Desc:        "Convert command text to Markdown, HTML or PDF",
			Flags:       extractFlagsFromFlagSet(convertFS),
			TakesFiles:  true,
			FilePattern: markdownGlob,
		},
		{
			Name:        "show",
			Desc:        "Render command text in the terminal",
			Flags:       extractFlagsFromFlagSet(showFS),
			TakesFiles:  true,
			FilePattern: markdownGlob,
		},
		{
			Name:     "serve",
			Desc:     "Start the live browser preview",
			Flags:    extractFlagsFromFlagSet(serveFS),
			TakesDir: true,
		},
		{
			Name:  "rules",
			Desc:  "List the command vocabulary",
			Flags: extractFlagsFromFlagSet(rulesFS),
		},
		{
			Name:  "doctor",
			Desc:  "Check Chrome and configuration",
			Flags: extractFlagsFromFlagSet(doctorFS),
		},
		{
			Name: "completion",
			Desc: "Generate shell completion script",
			Args: []string{string(ShellBash), string(ShellZsh), string(ShellFish)},
		},
		{
			Name: "version",
			Desc: "Show version information",
		},
		{
			Name: "help",
			Desc: "Show help for a command",
			Args: commands,
		},
	}
}

// GenerateCompletion writes shell completion script to w.
// Returns error if shell is unsupported or write fails.
func GenerateCompletion(w io.Writer, shell Shell) error {
	bw := bufio.NewWriter(w)
	switch shell {
	case ShellBash:
		generateBash(bw, getCommands())
	case ShellZsh:
		generateZsh(bw, getCommands())
	case ShellFish:
		generateFish(bw, getCommands())
	default:
		return fmt.Errorf("%w: %q (supported: bash, zsh, fish)", ErrUnsupportedShell, shell)
	}
	return bw.Flush()
}

// runCompletion handles the completion command.
func runCompletion(args []string, env *Environment) error {
	if len(args) == 0 {
		printCompletionUsage(env.Stdout)
		return nil
	}
	return GenerateCompletion(env.Stdout, Shell(args[0]))
}

// ---------------------------------------------------------------------------
// Bash
// ---------------------------------------------------------------------------

func generateBash(w io.Writer, cmds []commandDef) {
	names := make([]string, len(cmds))
	for i, c := range cmds {
		names[i] = c.Name
	}

	fmt.Fprintln(w, "# bash completion for mdcommand")
	fmt.Fprintln(w, "shopt -s extglob")
	fmt.Fprintln(w, "_mdcommand() {")
	fmt.Fprintln(w, `    local cur="${COMP_WORDS[COMP_CWORD]}" prev="${COMP_WORDS[COMP_CWORD-1]}"`)
	fmt.Fprintf(w, "    local commands=%q\n", strings.Join(names, " "))
	fmt.Fprintln(w, "    if [[ ${COMP_CWORD} -eq 1 ]]; then")
	fmt.Fprintln(w, `        COMPREPLY=( $(compgen -W "$commands" -- "$cur") )`)
	fmt.Fprintln(w, "        return")
	fmt.Fprintln(w, "    fi")
	fmt.Fprintln(w, `    case "${COMP_WORDS[1]}" in`)

	for _, c := range cmds {
		fmt.Fprintf(w, "    %s)\n", c.Name)

		var cases []string
		var all []string
		for _, f := range c.Flags {
			all = append(all, "--"+f.Long)
			pattern := "--" + f.Long
			if f.Short != "" {
				all = append(all, "-"+f.Short)
				pattern += "|-" + f.Short
			}
			if reply := bashValueReply(f); reply != "" {
				cases = append(cases, fmt.Sprintf("            %s) %s; return ;;", pattern, reply))
			}
		}
		if len(cases) > 0 {
			fmt.Fprintln(w, `        case "$prev" in`)
			for _, line := range cases {
				fmt.Fprintln(w, line)
			}
			fmt.Fprintln(w, "        esac")
		}
		if len(all) > 0 {
			fmt.Fprintln(w, `        if [[ "$cur" == -* ]]; then`)
			fmt.Fprintf(w, "            COMPREPLY=( $(compgen -W %q -- \"$cur\") )\n", strings.Join(all, " "))
			fmt.Fprintln(w, "            return")
			fmt.Fprintln(w, "        fi")
		}
		switch {
		case len(c.Args) > 0:
			fmt.Fprintf(w, "        COMPREPLY=( $(compgen -W %q -- \"$cur\") )\n", strings.Join(c.Args, " "))
		case c.TakesFiles:
			fmt.Fprintf(w, "        COMPREPLY=( $(compgen -f -X '%s' -- \"$cur\") )\n", bashExclude(c.FilePattern))
		case c.TakesDir:
			fmt.Fprintln(w, `        COMPREPLY=( $(compgen -d -- "$cur") )`)
		}
		fmt.Fprintln(w, "        ;;")
	}

	fmt.Fprintln(w, "    esac")
	fmt.Fprintln(w, "}")
	fmt.Fprintln(w, "complete -o filenames -F _mdcommand mdcommand")
}

func bashValueReply(f flagDef) string {
	switch f.Type {
	case flagEnum:
		return fmt.Sprintf(`COMPREPLY=( $(compgen -W %q -- "$cur") )`, strings.Join(f.Values, " "))
	case flagFile:
		return fmt.Sprintf(`COMPREPLY=( $(compgen -f -X '%s' -- "$cur") )`, bashExclude(f.FileGlob))
	case flagDir:
		return `COMPREPLY=( $(compgen -d -- "$cur") )`
	}
	return ""
}

// bashExclude turns "*.md,*.txt" into the extglob filter "!*.@(md|txt)".
func bashExclude(glob string) string {
	return "!*.@(" + strings.Join(globExtensions(glob), "|") + ")"
}

// ---------------------------------------------------------------------------
// Zsh
// ---------------------------------------------------------------------------

func generateZsh(w io.Writer, cmds []commandDef) {
	fmt.Fprintln(w, "#compdef mdcommand")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "_mdcommand() {")
	fmt.Fprintln(w, "    local -a commands")
	fmt.Fprintln(w, "    commands=(")
	for _, c := range cmds {
		fmt.Fprintf(w, "        '%s:%s'\n", c.Name, zshEscape(c.Desc))
	}
	fmt.Fprintln(w, "    )")
	fmt.Fprintln(w, "    if (( CURRENT == 2 )); then")
	fmt.Fprintln(w, "        _describe 'command' commands")
	fmt.Fprintln(w, "        return")
	fmt.Fprintln(w, "    fi")
	fmt.Fprintln(w, "    case ${words[2]} in")

	for _, c := range cmds {
		fmt.Fprintf(w, "    %s)\n", c.Name)
		specs := make([]string, 0, len(c.Flags)+1)
		for _, f := range c.Flags {
			specs = append(specs, zshFlagSpec(f))
		}
		switch {
		case len(c.Args) > 0:
			specs = append(specs, fmt.Sprintf("'1:value:(%s)'", strings.Join(c.Args, " ")))
		case c.TakesFiles:
			specs = append(specs, fmt.Sprintf(`'*:file:_files -g "*.(%s)"'`, strings.Join(globExtensions(c.FilePattern), "|")))
		case c.TakesDir:
			specs = append(specs, "'1:directory:_files -/'")
		}
		if len(specs) > 0 {
			fmt.Fprintf(w, "        _arguments -s \\\n            %s\n", strings.Join(specs, " \\\n            "))
		}
		fmt.Fprintln(w, "        ;;")
	}

	fmt.Fprintln(w, "    esac")
	fmt.Fprintln(w, "}")
	fmt.Fprintln(w)
	fmt.Fprintln(w, `compdef _mdcommand mdcommand`)
}

func zshFlagSpec(f flagDef) string {
	desc := "[" + zshEscape(f.Desc) + "]"
	var action string
	switch f.Type {
	case flagBool:
		action = ""
	case flagEnum:
		action = fmt.Sprintf(":value:(%s)", strings.Join(f.Values, " "))
	case flagFile:
		action = fmt.Sprintf(`:file:_files -g "*.(%s)"`, strings.Join(globExtensions(f.FileGlob), "|"))
	case flagDir:
		action = ":directory:_files -/"
	default:
		action = ":value: "
	}

	if f.Short == "" {
		return "'--" + f.Long + desc + action + "'"
	}
	return fmt.Sprintf("'(-%s --%s)'{-%s,--%s}'%s%s'", f.Short, f.Long, f.Short, f.Long, desc, action)
}

func zshEscape(s string) string {
	r := strings.NewReplacer("'", `'\''`, "[", `\[`, "]", `\]`, ":", `\:`)
	return r.Replace(s)
}

// ---------------------------------------------------------------------------
// Fish
// ---------------------------------------------------------------------------

func generateFish(w io.Writer, cmds []commandDef) {
	fmt.Fprintln(w, "# fish completion for mdcommand")
	fmt.Fprintln(w, "complete -c mdcommand -f")

	for _, c := range cmds {
		fmt.Fprintf(w, "complete -c mdcommand -n '__fish_use_subcommand' -a %s -d '%s'\n", c.Name, fishEscape(c.Desc))
	}

	for _, c := range cmds {
		cond := fmt.Sprintf("-n '__fish_seen_subcommand_from %s'", c.Name)
		for _, f := range c.Flags {
			line := fmt.Sprintf("complete -c mdcommand %s -l %s", cond, f.Long)
			if f.Short != "" {
				line += " -s " + f.Short
			}
			line += fmt.Sprintf(" -d '%s'", fishEscape(f.Desc))
			switch f.Type {
			case flagBool:
			case flagEnum:
				line += fmt.Sprintf(" -x -a '%s'", strings.Join(f.Values, " "))
			case flagFile:
				line += " -r -F"
			case flagDir:
				line += " -x -a '(__fish_complete_directories)'"
			default:
				line += " -x"
			}
			fmt.Fprintln(w, line)
		}
		switch {
		case len(c.Args) > 0:
			fmt.Fprintf(w, "complete -c mdcommand %s -a '%s'\n", cond, strings.Join(c.Args, " "))
		case c.TakesFiles:
			fmt.Fprintf(w, "complete -c mdcommand %s -F\n", cond)
		case c.TakesDir:
			fmt.Fprintf(w, "complete -c mdcommand %s -a '(__fish_complete_directories)'\n", cond)
		}
	}
}

func fishEscape(s string) string {
	return strings.ReplaceAll(s, "'", `\'`)
}

// globExtensions turns "*.yaml,*.yml" into ["yaml", "yml"].
func globExtensions(glob string) []string {
	var exts []string
	for part := range strings.SplitSeq(glob, ",") {
		if ext := strings.TrimPrefix(strings.TrimSpace(part), "*."); ext != "" {
			exts = append(exts, ext)
		}
	}
	return exts
}

// printCompletionUsage prints help for the completion command.
func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdcommand completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate shell completion script for the specified shell.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Supported shells:")
	fmt.Fprintln(w, "  bash        Bash completion script")
	fmt.Fprintln(w, "  zsh         Zsh completion script")
	fmt.Fprintln(w, "  fish        Fish completion script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Installation:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Bash:")
	fmt.Fprintln(w, "    # Add to ~/.bashrc:")
	fmt.Fprintln(w, "    eval \"$(mdcommand completion bash)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Zsh:")
	fmt.Fprintln(w, "    # Add to ~/.zshrc (after compinit):")
	fmt.Fprintln(w, "    eval \"$(mdcommand completion zsh)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Fish:")
	fmt.Fprintln(w, "    mdcommand completion fish > ~/.config/fish/completions/mdcommand.fish")
}
