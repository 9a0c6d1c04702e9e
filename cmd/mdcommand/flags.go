package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// pageFlags holds PDF page layout flags.
type pageFlags struct {
	size        string
	orientation string
	margin      float64
}

// assetFlags holds style and asset directory flags.
type assetFlags struct {
	style     string // name, CSS file path or inline CSS
	assetPath string // override asset directory
}

// convertFlags holds all flags for the convert command.
type convertFlags struct {
	common  commonFlags
	output  string
	workers int
	timeout string
	format  string
	mode    string
	title   string
	log     bool
	page    pageFlags
	assets  assetFlags
}

// showFlags holds flags for the show command.
type showFlags struct {
	common commonFlags
	mode   string
	raw    bool
	copy   bool
	log    bool
	width  int
	theme  string
}

// serveFlags holds flags for the serve command.
type serveFlags struct {
	common   commonFlags
	host     string
	port     int
	portSet  bool // --port given, even as 0
	watch    string
	mode     string
	title    string
	debounce int // milliseconds
	assets   assetFlags
}

// rulesFlags holds flags for the rules command.
type rulesFlags struct {
	common commonFlags
}

// doctorFlags holds flags for the doctor command.
type doctorFlags struct {
	common commonFlags
	json   bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed output")
}

// addModeFlag adds --mode to a FlagSet.
func addModeFlag(fs *flag.FlagSet, mode *string) {
	fs.StringVar(mode, "mode", "", "command mode: commands, off")
}

// addPageFlags adds PDF page flags to a FlagSet.
func addPageFlags(fs *flag.FlagSet, f *pageFlags) {
	fs.StringVarP(&f.size, "page-size", "p", "", "page size: letter, a4, legal")
	fs.StringVar(&f.orientation, "orientation", "", "orientation: portrait, landscape")
	fs.Float64Var(&f.margin, "margin", 0, "margin in inches (0.25-3.0)")
}

// addAssetFlags adds style flags to a FlagSet.
func addAssetFlags(fs *flag.FlagSet, f *assetFlags) {
	fs.StringVar(&f.style, "style", "", "CSS style name or file path")
	fs.StringVar(&f.assetPath, "asset-path", "", "directory with custom styles")
}

// newFlagSet creates a silent FlagSet. Errors and usage are reported by
// the caller so that output goes to the Environment writers.
func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	fs.SortFlags = false
	return fs
}

func newConvertFlagSet() (*flag.FlagSet, *convertFlags) {
	fs := newFlagSet("convert")
	f := &convertFlags{}

	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.StringVarP(&f.format, "to", "t", "", "output format: md, html, pdf")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.StringVar(&f.timeout, "timeout", "", "PDF export timeout (e.g. 30s, 2m)")
	fs.StringVar(&f.title, "title", "", "document title (default: first heading)")
	fs.BoolVar(&f.log, "log", false, "print the conversion log")
	addModeFlag(fs, &f.mode)
	addCommonFlags(fs, &f.common)
	addPageFlags(fs, &f.page)
	addAssetFlags(fs, &f.assets)

	return fs, f
}

func newShowFlagSet() (*flag.FlagSet, *showFlags) {
	fs := newFlagSet("show")
	f := &showFlags{}

	fs.BoolVar(&f.raw, "raw", false, "print canonical Markdown instead of rendering")
	fs.BoolVar(&f.copy, "copy", false, "copy canonical Markdown to the clipboard")
	fs.BoolVar(&f.log, "log", false, "print the conversion log")
	fs.IntVar(&f.width, "width", defaultShowWidth, "word wrap width")
	fs.StringVar(&f.theme, "theme", "", "terminal theme: dark, light, notty, auto")
	addModeFlag(fs, &f.mode)
	addCommonFlags(fs, &f.common)

	return fs, f
}

func newServeFlagSet() (*flag.FlagSet, *serveFlags) {
	fs := newFlagSet("serve")
	f := &serveFlags{}

	fs.StringVar(&f.host, "host", "", "listen host (default 127.0.0.1)")
	fs.IntVar(&f.port, "port", 0, "listen port (default 7331)")
	fs.StringVar(&f.watch, "watch", "", "Markdown file pushed to the editor on save")
	fs.StringVar(&f.title, "title", "", "editor page title")
	fs.IntVar(&f.debounce, "debounce", 0, "editor debounce in milliseconds")
	addModeFlag(fs, &f.mode)
	addCommonFlags(fs, &f.common)
	addAssetFlags(fs, &f.assets)

	return fs, f
}

func newRulesFlagSet() (*flag.FlagSet, *rulesFlags) {
	fs := newFlagSet("rules")
	f := &rulesFlags{}
	addCommonFlags(fs, &f.common)
	return fs, f
}

func newDoctorFlagSet() (*flag.FlagSet, *doctorFlags) {
	fs := newFlagSet("doctor")
	f := &doctorFlags{}
	fs.BoolVar(&f.json, "json", false, "print results as JSON")
	addCommonFlags(fs, &f.common)
	return fs, f
}

// parseFlagSet parses args and maps pflag errors onto ErrUsage.
// --help returns errHelp after the caller's usage has been printed.
func parseFlagSet(fs *flag.FlagSet, args []string, usage func()) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			usage()
			return errHelp
		}
		return fmt.Errorf("%w: %s: %v", ErrUsage, fs.Name(), err)
	}
	return nil
}

func parseConvertFlags(args []string, w io.Writer) (*convertFlags, []string, error) {
	fs, f := newConvertFlagSet()
	if err := parseFlagSet(fs, args, func() { printConvertUsage(w) }); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

func parseShowFlags(args []string, w io.Writer) (*showFlags, []string, error) {
	fs, f := newShowFlagSet()
	if err := parseFlagSet(fs, args, func() { printShowUsage(w) }); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

func parseServeFlags(args []string, w io.Writer) (*serveFlags, []string, error) {
	fs, f := newServeFlagSet()
	if err := parseFlagSet(fs, args, func() { printServeUsage(w) }); err != nil {
		return nil, nil, err
	}
	f.portSet = fs.Changed("port")
	return f, fs.Args(), nil
}

func parseRulesFlags(args []string, w io.Writer) (*rulesFlags, error) {
	fs, f := newRulesFlagSet()
	if err := parseFlagSet(fs, args, func() { printRulesUsage(w) }); err != nil {
		return nil, err
	}
	return f, nil
}

func parseDoctorFlags(args []string, w io.Writer) (*doctorFlags, error) {
	fs, f := newDoctorFlagSet()
	if err := parseFlagSet(fs, args, func() { printDoctorUsage(w) }); err != nil {
		return nil, err
	}
	return f, nil
}
