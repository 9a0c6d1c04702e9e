package mdcommand

import (
	"fmt"
	"strings"
	"time"

	"github.com/alnah/go-mdcommand/internal/pipeline"
)

// Mode selects whether command lines are rewritten.
type Mode int

const (
	// ModeCommands rewrites command lines into canonical Markdown.
	ModeCommands Mode = iota
	// ModePassthrough hands the buffer to the renderer unchanged.
	ModePassthrough
)

// String returns the canonical mode name.
func (m Mode) String() string {
	switch m {
	case ModeCommands:
		return "commands"
	case ModePassthrough:
		return "passthrough"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m == ModeCommands || m == ModePassthrough
}

// ParseMode parses a mode name (case-insensitive). "on" and "off" are
// accepted as aliases, and an empty string means ModeCommands.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "commands", "on":
		return ModeCommands, nil
	case "passthrough", "off":
		return ModePassthrough, nil
	default:
		return 0, fmt.Errorf("%w: %q (must be commands or off)", ErrInvalidMode, s)
	}
}

// Format is an output format.
type Format string

// Output formats.
const (
	FormatMarkdown Format = "md"
	FormatHTML     Format = "html"
	FormatPDF      Format = "pdf"
)

// ParseFormat parses an output format name (case-insensitive).
// "markdown" is accepted for "md".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "md", "markdown":
		return FormatMarkdown, nil
	case "html":
		return FormatHTML, nil
	case "pdf":
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("%w: %q (must be md, html, or pdf)", ErrInvalidFormat, s)
	}
}

// Ext returns the file extension for the format, without the dot.
func (f Format) Ext() string {
	return string(f)
}

// LogEntry records one line rewritten by a command.
type LogEntry = pipeline.LogEntry

// Rule is a command rule. Build custom rules with NewRule.
type Rule = pipeline.Rule

// NewRule builds a line rule from a regular expression matched against the
// whole line (case-insensitive) and a replacement template using $1 or
// ${name} references. An empty description becomes "Custom conversion".
func NewRule(pattern, replace, description string) (Rule, error) {
	return pipeline.NewTemplateRule(pattern, replace, description)
}

// DefaultRules returns the built-in rules, line rules first.
func DefaultRules() []Rule {
	return pipeline.NewTransformer().Rules()
}

// Page size constants.
const (
	PageSizeLetter = "letter"
	PageSizeA4     = "a4"
	PageSizeLegal  = "legal"
)

// Orientation constants.
const (
	OrientationPortrait  = "portrait"
	OrientationLandscape = "landscape"
)

// Margin bounds in inches.
const (
	MinMargin     = 0.25
	MaxMargin     = 3.0
	DefaultMargin = 0.5
)

// PageSettings configures PDF page dimensions.
type PageSettings struct {
	Size        string  // "letter", "a4", "legal"
	Orientation string  // "portrait", "landscape"
	Margin      float64 // inches, applied to all sides
}

// DefaultPageSettings returns page settings with default values.
func DefaultPageSettings() *PageSettings {
	return &PageSettings{
		Size:        PageSizeLetter,
		Orientation: OrientationPortrait,
		Margin:      DefaultMargin,
	}
}

// Validate checks that page settings are valid.
// Returns nil if p is nil (nil means use defaults).
func (p *PageSettings) Validate() error {
	if p == nil {
		return nil
	}

	if !isValidPageSize(p.Size) {
		return fmt.Errorf("%w: %q", ErrInvalidPageSize, p.Size)
	}

	if !isValidOrientation(p.Orientation) {
		return fmt.Errorf("%w: %q", ErrInvalidOrientation, p.Orientation)
	}

	if p.Margin < MinMargin || p.Margin > MaxMargin {
		return fmt.Errorf("%w: %.2f (must be between %.2f and %.2f)", ErrInvalidMargin, p.Margin, MinMargin, MaxMargin)
	}

	return nil
}

func isValidPageSize(size string) bool {
	switch strings.ToLower(size) {
	case PageSizeLetter, PageSizeA4, PageSizeLegal:
		return true
	}
	return false
}

func isValidOrientation(orientation string) bool {
	switch strings.ToLower(orientation) {
	case OrientationPortrait, OrientationLandscape:
		return true
	}
	return false
}

// Input contains conversion parameters.
type Input struct {
	Markdown  string        // Command text or Markdown (may be empty)
	Mode      Mode          // ModeCommands (zero value) or ModePassthrough
	CSS       string        // Extra CSS appended after the converter style
	Title     string        // Document title; defaults to the first h1
	SourceDir string        // Resolves relative image and link paths
	HTMLOnly  bool          // Skip PDF rendering
	Page      *PageSettings // PDF page settings (nil = defaults)
}

// ConvertResult holds every stage of a conversion. Markdown and Log are set
// even when rendering fails.
type ConvertResult struct {
	Markdown string
	Log      []LogEntry
	HTML     []byte
	PDF      []byte
}

// Option configures a Converter.
type Option func(*Converter)

type converterConfig struct {
	timeout        time.Duration
	styleInput     string
	resolvedStyle  string
	assetPath      string
	highlightStyle string
	rules          []Rule
}

// defaultTimeout is used when no timeout is specified.
const defaultTimeout = 30 * time.Second

// WithTimeout sets the PDF rendering timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("mdcommand: WithTimeout duration must be positive")
	}
	return func(c *Converter) {
		c.cfg.timeout = d
	}
}

// WithStyle sets the document CSS: a style name ("default", "minimal"),
// a path to a CSS file, or literal CSS.
func WithStyle(style string) Option {
	return func(c *Converter) {
		c.cfg.styleInput = style
	}
}

// WithAssetPath loads styles from dir/styles before the embedded ones.
func WithAssetPath(dir string) Option {
	return func(c *Converter) {
		c.cfg.assetPath = dir
	}
}

// WithHighlightStyle selects the chroma style for code blocks.
func WithHighlightStyle(name string) Option {
	return func(c *Converter) {
		c.cfg.highlightStyle = name
	}
}

// WithRules appends custom rules after the built-in ones.
func WithRules(rules ...Rule) Option {
	return func(c *Converter) {
		c.cfg.rules = append(c.cfg.rules, rules...)
	}
}
