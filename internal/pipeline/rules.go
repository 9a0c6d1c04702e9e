package pipeline

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrInvalidRule indicates a user-defined rule could not be compiled.
var ErrInvalidRule = errors.New("invalid rule")

// Scope tells the transformer how a rule consumes text.
type Scope int

const (
	// ScopeLine rules match a whole physical line and replace it.
	ScopeLine Scope = iota
	// ScopeInline rules match substrings anywhere, any number of times.
	ScopeInline
)

// String returns the scope name used in listings.
func (s Scope) String() string {
	switch s {
	case ScopeLine:
		return "line"
	case ScopeInline:
		return "inline"
	default:
		return "scope(" + strconv.Itoa(int(s)) + ")"
	}
}

// Rule pairs a trigger pattern with a pure rewrite function.
// Rewrite receives the submatches of Pattern, index 0 being the whole match.
type Rule struct {
	Pattern     *regexp.Regexp
	Rewrite     func(groups []string) string
	Description string
	Scope       Scope
	Example     string // a line the rule accepts, shown by listings
}

// Apply rewrites s with the rule if it matches.
// For line rules s is a single line; inline rules replace every occurrence.
func (r Rule) Apply(s string) (string, bool) {
	if r.Scope == ScopeInline {
		out := replaceAllSubmatchFunc(r.Pattern, s, r.Rewrite)
		return out, out != s
	}
	groups := r.Pattern.FindStringSubmatch(s)
	if groups == nil {
		return s, false
	}
	return r.Rewrite(groups), true
}

// Command trigger patterns. Line rules are anchored at both ends of the
// untrimmed line; the payload group is trimmed before reuse.
var (
	headingCommand  = regexp.MustCompile(`(?i)^heading\s*([1-6])\s*:(.*)$`)
	boldCommand     = regexp.MustCompile(`(?i)^bold\s+this\s*:(.*)$`)
	italicCommand   = regexp.MustCompile(`(?i)^italic\s+this\s*:(.*)$`)
	quoteCommand    = regexp.MustCompile(`(?i)^quote\s+this\s*:(.*)$`)
	linkCommand     = regexp.MustCompile(`(?i)^link\s+this\s*:(.*)\|(.*)$`)
	bareLinkCommand = regexp.MustCompile(`(?i)^link\s+this\s*:\s*(https?://\S+)\s*$`)
	ruleCommand     = regexp.MustCompile(`(?i)^(?:break\s+line|new\s+line|horizontal\s+rule|line\s+break)\s*$`)
	codeCommand     = regexp.MustCompile(`(?i)^code\s+this\s*:(.*)$`)
	listCommand     = regexp.MustCompile(`(?i)^list\s+item\s*:(.*)$`)
	numberCommand   = regexp.MustCompile(`(?i)^number\s+item\s*:(.*)$`)
	strikeCommand   = regexp.MustCompile(`(?i)^strike\s+this\s*:(.*)$`)

	// Inline payloads stop at the next comma or end of line.
	inlineBoldCommand   = regexp.MustCompile(`(?i)make\s+bold\s*:([^,\n]*)`)
	inlineItalicCommand = regexp.MustCompile(`(?i)make\s+italic\s*:([^,\n]*)`)
)

// DefaultLineRules returns the built-in line commands in priority order.
// The first rule that matches a line wins.
func DefaultLineRules() []Rule {
	return []Rule{
		{
			Pattern: headingCommand,
			Rewrite: func(g []string) string {
				level, _ := strconv.Atoi(g[1])
				return strings.Repeat("#", level) + " " + payload(g[2])
			},
			Description: "Heading conversion",
			Example:     "heading 2: Section title",
		},
		{
			Pattern:     boldCommand,
			Rewrite:     wrap("**", "**"),
			Description: "Bold conversion",
			Example:     "bold this: Welcome",
		},
		{
			Pattern:     italicCommand,
			Rewrite:     wrap("*", "*"),
			Description: "Italic conversion",
			Example:     "italic this: gently",
		},
		{
			Pattern:     quoteCommand,
			Rewrite:     wrap("> ", ""),
			Description: "Quote conversion",
			Example:     "quote this: To be or not to be",
		},
		{
			Pattern: linkCommand,
			Rewrite: func(g []string) string {
				return "[" + payload(g[1]) + "](" + payload(g[2]) + ")"
			},
			Description: "Link conversion",
			Example:     "link this: Visit Site | https://example.com",
		},
		{
			Pattern: bareLinkCommand,
			Rewrite: func(g []string) string {
				return "[" + g[1] + "](" + g[1] + ")"
			},
			Description: "Bare link conversion",
			Example:     "link this: https://example.com",
		},
		{
			Pattern:     ruleCommand,
			Rewrite:     func([]string) string { return "---" },
			Description: "Horizontal rule conversion",
			Example:     "break line",
		},
		{
			Pattern:     codeCommand,
			Rewrite:     wrap("`", "`"),
			Description: "Code conversion",
			Example:     "code this: go test ./...",
		},
		{
			Pattern:     listCommand,
			Rewrite:     wrap("- ", ""),
			Description: "List item conversion",
			Example:     "list item: milk",
		},
		{
			Pattern:     numberCommand,
			Rewrite:     wrap("1. ", ""),
			Description: "Numbered item conversion",
			Example:     "number item: first step",
		},
		{
			Pattern:     strikeCommand,
			Rewrite:     wrap("~~", "~~"),
			Description: "Strikethrough conversion",
			Example:     "strike this: obsolete",
		},
	}
}

// DefaultInlineRules returns the built-in inline commands.
func DefaultInlineRules() []Rule {
	return []Rule{
		{
			Pattern:     inlineBoldCommand,
			Rewrite:     wrap("**", "**"),
			Description: "Inline bold conversion",
			Scope:       ScopeInline,
			Example:     "this is make bold: urgent, really",
		},
		{
			Pattern:     inlineItalicCommand,
			Rewrite:     wrap("*", "*"),
			Description: "Inline italic conversion",
			Scope:       ScopeInline,
			Example:     "a make italic: side note",
		},
	}
}

// NewTemplateRule builds a line rule from a user-supplied pattern and
// replacement template. The pattern is matched case-insensitively against
// the whole line; the template may reference submatches as $1 or ${name}.
func NewTemplateRule(pattern, replace, description string) (Rule, error) {
	if strings.TrimSpace(pattern) == "" {
		return Rule{}, fmt.Errorf("%w: empty pattern", ErrInvalidRule)
	}
	re, err := regexp.Compile(`(?i)^(?:` + pattern + `)$`)
	if err != nil {
		return Rule{}, fmt.Errorf("%w: %q: %v", ErrInvalidRule, pattern, err)
	}
	if description == "" {
		description = "Custom conversion"
	}
	return Rule{
		Pattern: re,
		Rewrite: func(g []string) string {
			return re.ReplaceAllString(g[0], replace)
		},
		Description: description,
		Scope:       ScopeLine,
	}, nil
}

// payload trims the captured command argument.
func payload(s string) string {
	return strings.TrimSpace(s)
}

// wrap returns a rewrite that surrounds the trimmed first group.
func wrap(prefix, suffix string) func([]string) string {
	return func(g []string) string {
		return prefix + payload(g[1]) + suffix
	}
}

// replaceAllSubmatchFunc is ReplaceAllStringFunc with access to submatches.
func replaceAllSubmatchFunc(re *regexp.Regexp, s string, fn func([]string) string) string {
	matches := re.FindAllStringSubmatchIndex(s, -1)
	if matches == nil {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	last := 0
	for _, m := range matches {
		groups := make([]string, len(m)/2)
		for i := range groups {
			if m[2*i] >= 0 {
				groups[i] = s[m[2*i]:m[2*i+1]]
			}
		}
		b.WriteString(s[last:m[0]])
		b.WriteString(fn(groups))
		last = m[1]
	}
	b.WriteString(s[last:])
	return b.String()
}
