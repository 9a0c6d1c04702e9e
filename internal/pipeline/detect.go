package pipeline

import (
	"regexp"
	"strings"
)

// Canonical Markdown recognizers. Each is anchored at the start of a
// trimmed line; any match means the line is left alone by the transformer.
var canonicalPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^#{1,6}\s`),     // heading
	regexp.MustCompile(`^\*\*.*\*\*`),   // bold
	regexp.MustCompile(`^\*.*\*`),       // italic
	regexp.MustCompile(`^>\s`),          // block quote
	regexp.MustCompile(`^\[.*\]\(.*\)`), // link
	regexp.MustCompile(`^-{3,}$`),       // horizontal rule
	regexp.MustCompile("^`.*`"),         // inline code
	regexp.MustCompile("^```"),          // fenced code
	regexp.MustCompile(`^[-*+]\s`),      // unordered list item
	regexp.MustCompile(`^[0-9]+\.\s`),   // ordered list item
	regexp.MustCompile(`^~~.*~~`),       // strikethrough
}

// IsCanonical reports whether line already uses canonical Markdown syntax
// that a renderer would interpret without help.
func IsCanonical(line string) bool {
	trimmed := strings.TrimSpace(line)
	for _, p := range canonicalPatterns {
		if p.MatchString(trimmed) {
			return true
		}
	}
	return false
}

// isBlankLine returns true if the line is empty or contains only whitespace.
func isBlankLine(line string) bool {
	return strings.TrimSpace(line) == ""
}
