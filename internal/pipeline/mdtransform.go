package pipeline

import (
	"context"
	"regexp"
	"strings"
)

// Highlight placeholders use Unicode Private Use Area characters.
// They pass through Goldmark unchanged (no WithUnsafe needed) and are
// converted to <mark> tags after HTML generation.
const (
	MarkStartPlaceholder = "\uE000" // U+E000: Private Use Area start
	MarkEndPlaceholder   = "\uE001" // U+E001: Private Use Area end
)

// Precompiled regex patterns for performance.
var (
	// Line ending normalization
	crlfOrCR = regexp.MustCompile(`\r\n?`)

	// Compress multiple blank lines to max 2
	multipleBlankLines = regexp.MustCompile(`\n{3,}`)

	// Highlight syntax ==text==
	highlightPattern = regexp.MustCompile(`==(.*?)==`)

	// Fenced code block delimiter (backticks or tildes)
	fencedCodeBlock = regexp.MustCompile("^(```|~~~)")
)

// MarkdownPreprocessor prepares canonical Markdown for the renderer.
type MarkdownPreprocessor interface {
	PreprocessMarkdown(ctx context.Context, content string) string
}

// CommonMarkPreprocessor applies render-only fixes before CommonMark conversion.
// It never changes the text returned to callers as the transformation result.
type CommonMarkPreprocessor struct{}

// PreprocessMarkdown normalizes line endings, converts ==highlight== syntax
// and compresses runs of blank lines.
func (p *CommonMarkPreprocessor) PreprocessMarkdown(ctx context.Context, content string) string {
	if ctx.Err() != nil {
		return content
	}

	content = NormalizeLineEndings(content)
	content = convertHighlights(content)
	content = compressBlankLines(content)
	return content
}

// NormalizeLineEndings converts \r\n and \r to \n.
func NormalizeLineEndings(content string) string {
	return crlfOrCR.ReplaceAllString(content, "\n")
}

// compressBlankLines limits consecutive blank lines to 2 maximum.
func compressBlankLines(content string) string {
	return multipleBlankLines.ReplaceAllString(content, "\n\n")
}

// convertHighlights transforms ==text== to placeholder markers, skipping
// fenced code blocks.
func convertHighlights(content string) string {
	lines := strings.Split(content, "\n")
	inCodeBlock := false
	for i, line := range lines {
		if fencedCodeBlock.MatchString(strings.TrimSpace(line)) {
			inCodeBlock = !inCodeBlock
			continue
		}
		if inCodeBlock {
			continue
		}
		lines[i] = highlightPattern.ReplaceAllString(line, MarkStartPlaceholder+"$1"+MarkEndPlaceholder)
	}
	return strings.Join(lines, "\n")
}

// ConvertMarkPlaceholders converts placeholder markers to <mark> tags.
// Called after Goldmark HTML conversion to finalize highlight markup.
func ConvertMarkPlaceholders(content string) string {
	return strings.ReplaceAll(
		strings.ReplaceAll(content, MarkStartPlaceholder, "<mark>"),
		MarkEndPlaceholder, "</mark>",
	)
}

// IsolateRules inserts a blank line before every horizontal rule produced
// by a command when the line above it is text. Without it CommonMark reads
// "text\n---" as a setext heading. Only lines named in log are touched, so
// setext headings typed by the user survive.
func IsolateRules(content string, log []LogEntry) string {
	targets := make(map[int]bool)
	for _, e := range log {
		if e.Transformed == "---" && e.LineNumber > 1 {
			targets[e.LineNumber-1] = true
		}
	}
	if len(targets) == 0 {
		return content
	}

	lines := strings.Split(content, "\n")
	result := make([]string, 0, len(lines)+len(targets))
	for i, line := range lines {
		if targets[i] && i > 0 && !isBlankLine(lines[i-1]) {
			result = append(result, "")
		}
		result = append(result, line)
	}
	return strings.Join(result, "\n")
}
