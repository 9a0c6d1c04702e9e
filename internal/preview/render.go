package preview

import (
	"context"
	"fmt"
	"strings"

	"github.com/alnah/go-mdcommand/internal/pipeline"
)

// Result is the outcome of converting one buffer.
type Result struct {
	Markdown string              `json:"markdown"`
	HTML     string              `json:"html"`
	Log      []pipeline.LogEntry `json:"log"`
}

// renderer chains the pipeline stages used by the preview.
type renderer struct {
	transformer  pipeline.CommandTransformer
	preprocessor pipeline.MarkdownPreprocessor
	converter    pipeline.HTMLConverter
}

// prepare runs the command transformer (when commands is set) and the
// Markdown preprocessor. The returned Result has no HTML yet.
func (r *renderer) prepare(ctx context.Context, text string, commands bool) (Result, string) {
	text = pipeline.NormalizeLineEndings(text)
	res := Result{Markdown: text, Log: []pipeline.LogEntry{}}
	if commands {
		md, log := r.transformer.Transform(text)
		res.Markdown = md
		if log != nil {
			res.Log = log
		}
	}
	prepared := r.preprocessor.PreprocessMarkdown(ctx, pipeline.IsolateRules(res.Markdown, res.Log))
	return res, prepared
}

// fragment converts text to an HTML fragment for the editor pane.
// On failure the Result still carries the canonical Markdown and log.
func (r *renderer) fragment(ctx context.Context, text string, commands bool, resolve pipeline.PathResolver) (Result, error) {
	res, prepared := r.prepare(ctx, text, commands)

	body, err := r.converter.ToFragment(ctx, prepared)
	if err != nil {
		return res, err
	}
	body, err = pipeline.RewriteRelativePaths(pipeline.ConvertMarkPlaceholders(body), resolve)
	if err != nil {
		return res, fmt.Errorf("rewriting paths: %w", err)
	}
	res.HTML = body
	return res, nil
}

// page converts text to a standalone document with css and script injected.
// The title is the first level-one heading of the converted Markdown, or
// fallback.
func (r *renderer) page(ctx context.Context, text, fallback, css, script string, commands bool, resolve pipeline.PathResolver) (string, error) {
	res, prepared := r.prepare(ctx, text, commands)

	doc, err := r.converter.ToHTML(ctx, prepared, titleFrom(res.Markdown, fallback))
	if err != nil {
		return "", err
	}
	doc, err = pipeline.RewriteRelativePaths(pipeline.ConvertMarkPlaceholders(doc), resolve)
	if err != nil {
		return "", fmt.Errorf("rewriting paths: %w", err)
	}
	doc = (&pipeline.CSSInjection{}).InjectCSS(ctx, doc, css)
	return pipeline.InjectScript(doc, script), nil
}

// parseMode maps a client mode string to the commands flag.
// An empty mode keeps def.
func parseMode(mode string, def bool) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "":
		return def, nil
	case "commands", "on":
		return true, nil
	case "passthrough", "off":
		return false, nil
	default:
		return false, fmt.Errorf("%w: %q (want commands or off)", ErrInvalidMode, mode)
	}
}

// titleFrom returns the text of the first level-one heading, or fallback.
func titleFrom(markdown, fallback string) string {
	for line := range strings.SplitSeq(markdown, "\n") {
		if rest, ok := strings.CutPrefix(strings.TrimSpace(line), "# "); ok {
			return strings.TrimSpace(rest)
		}
	}
	return fallback
}
