package mdcommand

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/alnah/go-mdcommand/internal/assets"
	"github.com/alnah/go-mdcommand/internal/fileutil"
	"github.com/alnah/go-mdcommand/internal/pipeline"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.CommandTransformer   = (*pipeline.Transformer)(nil)
	_ pipeline.MarkdownPreprocessor = (*pipeline.CommonMarkPreprocessor)(nil)
	_ pipeline.HTMLConverter        = (*pipeline.GoldmarkConverter)(nil)
	_ pipeline.CSSInjector          = (*pipeline.CSSInjection)(nil)
	_ pdfConverter                  = (*rodConverter)(nil)
	_ pdfRenderer                   = (*rodRenderer)(nil)
)

// Converter runs the command-to-document pipeline.
// Create with NewConverter, and Close when done to release the browser.
// Transform is safe for concurrent use; Convert is not when PDF output is
// requested, because the browser is shared.
type Converter struct {
	cfg           converterConfig
	assetLoader   assets.AssetLoader
	transformer   *pipeline.Transformer
	preprocessor  pipeline.MarkdownPreprocessor
	htmlConverter pipeline.HTMLConverter
	cssInjector   pipeline.CSSInjector
	pdfConverter  pdfConverter
	highlightCSS  string
}

// NewConverter creates a Converter with the built-in rules and the default
// style. Returns an error if the asset path or style cannot be loaded.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg:           converterConfig{timeout: defaultTimeout},
		assetLoader:   assets.NewEmbeddedLoader(),
		preprocessor:  &pipeline.CommonMarkPreprocessor{},
		htmlConverter: pipeline.NewGoldmarkConverter(),
		cssInjector:   &pipeline.CSSInjection{},
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.cfg.assetPath != "" {
		resolver, err := assets.NewAssetResolver(c.cfg.assetPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
		}
		c.assetLoader = resolver
	}

	if err := c.resolveStyle(); err != nil {
		return nil, err
	}

	hl, err := pipeline.HighlightCSS(c.cfg.highlightStyle)
	if err != nil {
		return nil, err
	}
	c.highlightCSS = hl

	c.transformer = pipeline.NewTransformer(c.cfg.rules...)

	if c.pdfConverter == nil {
		c.pdfConverter = newRodConverter(c.cfg.timeout)
	}

	return c, nil
}

// Transform rewrites command lines in buffer and returns the canonical
// Markdown with one log entry per rewritten line. In ModePassthrough the
// buffer is returned unchanged with an empty log.
func (c *Converter) Transform(buffer string, mode Mode) (string, []LogEntry) {
	if mode == ModePassthrough {
		return buffer, nil
	}
	return c.transformer.Transform(buffer)
}

// Rules returns the active rules in the order they are tried, line rules
// first.
func (c *Converter) Rules() []Rule {
	return c.transformer.Rules()
}

// Convert transforms input.Markdown and renders it to HTML and, unless
// input.HTMLOnly is set, PDF. When rendering fails the returned result still
// carries the canonical Markdown and log alongside the error.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (c *Converter) Convert(ctx context.Context, input Input) (result *ConvertResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	if err := validateInput(input); err != nil {
		return nil, err
	}

	md, log := c.Transform(pipeline.NormalizeLineEndings(input.Markdown), input.Mode)
	res := &ConvertResult{Markdown: md, Log: log}

	// A rule produced by a command must not turn the line above into a
	// setext heading.
	mdContent := c.preprocessor.PreprocessMarkdown(ctx, pipeline.IsolateRules(md, log))
	if ctx.Err() != nil {
		return res, ctx.Err()
	}

	title := input.Title
	if title == "" {
		title = firstHeading(md)
	}

	htmlContent, err := c.htmlConverter.ToHTML(ctx, mdContent, title)
	if err != nil {
		return res, fmt.Errorf("converting to HTML: %w", err)
	}

	if input.SourceDir != "" {
		resolve, err := pipeline.FileURLResolver(input.SourceDir)
		if err != nil {
			return res, fmt.Errorf("resolving source directory: %w", err)
		}
		htmlContent, err = pipeline.RewriteRelativePaths(htmlContent, resolve)
		if err != nil {
			return res, fmt.Errorf("rewriting relative paths: %w", err)
		}
	}

	// Completes the ==text== feature started in preprocessing.
	htmlContent = pipeline.ConvertMarkPlaceholders(htmlContent)

	// Order matters: base style, then code highlighting, then user CSS.
	cssContent := c.cfg.resolvedStyle + "\n" + c.highlightCSS
	if input.CSS != "" {
		cssContent += "\n" + input.CSS
	}
	htmlContent = c.cssInjector.InjectCSS(ctx, htmlContent, cssContent)
	if ctx.Err() != nil {
		return res, ctx.Err()
	}

	res.HTML = []byte(htmlContent)
	if input.HTMLOnly {
		return res, nil
	}

	pdfBytes, err := c.pdfConverter.ToPDF(ctx, htmlContent, &pdfOptions{Page: input.Page})
	if err != nil {
		return res, fmt.Errorf("converting to PDF: %w", err)
	}

	res.PDF = pdfBytes
	return res, nil
}

// Close releases resources (headless Chrome browser).
func (c *Converter) Close() error {
	if c.pdfConverter != nil {
		return c.pdfConverter.Close()
	}
	return nil
}

// resolveStyle resolves the style input (name, path, or CSS content) to CSS
// content. An empty input selects the default style.
func (c *Converter) resolveStyle() error {
	input := c.cfg.styleInput
	if input == "" {
		input = assets.DefaultStyleName
	}

	if fileutil.IsFilePath(input) {
		content, err := os.ReadFile(input) // #nosec G304 -- user-provided path
		if err != nil {
			return fmt.Errorf("loading style file %q: %w", input, err)
		}
		c.cfg.resolvedStyle = string(content)
		return nil
	}

	if fileutil.IsCSS(input) {
		c.cfg.resolvedStyle = input
		return nil
	}

	css, err := c.assetLoader.LoadStyle(input)
	if err != nil {
		return fmt.Errorf("loading style %q: %w", input, err)
	}
	c.cfg.resolvedStyle = css
	return nil
}

// validateInput is the trust boundary for library users who build Input by
// hand. CLI input is validated earlier by config.Validate.
func validateInput(input Input) error {
	if !input.Mode.Valid() {
		return fmt.Errorf("%w: %v", ErrInvalidMode, input.Mode)
	}
	return input.Page.Validate()
}

// firstHeading returns the text of the first level-one ATX heading.
func firstHeading(md string) string {
	for line := range strings.SplitSeq(md, "\n") {
		if rest, ok := strings.CutPrefix(strings.TrimSpace(line), "# "); ok {
			return strings.TrimSpace(rest)
		}
	}
	return ""
}
