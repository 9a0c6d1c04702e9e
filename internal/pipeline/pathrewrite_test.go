package pipeline

// Notes:
// - RewriteRelativePaths is exercised through both resolvers it ships with
// - Error branches of parseHTML/renderHTML are not covered: the html package
//   does not fail on the inputs goldmark produces
// - Traversal tests assert the observable behavior (reference left as typed)

import (
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func testSourceDir() string {
	if runtime.GOOS == "windows" {
		return `C:\docs`
	}
	return "/docs"
}

// ---------------------------------------------------------------------------
// TestRewriteRelativePaths - File URL Resolver
// ---------------------------------------------------------------------------

func TestRewriteRelativePaths_FileURL(t *testing.T) {
	t.Parallel()

	resolve, err := FileURLResolver(testSourceDir())
	if err != nil {
		t.Fatalf("FileURLResolver() error = %v", err)
	}

	tests := []struct {
		name         string
		html         string
		wantContains []string
		wantExcludes []string
	}{
		{
			name:         "relative image with dot slash",
			html:         `<img src="./images/logo.png">`,
			wantContains: []string{`src="file://`, `images/logo.png"`},
		},
		{
			name:         "relative image without dot slash",
			html:         `<img src="images/logo.png">`,
			wantContains: []string{`src="file://`},
		},
		{
			name:         "absolute path unchanged",
			html:         `<img src="/abs/logo.png">`,
			wantContains: []string{`src="/abs/logo.png"`},
		},
		{
			name:         "http URL unchanged",
			html:         `<img src="https://example.com/logo.png">`,
			wantContains: []string{`src="https://example.com/logo.png"`},
		},
		{
			name:         "data URI unchanged",
			html:         `<img src="data:image/png;base64,ABC123">`,
			wantContains: []string{`src="data:image/png;base64,ABC123"`},
		},
		{
			name:         "mailto link unchanged",
			html:         `<a href="mailto:me@example.com">Mail</a>`,
			wantContains: []string{`href="mailto:me@example.com"`},
		},
		{
			name:         "anchor link unchanged",
			html:         `<a href="#section">Link</a>`,
			wantContains: []string{`href="#section"`},
		},
		{
			name:         "relative link rewritten",
			html:         `<a href="./other.md">Link</a>`,
			wantContains: []string{`href="file://`},
		},
		{
			name:         "protocol-relative URL unchanged",
			html:         `<img src="//cdn.example.com/logo.png">`,
			wantContains: []string{`src="//cdn.example.com/logo.png"`},
		},
		{
			name:         "script src not rewritten",
			html:         `<script src="./script.js"></script>`,
			wantContains: []string{`src="./script.js"`},
		},
		{
			name:         "nested elements rewritten",
			html:         `<div><p><img src="./nested.png"></p></div>`,
			wantContains: []string{`src="file://`},
			wantExcludes: []string{"<html>", "<body>"},
		},
		{
			name:         "parent directory traversal left alone",
			html:         `<img src="../../../etc/passwd">`,
			wantContains: []string{`src="../../../etc/passwd"`},
		},
		{
			name:         "double dot in middle left alone",
			html:         `<img src="images/../../../etc/passwd">`,
			wantContains: []string{`src="images/../../../etc/passwd"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := RewriteRelativePaths(tt.html, resolve)
			if err != nil {
				t.Fatalf("RewriteRelativePaths() error = %v", err)
			}
			for _, want := range tt.wantContains {
				if !strings.Contains(got, want) {
					t.Errorf("RewriteRelativePaths() = %q, want to contain %q", got, want)
				}
			}
			for _, exclude := range tt.wantExcludes {
				if strings.Contains(got, exclude) {
					t.Errorf("RewriteRelativePaths() = %q, should not contain %q", got, exclude)
				}
			}
		})
	}
}

func TestRewriteRelativePaths_NilResolver(t *testing.T) {
	t.Parallel()

	in := `<img src="./logo.png">`
	got, err := RewriteRelativePaths(in, nil)
	if err != nil {
		t.Fatalf("RewriteRelativePaths() error = %v", err)
	}
	if got != in {
		t.Errorf("RewriteRelativePaths() = %q, want %q", got, in)
	}
}

func TestRewriteRelativePaths_FullDocument(t *testing.T) {
	t.Parallel()

	doc := "<!DOCTYPE html><html><head></head><body><img src=\"a.png\"></body></html>"
	got, err := RewriteRelativePaths(doc, PrefixResolver("/files"))
	if err != nil {
		t.Fatalf("RewriteRelativePaths() error = %v", err)
	}
	if !strings.Contains(got, `src="/files/a.png"`) {
		t.Errorf("RewriteRelativePaths() = %q, want rewritten src", got)
	}
	if !strings.Contains(strings.ToLower(got), "<!doctype html>") {
		t.Errorf("RewriteRelativePaths() = %q, want doctype preserved", got)
	}
}

// ---------------------------------------------------------------------------
// TestPrefixResolver
// ---------------------------------------------------------------------------

func TestPrefixResolver(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		prefix string
		rel    string
		want   string
		wantOK bool
	}{
		{"simple", "/files", "img/a.png", "/files/img/a.png", true},
		{"dot slash", "/files/docs", "./a.png", "/files/docs/a.png", true},
		{"prefix without slash", "files", "a.png", "/files/a.png", true},
		{"parent inside prefix", "/files/docs", "../b.png", "", false},
		{"sibling with shared prefix", "/files", "../filesecret/x", "", false},
		{"root prefix", "/", "x/y.png", "/x/y.png", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := PrefixResolver(tt.prefix)(tt.rel)
			if ok != tt.wantOK {
				t.Fatalf("PrefixResolver(%q)(%q) ok = %v, want %v", tt.prefix, tt.rel, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("PrefixResolver(%q)(%q) = %q, want %q", tt.prefix, tt.rel, got, tt.want)
			}
		})
	}
}

func TestFileURLResolver_SubdirectoryAllowed(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	resolve, err := FileURLResolver(dir)
	if err != nil {
		t.Fatalf("FileURLResolver() error = %v", err)
	}

	got, ok := resolve("images/../logo.png")
	if !ok {
		t.Fatal("resolve() ok = false, want true")
	}
	want := filepath.ToSlash(filepath.Join(dir, "logo.png"))
	if !strings.HasSuffix(got, want) {
		t.Errorf("resolve() = %q, want suffix %q", got, want)
	}
}
