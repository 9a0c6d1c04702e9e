package pipeline

import (
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// PathResolver maps a relative reference found in rendered HTML to the
// value that should replace it. Returning ok=false leaves it unchanged.
type PathResolver func(rel string) (resolved string, ok bool)

// FileURLResolver resolves references against sourceDir and returns
// file:// URLs, as needed when headless Chrome loads a temp file.
// References escaping sourceDir are left alone.
func FileURLResolver(sourceDir string) (PathResolver, error) {
	absDir, err := filepath.Abs(sourceDir)
	if err != nil {
		return nil, err
	}
	return func(rel string) (string, bool) {
		absPath := filepath.Join(absDir, filepath.FromSlash(rel))
		if !isPathUnderDir(absPath, absDir) {
			return "", false
		}
		u := url.URL{Scheme: "file", Path: filepath.ToSlash(absPath)}
		return u.String(), true
	}, nil
}

// PrefixResolver resolves references below a URL prefix, e.g. "/files/docs".
// Used by the preview server so images next to a watched file still load.
func PrefixResolver(prefix string) PathResolver {
	base := path.Join("/", prefix)
	return func(rel string) (string, bool) {
		joined := path.Join(base, rel)
		if base != "/" && joined != base && !strings.HasPrefix(joined, base+"/") {
			return "", false
		}
		return joined, true
	}
}

// RewriteRelativePaths rewrites relative img[src] and a[href] values with
// resolve. Anchors, URLs with a scheme and absolute paths are kept.
// A nil resolver returns the HTML unchanged.
func RewriteRelativePaths(htmlContent string, resolve PathResolver) (string, error) {
	if resolve == nil {
		return htmlContent, nil
	}

	doc, isFragment, err := parseHTML(htmlContent)
	if err != nil {
		return "", err
	}

	rewriteNode(doc, resolve)
	return renderHTML(doc, isFragment)
}

// parseHTML parses HTML content, handling both full documents and fragments.
func parseHTML(content string) (*html.Node, bool, error) {
	trimmed := strings.ToLower(strings.TrimSpace(content))

	if strings.HasPrefix(trimmed, "<!doctype") || strings.HasPrefix(trimmed, "<html") {
		doc, err := html.Parse(strings.NewReader(content))
		return doc, false, err
	}

	// Fragment: parse with body context to avoid wrapping
	body := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Body,
		Data:     "body",
	}
	nodes, err := html.ParseFragment(strings.NewReader(content), body)
	if err != nil {
		return nil, true, err
	}

	container := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		container.AppendChild(n)
	}
	return container, true, nil
}

// renderHTML renders the tree back to a string. Fragments render their
// children only, so no <html><body> wrapper is added.
func renderHTML(doc *html.Node, isFragment bool) (string, error) {
	var buf strings.Builder

	if isFragment {
		for c := doc.FirstChild; c != nil; c = c.NextSibling {
			if err := html.Render(&buf, c); err != nil {
				return "", err
			}
		}
		return buf.String(), nil
	}

	if err := html.Render(&buf, doc); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func rewriteNode(n *html.Node, resolve PathResolver) {
	if n.Type == html.ElementNode {
		switch n.DataAtom {
		case atom.Img:
			rewriteAttr(n, "src", resolve)
		case atom.A:
			rewriteAttr(n, "href", resolve)
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		rewriteNode(c, resolve)
	}
}

func rewriteAttr(n *html.Node, attrName string, resolve PathResolver) {
	for i, attr := range n.Attr {
		if attr.Key != attrName || !isRelativePath(attr.Val) {
			continue
		}
		if resolved, ok := resolve(attr.Val); ok {
			n.Attr[i].Val = resolved
		}
	}
}

// isRelativePath returns true if the reference should be rewritten.
func isRelativePath(ref string) bool {
	if ref == "" || strings.HasPrefix(ref, "#") || strings.HasPrefix(ref, "/") {
		return false
	}
	if u, err := url.Parse(ref); err != nil || u.Scheme != "" {
		return false
	}
	return !filepath.IsAbs(ref)
}

// isPathUnderDir checks if absPath is under dir (prevents path traversal).
func isPathUnderDir(absPath, dir string) bool {
	cleanDir := filepath.Clean(dir)
	if !strings.HasSuffix(cleanDir, string(filepath.Separator)) {
		cleanDir += string(filepath.Separator)
	}
	return strings.HasPrefix(filepath.Clean(absPath)+string(filepath.Separator), cleanDir)
}
