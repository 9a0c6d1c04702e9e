// Package mdcommand converts command-style notes into canonical Markdown
// and renders them to HTML or PDF.
//
// Writers type plain-language commands such as "bold this: Welcome" or
// "heading 2: Plan" and get standard Markdown back, together with an audit
// log of every rewritten line. Lines that already use Markdown syntax are
// left alone.
//
// # Quick Start
//
//	conv, err := mdcommand.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conv.Close()
//
//	md, entries := conv.Transform("heading 1: Notes\nbold this: ship it", mdcommand.ModeCommands)
//	// md == "# Notes\n**ship it**", len(entries) == 2
//
//	result, err := conv.Convert(ctx, mdcommand.Input{
//	    Markdown: "heading 1: Notes",
//	    HTMLOnly: true,
//	})
//
// # Conversion Pipeline
//
//  1. Command transformation (line rules, then inline rules)
//  2. Markdown preprocessing (line endings, ==highlight==, blank lines)
//  3. Markdown to HTML via Goldmark (GFM, chroma highlighting)
//  4. CSS injection and relative path rewriting
//  5. PDF rendering via headless Chrome (go-rod), unless Input.HTMLOnly
//
// In ModePassthrough step 1 is skipped and the log is empty.
//
// # Configuration
//
//	conv, err := mdcommand.NewConverter(
//	    mdcommand.WithTimeout(2 * time.Minute),
//	    mdcommand.WithStyle("minimal"),
//	    mdcommand.WithAssetPath("/path/to/assets"),
//	    mdcommand.WithRules(todoRule),
//	)
//
// Extra rules built with NewRule are tried after every built-in line rule.
//
// # Parallel Processing
//
// ConverterPool bounds the number of browser instances for batch work:
//
//	pool := mdcommand.NewConverterPool(mdcommand.ResolvePoolSize(0))
//	defer pool.Close()
//
//	conv, err := pool.Acquire()
//	defer pool.Release(conv)
//
// # Browser Requirements
//
// PDF output requires Chrome or Chromium. go-rod downloads a managed
// Chromium on first use. Set ROD_BROWSER_BIN to use a specific binary.
package mdcommand
