// Package pipeline implements the command-to-Markdown conversion pipeline.
//
// The package covers every stage between raw editor text and rendered HTML:
//   - Canonical syntax detection (lines a renderer already understands)
//   - Command transformation (line and inline rules, audit log)
//   - Markdown preprocessing (line normalization, highlight syntax, rules)
//   - Markdown to HTML conversion via Goldmark
//   - CSS and script injection, relative path rewriting
//
// The transformation stages are pure and allocate only per call. PDF output
// is produced by the root mdcommand package using headless Chrome (go-rod),
// which keeps browser lifecycle concerns out of this package.
package pipeline
