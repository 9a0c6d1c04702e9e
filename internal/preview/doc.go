// Package preview serves the browser editor for command-style Markdown.
//
// The editor page sends the buffer over a websocket and receives the
// canonical Markdown, an HTML fragment and the audit log back. The same
// conversion is exposed as a JSON endpoint. When a file is watched, every
// save is converted and pushed to all connected clients.
//
// Routes:
//
//	GET  /                 editor page
//	GET  /ws               websocket transform channel
//	POST /api/transform    {"text", "mode"} -> {"markdown", "html", "log"}
//	GET  /view/{path...}   rendered Markdown file with live reload
//	GET  /files/{path...}  static files below the root directory
package preview
