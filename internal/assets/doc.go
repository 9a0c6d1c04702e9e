// Package assets provides the CSS styles and HTML page templates used when
// rendering transformed Markdown.
//
// # Loader Architecture
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - built-in styles and preview pages (go:embed)
//	    ├── FilesystemLoader  - user directory given with --asset-path
//	    └── AssetResolver     - custom first, embedded as fallback
//
// A custom directory only needs the files it overrides:
//
//	{basePath}/
//	├── styles/
//	│   └── {name}.css      # document style, e.g. minimal.css
//	└── templates/
//	    └── {name}.html     # page template, e.g. editor.html
//
// Asset names are validated before they reach the filesystem and resolved
// paths must stay inside basePath, symlinks included.
package assets
