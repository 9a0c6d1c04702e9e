package assets

// Built-in asset names.
const (
	DefaultStyleName   = "default"
	EditorTemplateName = "editor" // live editor page served by the preview server
)

// AssetLoader defines the contract for loading CSS styles and HTML templates.
type AssetLoader interface {
	// LoadStyle loads a CSS style by name (without .css extension).
	// Returns ErrStyleNotFound if the style doesn't exist.
	LoadStyle(name string) (string, error)

	// LoadTemplate loads an HTML page template by name (without .html extension).
	// Returns ErrTemplateNotFound if the template doesn't exist.
	LoadTemplate(name string) (string, error)
}
