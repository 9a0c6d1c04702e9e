package assets

import (
	"errors"
	"strings"
	"testing"
)

func TestAssetResolver(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeAsset(t, dir, "styles", "minimal.css", "/* custom minimal */")

	custom, err := NewAssetResolver(dir)
	if err != nil {
		t.Fatalf("NewAssetResolver() error = %v", err)
	}
	embedded, err := NewAssetResolver("")
	if err != nil {
		t.Fatalf("NewAssetResolver(\"\") error = %v", err)
	}

	tests := []struct {
		name     string
		resolver *AssetResolver
		style    string
		want     string
		wantErr  error
	}{
		{"custom overrides embedded", custom, "minimal", "/* custom minimal */", nil},
		{"falls back to embedded", custom, "default", "--accent", nil},
		{"embedded only", embedded, "minimal", "Georgia", nil},
		{"missing everywhere", custom, "nope", "", ErrStyleNotFound},
		{"invalid name not retried", custom, "a/b", "", ErrInvalidAssetName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := tt.resolver.LoadStyle(tt.style)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("LoadStyle(%q) error = %v, want %v", tt.style, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadStyle(%q) error = %v", tt.style, err)
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("LoadStyle(%q) = %q, want to contain %q", tt.style, got, tt.want)
			}
		})
	}

	if !custom.HasCustomLoader() || embedded.HasCustomLoader() {
		t.Error("HasCustomLoader() does not reflect configuration")
	}
}

func TestAssetResolver_TemplateFallback(t *testing.T) {
	t.Parallel()

	resolver, err := NewAssetResolver(t.TempDir())
	if err != nil {
		t.Fatalf("NewAssetResolver() error = %v", err)
	}

	got, err := resolver.LoadTemplate(EditorTemplateName)
	if err != nil {
		t.Fatalf("LoadTemplate() error = %v", err)
	}
	if !strings.Contains(got, "<textarea") {
		t.Error("LoadTemplate() did not return the embedded editor")
	}
}

func TestNewAssetResolver_InvalidPath(t *testing.T) {
	t.Parallel()

	_, err := NewAssetResolver("/nonexistent/mdcommand/assets")
	if !errors.Is(err, ErrInvalidBasePath) {
		t.Errorf("NewAssetResolver() error = %v, want ErrInvalidBasePath", err)
	}
}
