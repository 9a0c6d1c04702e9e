// Package config loads the YAML configuration shared by the CLI commands.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"

	"github.com/alnah/go-mdcommand/internal/fileutil"
	"github.com/alnah/go-mdcommand/internal/pipeline"
	"github.com/alnah/go-mdcommand/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// AppDirName is the directory searched under the user config dir.
const AppDirName = "go-mdcommand"

// Field length limits.
const (
	MaxPathLength        = 4096
	MaxStyleLength       = 4096 // name, path or inline CSS
	MaxHostLength        = 253  // DNS name
	MaxPatternLength     = 500
	MaxReplaceLength     = 500
	MaxDescriptionLength = 100
	MaxRules             = 100
)

// Accepted enum values. Empty means default.
var (
	validModes   = []string{"commands", "passthrough", "on", "off"}
	validFormats = []string{"md", "html", "pdf"}
	validSizes   = []string{"letter", "a4", "legal"}
	validOrients = []string{"portrait", "landscape"}
)

// Config holds all configuration for mdcommand.
type Config struct {
	Mode    string        `yaml:"mode"`  // "commands" (default), "passthrough" or "off"
	Style   string        `yaml:"style"` // style name, CSS file path or inline CSS
	Input   InputConfig   `yaml:"input"`
	Output  OutputConfig  `yaml:"output"`
	Assets  AssetsConfig  `yaml:"assets"`
	Preview PreviewConfig `yaml:"preview"`
	Export  ExportConfig  `yaml:"export"`
	Rules   []RuleConfig  `yaml:"rules"`
}

// InputConfig defines input source options.
type InputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // used when no input argument is given
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // empty = next to the source
	Format     string `yaml:"format"`     // "md" (default), "html", "pdf"
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // empty = embedded assets only
}

// PreviewConfig defines the preview server.
type PreviewConfig struct {
	Host       string `yaml:"host"`       // default 127.0.0.1
	Port       int    `yaml:"port"`       // default 7331
	Watch      string `yaml:"watch"`      // file pushed to editors on change
	DebounceMs int    `yaml:"debounceMs"` // editor keystroke debounce
}

// ExportConfig defines HTML and PDF export.
type ExportConfig struct {
	Timeout string     `yaml:"timeout"` // Go duration, e.g. "45s"
	Title   string     `yaml:"title"`   // HTML title; empty = first heading
	Page    PageConfig `yaml:"page"`
}

// PageConfig defines PDF page settings.
type PageConfig struct {
	Size        string  `yaml:"size"`        // "letter" (default), "a4", "legal"
	Orientation string  `yaml:"orientation"` // "portrait" (default), "landscape"
	Margin      float64 `yaml:"margin"`      // inches, 0 = default
}

// RuleConfig declares a user line rule appended after the built-ins.
type RuleConfig struct {
	Pattern     string `yaml:"pattern"`
	Replace     string `yaml:"replace"`
	Description string `yaml:"description"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Mode:    "commands",
		Output:  OutputConfig{Format: "md"},
		Preview: PreviewConfig{Host: "127.0.0.1", Port: 7331, DebounceMs: 150},
	}
}

// Validate checks field lengths, enum values and rule patterns.
// Called by LoadConfig, and usable on hand-built configs.
func (c *Config) Validate() error {
	checks := []struct {
		field string
		value string
		max   int
	}{
		{"style", c.Style, MaxStyleLength},
		{"input.defaultDir", c.Input.DefaultDir, MaxPathLength},
		{"output.defaultDir", c.Output.DefaultDir, MaxPathLength},
		{"assets.basePath", c.Assets.BasePath, MaxPathLength},
		{"preview.host", c.Preview.Host, MaxHostLength},
		{"preview.watch", c.Preview.Watch, MaxPathLength},
		{"export.title", c.Export.Title, MaxDescriptionLength},
	}
	for _, ch := range checks {
		if err := validateFieldLength(ch.field, ch.value, ch.max); err != nil {
			return err
		}
	}

	if err := validateEnum("mode", c.Mode, validModes); err != nil {
		return err
	}
	if err := validateEnum("output.format", c.Output.Format, validFormats); err != nil {
		return err
	}
	if err := validateEnum("export.page.size", c.Export.Page.Size, validSizes); err != nil {
		return err
	}
	if err := validateEnum("export.page.orientation", c.Export.Page.Orientation, validOrients); err != nil {
		return err
	}

	if c.Preview.Port < 0 || c.Preview.Port > 65535 {
		return fmt.Errorf("%w: preview.port: must be between 0 and 65535, got %d", ErrInvalidValue, c.Preview.Port)
	}
	if c.Preview.DebounceMs < 0 || c.Preview.DebounceMs > 5000 {
		return fmt.Errorf("%w: preview.debounceMs: must be between 0 and 5000, got %d", ErrInvalidValue, c.Preview.DebounceMs)
	}
	if m := c.Export.Page.Margin; m != 0 && (m < 0.25 || m > 3) {
		return fmt.Errorf("%w: export.page.margin: must be between 0.25 and 3, got %.2f", ErrInvalidValue, m)
	}
	if _, err := c.ExportTimeout(); err != nil {
		return err
	}

	if len(c.Rules) > MaxRules {
		return fmt.Errorf("%w: rules: %d entries (max %d)", ErrInvalidValue, len(c.Rules), MaxRules)
	}
	for i, r := range c.Rules {
		prefix := fmt.Sprintf("rules[%d]", i)
		if err := validateFieldLength(prefix+".pattern", r.Pattern, MaxPatternLength); err != nil {
			return err
		}
		if err := validateFieldLength(prefix+".replace", r.Replace, MaxReplaceLength); err != nil {
			return err
		}
		if err := validateFieldLength(prefix+".description", r.Description, MaxDescriptionLength); err != nil {
			return err
		}
	}
	if _, err := c.CompileRules(); err != nil {
		return err
	}

	return nil
}

// ExportTimeout parses export.timeout. Zero means the library default.
func (c *Config) ExportTimeout() (time.Duration, error) {
	if c.Export.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Export.Timeout)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%w: export.timeout: %q is not a positive duration", ErrInvalidValue, c.Export.Timeout)
	}
	return d, nil
}

// CompileRules turns the rules section into line rules for the transformer.
func (c *Config) CompileRules() ([]pipeline.Rule, error) {
	rules := make([]pipeline.Rule, 0, len(c.Rules))
	for i, r := range c.Rules {
		rule, err := pipeline.NewTemplateRule(r.Pattern, r.Replace, r.Description)
		if err != nil {
			return nil, fmt.Errorf("rules[%d]: %w", i, err)
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// Passthrough reports whether the config disables command transformation.
func (c *Config) Passthrough() bool {
	m := strings.ToLower(c.Mode)
	return m == "passthrough" || m == "off"
}

// Encode renders the config as YAML.
func (c *Config) Encode() ([]byte, error) {
	return yamlutil.Marshal(c)
}

func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

func validateEnum(fieldName, value string, allowed []string) error {
	if value == "" {
		return nil
	}
	for _, a := range allowed {
		if strings.EqualFold(value, a) {
			return nil
		}
	}
	return fmt.Errorf("%w: %s: %q (must be one of %s)", ErrInvalidValue, fieldName, value, strings.Join(allowed, ", "))
}

// LoadConfig loads configuration from a file path or config name.
// A value containing a path separator is read as a path; anything else is
// looked up by name (see resolveConfigPath). Missing files are an error.
// Fields absent from the file keep their DefaultConfig values.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) {
		var err error
		if configPath, err = resolveConfigPath(nameOrPath); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrConfigParse, yamlutil.FormatError(err))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolveConfigPath searches name.yaml then name.yml in the current
// directory, then under AppDirName in the XDG config directories
// (XDG_CONFIG_HOME first, then XDG_CONFIG_DIRS).
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	for _, ext := range extensions {
		rel := filepath.Join(AppDirName, name+ext)
		if found, err := xdg.SearchConfigFile(rel); err == nil {
			return found, nil
		}
		triedPaths = append(triedPaths, filepath.Join(xdg.ConfigHome, rel))
	}

	return "", &NotFoundError{Name: name, Tried: triedPaths}
}

// UserConfigPath returns where a named config would live in the user's
// XDG config home, creating the parent directory.
func UserConfigPath(name string) (string, error) {
	return xdg.ConfigFile(filepath.Join(AppDirName, name+".yaml"))
}

// NotFoundError lists the locations searched for a named config.
type NotFoundError struct {
	Name  string
	Tried []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%v: %q (tried %s)", ErrConfigNotFound, e.Name, strings.Join(e.Tried, ", "))
}

// Unwrap makes errors.Is(err, ErrConfigNotFound) hold.
func (e *NotFoundError) Unwrap() error {
	return ErrConfigNotFound
}
