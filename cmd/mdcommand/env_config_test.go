package main

// Notes:
// - loadEnvConfig: we test each MDCOMMAND_* variable, and that malformed
//   numbers and durations are ignored.
// - warnUnknownEnvVars: typos are reported, known names are not.
// - applyEnvConfig / loadConfig: precedence of environment over config, and
//   that env.Config is never mutated.
// Tests here use t.Setenv and therefore cannot run in parallel.

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alnah/go-mdcommand/internal/config"
)

// ---------------------------------------------------------------------------
// TestLoadEnvConfig - Environment variable parsing
// ---------------------------------------------------------------------------

func TestLoadEnvConfig(t *testing.T) {
	t.Setenv("MDCOMMAND_CONFIG", "work")
	t.Setenv("MDCOMMAND_STYLE", "technical")
	t.Setenv("MDCOMMAND_MODE", "off")
	t.Setenv("MDCOMMAND_FORMAT", "html")
	t.Setenv("MDCOMMAND_TIMEOUT", "45s")
	t.Setenv("MDCOMMAND_WORKERS", "3")
	t.Setenv("MDCOMMAND_INPUT_DIR", "notes")
	t.Setenv("MDCOMMAND_OUTPUT_DIR", "out")
	t.Setenv("MDCOMMAND_HOST", "0.0.0.0")
	t.Setenv("MDCOMMAND_PORT", "8080")
	t.Setenv("MDCOMMAND_THEME", "light")

	got := loadEnvConfig()
	want := envConfig{
		ConfigPath: "work",
		Style:      "technical",
		Mode:       "off",
		Format:     "html",
		Timeout:    45 * time.Second,
		Workers:    3,
		InputDir:   "notes",
		OutputDir:  "out",
		Host:       "0.0.0.0",
		Port:       8080,
		Theme:      "light",
	}
	if *got != want {
		t.Errorf("loadEnvConfig() = %+v, want %+v", *got, want)
	}
}

func TestLoadEnvConfig_IgnoresMalformedNumbers(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"timeout garbage", "MDCOMMAND_TIMEOUT", "soon"},
		{"timeout negative", "MDCOMMAND_TIMEOUT", "-5s"},
		{"workers garbage", "MDCOMMAND_WORKERS", "many"},
		{"workers zero", "MDCOMMAND_WORKERS", "0"},
		{"port garbage", "MDCOMMAND_PORT", "http"},
		{"port out of range", "MDCOMMAND_PORT", "70000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			got := loadEnvConfig()
			if got.Timeout != 0 || got.Workers != 0 || got.Port != 0 {
				t.Errorf("loadEnvConfig() = %+v, want zero numeric fields", *got)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestWarnUnknownEnvVars - Typo detection
// ---------------------------------------------------------------------------

func TestWarnUnknownEnvVars(t *testing.T) {
	t.Setenv("MDCOMMAND_STYEL", "technical")
	t.Setenv("MDCOMMAND_STYLE", "technical")

	var buf bytes.Buffer
	warnUnknownEnvVars(&buf)

	out := buf.String()
	if !strings.Contains(out, "MDCOMMAND_STYEL") {
		t.Errorf("expected warning for MDCOMMAND_STYEL, got %q", out)
	}
	if strings.Contains(out, "MDCOMMAND_STYLE (") {
		t.Errorf("known variable should not be reported, got %q", out)
	}
}

// ---------------------------------------------------------------------------
// TestApplyEnvConfig - Environment over config
// ---------------------------------------------------------------------------

func TestApplyEnvConfig(t *testing.T) {
	t.Parallel()

	t.Run("set values override", func(t *testing.T) {
		t.Parallel()
		cfg := config.DefaultConfig()
		applyEnvConfig(&envConfig{
			Style:     "academic",
			Mode:      "off",
			Format:    "pdf",
			InputDir:  "in",
			OutputDir: "out",
			Host:      "localhost",
			Port:      9000,
		}, cfg)

		if cfg.Style != "academic" || cfg.Mode != "off" || cfg.Output.Format != "pdf" {
			t.Errorf("document fields not applied: %+v", cfg)
		}
		if cfg.Input.DefaultDir != "in" || cfg.Output.DefaultDir != "out" {
			t.Errorf("directories not applied: %+v", cfg)
		}
		if cfg.Preview.Host != "localhost" || cfg.Preview.Port != 9000 {
			t.Errorf("preview not applied: %+v", cfg.Preview)
		}
	})

	t.Run("empty values keep config", func(t *testing.T) {
		t.Parallel()
		cfg := config.DefaultConfig()
		cfg.Style = "creative"
		applyEnvConfig(&envConfig{}, cfg)

		if cfg.Style != "creative" || cfg.Preview.Port != 7331 || cfg.Mode != "commands" {
			t.Errorf("config changed by empty env: %+v", cfg)
		}
	})
}

// ---------------------------------------------------------------------------
// TestLoadConfig - Config resolution
// ---------------------------------------------------------------------------

func TestLoadConfig_DefaultsNotMutated(t *testing.T) {
	t.Parallel()

	tio := testEnv(t)
	cfg, err := loadConfig("", &envConfig{Mode: "off"}, tio.env)
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if cfg.Mode != "off" {
		t.Errorf("cfg.Mode = %q, want off", cfg.Mode)
	}
	if tio.env.Config.Mode != "commands" {
		t.Errorf("env.Config.Mode = %q, must stay commands", tio.env.Config.Mode)
	}
}

func TestLoadConfig_NilEnvConfig(t *testing.T) {
	t.Parallel()

	tio := testEnv(t)
	tio.env.Config = nil
	cfg, err := loadConfig("", &envConfig{}, tio.env)
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if cfg.Preview.Port != 7331 {
		t.Errorf("cfg.Preview.Port = %d, want default 7331", cfg.Preview.Port)
	}
}

func TestLoadConfig_FromFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "work.yaml", "mode: passthrough\nstyle: academic\n")

	tio := testEnv(t)
	cfg, err := loadConfig(path, &envConfig{Style: "technical"}, tio.env)
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if cfg.Mode != "passthrough" {
		t.Errorf("cfg.Mode = %q, want passthrough", cfg.Mode)
	}
	if cfg.Style != "technical" {
		t.Errorf("cfg.Style = %q, environment should win over file", cfg.Style)
	}
}

func TestLoadConfig_EnvConfigPath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	tio := testEnv(t)
	_, err := loadConfig("", &envConfig{ConfigPath: filepath.Join(dir, "missing.yaml")}, tio.env)
	if !errors.Is(err, config.ErrConfigNotFound) {
		t.Fatalf("loadConfig() error = %v, want ErrConfigNotFound", err)
	}
	if !strings.Contains(err.Error(), "loading config") {
		t.Errorf("error should be wrapped with context: %v", err)
	}
}
