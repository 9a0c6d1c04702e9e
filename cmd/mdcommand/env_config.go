package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-mdcommand/internal/config"
	"github.com/alnah/go-mdcommand/internal/logging"
)

const envPrefix = "MDCOMMAND_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	// Documents
	ConfigPath string        // MDCOMMAND_CONFIG: config file name or path
	Style      string        // MDCOMMAND_STYLE: CSS style name or path
	Mode       string        // MDCOMMAND_MODE: commands, off
	Format     string        // MDCOMMAND_FORMAT: md, html, pdf
	Timeout    time.Duration // MDCOMMAND_TIMEOUT: PDF export timeout
	Workers    int           // MDCOMMAND_WORKERS: parallel workers

	// I/O
	InputDir  string // MDCOMMAND_INPUT_DIR: default input directory
	OutputDir string // MDCOMMAND_OUTPUT_DIR: default output directory

	// Preview server
	Host string // MDCOMMAND_HOST
	Port int    // MDCOMMAND_PORT

	// Terminal
	Theme string // MDCOMMAND_THEME: glamour style for "show"
}

// knownEnvVars lists valid MDCOMMAND_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"MDCOMMAND_CONFIG":     true,
	"MDCOMMAND_STYLE":      true,
	"MDCOMMAND_MODE":       true,
	"MDCOMMAND_FORMAT":     true,
	"MDCOMMAND_TIMEOUT":    true,
	"MDCOMMAND_WORKERS":    true,
	"MDCOMMAND_INPUT_DIR":  true,
	"MDCOMMAND_OUTPUT_DIR": true,
	"MDCOMMAND_HOST":       true,
	"MDCOMMAND_PORT":       true,
	"MDCOMMAND_THEME":      true,
	"MDCOMMAND_CONTAINER":  true, // read by doctor
	logging.EnvLogLevel:    true,
	logging.EnvLogFormat:   true,
}

// loadEnvConfig reads configuration from environment variables.
// Malformed numbers and durations are ignored rather than reported.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv("MDCOMMAND_CONFIG"),
		Style:      os.Getenv("MDCOMMAND_STYLE"),
		Mode:       os.Getenv("MDCOMMAND_MODE"),
		Format:     os.Getenv("MDCOMMAND_FORMAT"),
		InputDir:   os.Getenv("MDCOMMAND_INPUT_DIR"),
		OutputDir:  os.Getenv("MDCOMMAND_OUTPUT_DIR"),
		Host:       os.Getenv("MDCOMMAND_HOST"),
		Theme:      os.Getenv("MDCOMMAND_THEME"),
	}

	if timeout := os.Getenv("MDCOMMAND_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	if workers := os.Getenv("MDCOMMAND_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	if port := os.Getenv("MDCOMMAND_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil && p > 0 && p <= 65535 {
			cfg.Port = p
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized MDCOMMAND_* variables.
// Helps catch typos like MDCOMMAND_STYEL.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if !strings.HasPrefix(env, envPrefix) {
			continue
		}
		name, _, _ := strings.Cut(env, "=")
		if !knownEnvVars[name] {
			fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
		}
	}
}

// applyEnvConfig copies set environment values over cfg.
// Precedence is: CLI flags > env vars > config file > defaults
// (CLI flags are applied later by each command's merge step).
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Style != "" {
		cfg.Style = env.Style
	}
	if env.Mode != "" {
		cfg.Mode = env.Mode
	}
	if env.Format != "" {
		cfg.Output.Format = env.Format
	}
	if env.InputDir != "" {
		cfg.Input.DefaultDir = env.InputDir
	}
	if env.OutputDir != "" {
		cfg.Output.DefaultDir = env.OutputDir
	}
	if env.Host != "" {
		cfg.Preview.Host = env.Host
	}
	if env.Port != 0 {
		cfg.Preview.Port = env.Port
	}
}

// loadConfig resolves the config for a command: the --config flag, else
// MDCOMMAND_CONFIG, else the environment's default config. Environment
// overrides are applied to a copy, never to env.Config itself.
func loadConfig(flagConfig string, envCfg *envConfig, env *Environment) (*config.Config, error) {
	name := flagConfig
	if name == "" {
		name = envCfg.ConfigPath
	}

	var cfg *config.Config
	if name != "" {
		loaded, err := config.LoadConfig(name)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	} else {
		base := config.DefaultConfig()
		if env.Config != nil {
			base = env.Config
		}
		copied := *base
		cfg = &copied
	}

	applyEnvConfig(envCfg, cfg)
	return cfg, nil
}
