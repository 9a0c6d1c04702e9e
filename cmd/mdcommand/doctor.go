package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/go-rod/rod/lib/launcher"

	"github.com/alnah/go-mdcommand/internal/config"
)

// errNotReady is returned by doctor when a check reports an error.
var errNotReady = errors.New("environment not ready, see doctor output")

// defaultConfigName is the config name doctor suggests creating.
const defaultConfigName = "mdcommand"

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string     `json:"status"` // "ready", "warnings", "errors"
	Chrome   chromeInfo `json:"chrome"`
	Config   configInfo `json:"config"`
	Env      envInfo    `json:"environment"`
	System   systemInfo `json:"system"`
	Warnings []string   `json:"warnings,omitempty"`
	Errors   []string   `json:"errors,omitempty"`
}

// chromeInfo holds Chrome/Chromium detection results. Chrome is only
// needed for PDF export, so a missing browser is a warning.
type chromeInfo struct {
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
	Sandbox bool   `json:"sandbox"`
}

// configInfo describes the configuration doctor resolved.
type configInfo struct {
	Source   string `json:"source"` // config name/path, or "defaults"
	Valid    bool   `json:"valid"`
	Mode     string `json:"mode"`
	Rules    int    `json:"rules"`
	UserPath string `json:"user_path,omitempty"`
	YAML     string `json:"-"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
	NoSandbox     string `json:"rod_no_sandbox"`
	BrowserBin    string `json:"rod_browser_bin"`
}

// systemInfo holds system check results.
type systemInfo struct {
	TempWritable bool `json:"temp_writable"`
}

// runDoctorCmd executes the doctor command. Warnings still succeed.
func runDoctorCmd(args []string, env *Environment) error {
	flags, err := parseDoctorFlags(args, env.Stdout)
	if err != nil {
		return err
	}

	result := runDoctor(flags.common.config, env)

	if flags.json {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result, flags.common.verbose)
	}

	if result.Status == "errors" {
		return errNotReady
	}
	return nil
}

// runDoctor performs all diagnostic checks.
func runDoctor(configName string, env *Environment) *doctorResult {
	result := &doctorResult{
		Status: "ready",
		Env: envInfo{
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			NoSandbox:  os.Getenv("ROD_NO_SANDBOX"),
			BrowserBin: os.Getenv("ROD_BROWSER_BIN"),
		},
	}

	checkChrome(result)
	checkConfig(result, configName, env)
	checkEnvironment(result)
	checkSystem(result)

	if len(result.Errors) > 0 {
		result.Status = "errors"
	} else if len(result.Warnings) > 0 {
		result.Status = "warnings"
	}

	return result
}

// checkChrome detects Chrome/Chromium installation.
func checkChrome(result *doctorResult) {
	chromePath := result.Env.BrowserBin

	if chromePath == "" {
		var found bool
		chromePath, found = launcher.LookPath()
		if !found {
			result.Warnings = append(result.Warnings,
				"Chrome/Chromium not found: PDF export is unavailable. Install Chrome or set ROD_BROWSER_BIN")
			return
		}
	}

	if _, err := os.Stat(chromePath); err != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Chrome not found at %s: PDF export is unavailable", chromePath))
		return
	}

	result.Chrome.Found = true
	result.Chrome.Path = chromePath

	out, err := exec.Command(chromePath, "--version").Output() // #nosec G204 -- path from rod or ROD_BROWSER_BIN
	if err == nil {
		result.Chrome.Version = strings.TrimSpace(string(out))
	} else {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Could not get Chrome version: %v", err))
	}

	result.Chrome.Sandbox = result.Env.NoSandbox != "1"
}

// checkConfig loads the named config (or MDCOMMAND_CONFIG) the way the
// other commands do, and compiles its rules.
func checkConfig(result *doctorResult, configName string, env *Environment) {
	envCfg := loadEnvConfig()
	info := &result.Config
	info.Source = "defaults"
	if configName != "" {
		info.Source = configName
	} else if envCfg.ConfigPath != "" {
		info.Source = envCfg.ConfigPath
	}

	if p, err := config.UserConfigPath(defaultConfigName); err == nil {
		info.UserPath = p
	}

	cfg, err := loadConfig(configName, envCfg, env)
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		return
	}
	if err := cfg.Validate(); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("config: %v", err))
		return
	}

	info.Valid = true
	info.Mode = cfg.Mode
	info.Rules = len(cfg.Rules)
	if data, err := cfg.Encode(); err == nil {
		info.YAML = string(data)
	}
}

// checkEnvironment detects container and CI environments.
func checkEnvironment(result *doctorResult) {
	result.Env.Container, result.Env.ContainerHint = isContainer()

	ciVars := []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}
	for _, v := range ciVars {
		if os.Getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}

	if (result.Env.Container || result.Env.CI) && result.Env.NoSandbox != "1" {
		result.Warnings = append(result.Warnings,
			"Container/CI detected but ROD_NO_SANDBOX not set. Set ROD_NO_SANDBOX=1 for PDF export")
	}
}

// isContainer detects if running in a container environment.
// Returns (isContainer, hint) where hint indicates which signal was detected.
func isContainer() (bool, string) {
	if os.Getenv("MDCOMMAND_CONTAINER") == "1" {
		return true, "MDCOMMAND_CONTAINER=1"
	}
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true, "/.dockerenv"
	}
	if v := os.Getenv("container"); v != "" {
		return true, "container=" + v
	}
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// checkSystem verifies the temp directory used for PDF export is writable.
func checkSystem(result *doctorResult) {
	f, err := os.CreateTemp("", "mdcommand-doctor-*")
	if err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Temp directory not writable: %s", os.TempDir()))
		return
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(filepath.Clean(name))
	result.System.TempWritable = true
}

// printDoctorResult outputs human-readable diagnostic results.
// verbose adds the effective configuration as YAML.
func printDoctorResult(w io.Writer, r *doctorResult, verbose bool) {
	fmt.Fprintln(w, "mdcommand doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Chrome/Chromium (PDF export)")
	if r.Chrome.Found {
		fmt.Fprintf(w, "  [OK] Found at %s\n", r.Chrome.Path)
		if r.Chrome.Version != "" {
			fmt.Fprintf(w, "  [OK] Version: %s\n", r.Chrome.Version)
		}
		if r.Chrome.Sandbox {
			fmt.Fprintln(w, "  [OK] Sandbox: enabled")
		} else {
			fmt.Fprintln(w, "  [OK] Sandbox: disabled (ROD_NO_SANDBOX=1)")
		}
	} else {
		fmt.Fprintln(w, "  [WARN] Not found")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Config")
	if r.Config.Valid {
		fmt.Fprintf(w, "  [OK] Source: %s\n", r.Config.Source)
		fmt.Fprintf(w, "  [OK] Mode: %s, %d custom rule(s)\n", r.Config.Mode, r.Config.Rules)
	} else {
		fmt.Fprintf(w, "  [ERROR] Source: %s\n", r.Config.Source)
	}
	if r.Config.UserPath != "" {
		fmt.Fprintf(w, "  [OK] User config: %s\n", r.Config.UserPath)
	}
	if verbose && r.Config.YAML != "" {
		fmt.Fprintln(w)
		for line := range strings.Lines(r.Config.YAML) {
			fmt.Fprintf(w, "    %s", line)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintf(w, "  [OK] Container: detected (%s)\n", r.Env.ContainerHint)
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "System")
	if r.System.TempWritable {
		fmt.Fprintln(w, "  [OK] Temp directory: writable")
	} else {
		fmt.Fprintln(w, "  [ERROR] Temp directory: not writable")
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case "ready":
		fmt.Fprintln(w, "Status: Ready")
	case "warnings":
		fmt.Fprintln(w, "Status: Ready with warnings")
	case "errors":
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
