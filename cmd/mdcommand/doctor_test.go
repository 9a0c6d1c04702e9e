package main

// Notes:
// - runDoctor / checkConfig: defaults, a valid config file, and a missing
//   config reported as an error.
// - checkEnvironment: MDCOMMAND_CONTAINER forces container detection and the
//   sandbox warning.
// - printDoctorResult: section layout, verbose YAML and status lines.
// - runDoctorCmd: --json output decodes, and "errors" maps to errNotReady.
// These are acceptable gaps: Chrome detection depends on the host and is
// only checked for not producing errors.

import (
	"bytes"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestCheckConfig - Configuration diagnostics
// ---------------------------------------------------------------------------

func TestCheckConfig_Defaults(t *testing.T) {
	t.Parallel()

	tio := testEnv(t)
	result := &doctorResult{}
	checkConfig(result, "", tio.env)

	if len(result.Errors) != 0 {
		t.Fatalf("Errors = %v", result.Errors)
	}
	if !result.Config.Valid || result.Config.Source != "defaults" || result.Config.Mode != "commands" {
		t.Errorf("Config = %+v", result.Config)
	}
	if !strings.Contains(result.Config.YAML, "mode: commands") {
		t.Errorf("YAML = %q", result.Config.YAML)
	}
}

func TestCheckConfig_File(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "work.yaml", `mode: passthrough
rules:
  - pattern: 'todo\s*:\s*(.+)'
    replace: '- [ ] $1'
`)

	tio := testEnv(t)
	result := &doctorResult{}
	checkConfig(result, path, tio.env)

	if len(result.Errors) != 0 {
		t.Fatalf("Errors = %v", result.Errors)
	}
	if result.Config.Source != path || result.Config.Mode != "passthrough" || result.Config.Rules != 1 {
		t.Errorf("Config = %+v", result.Config)
	}
}

func TestCheckConfig_Missing(t *testing.T) {
	t.Parallel()

	tio := testEnv(t)
	result := &doctorResult{}
	checkConfig(result, filepath.Join(t.TempDir(), "nope.yaml"), tio.env)

	if result.Config.Valid {
		t.Error("missing config must not be valid")
	}
	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "loading config") {
		t.Errorf("Errors = %v", result.Errors)
	}
}

// ---------------------------------------------------------------------------
// TestCheckEnvironment - Container detection
// ---------------------------------------------------------------------------

func TestCheckEnvironment_ContainerOverride(t *testing.T) {
	t.Setenv("MDCOMMAND_CONTAINER", "1")

	result := &doctorResult{}
	checkEnvironment(result)

	if !result.Env.Container || result.Env.ContainerHint != "MDCOMMAND_CONTAINER=1" {
		t.Errorf("Env = %+v", result.Env)
	}
	if len(result.Warnings) != 1 || !strings.Contains(result.Warnings[0], "ROD_NO_SANDBOX") {
		t.Errorf("Warnings = %v", result.Warnings)
	}
}

func TestCheckEnvironment_SandboxDisabled(t *testing.T) {
	t.Setenv("MDCOMMAND_CONTAINER", "1")

	result := &doctorResult{Env: envInfo{NoSandbox: "1"}}
	checkEnvironment(result)

	if len(result.Warnings) != 0 {
		t.Errorf("Warnings = %v, want none with ROD_NO_SANDBOX=1", result.Warnings)
	}
}

func TestCheckSystem(t *testing.T) {
	t.Parallel()

	result := &doctorResult{}
	checkSystem(result)
	if !result.System.TempWritable {
		t.Errorf("TempWritable = false, Errors = %v", result.Errors)
	}
}

// ---------------------------------------------------------------------------
// TestPrintDoctorResult - Human output
// ---------------------------------------------------------------------------

func TestPrintDoctorResult(t *testing.T) {
	t.Parallel()

	base := func() *doctorResult {
		return &doctorResult{
			Status: "ready",
			Chrome: chromeInfo{Found: true, Path: "/usr/bin/chromium", Version: "Chromium 130", Sandbox: true},
			Config: configInfo{Source: "defaults", Valid: true, Mode: "commands", YAML: "mode: commands\n"},
			Env:    envInfo{OS: "linux", Arch: "amd64"},
			System: systemInfo{TempWritable: true},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*doctorResult)
		verbose bool
		want    []string
		notWant []string
	}{
		{
			name:    "ready",
			mutate:  func(*doctorResult) {},
			want:    []string{"[OK] Found at /usr/bin/chromium", "Version: Chromium 130", "Sandbox: enabled", "Mode: commands, 0 custom rule(s)", "Platform: linux/amd64", "Status: Ready"},
			notWant: []string{"mode: commands", "Warnings:"},
		},
		{
			name:    "verbose shows yaml",
			mutate:  func(*doctorResult) {},
			verbose: true,
			want:    []string{"    mode: commands"},
		},
		{
			name: "warnings",
			mutate: func(r *doctorResult) {
				r.Status = "warnings"
				r.Chrome = chromeInfo{}
				r.Warnings = []string{"Chrome/Chromium not found"}
			},
			want: []string{"[WARN] Not found", "[WARN] Chrome/Chromium not found", "Status: Ready with warnings"},
		},
		{
			name: "errors",
			mutate: func(r *doctorResult) {
				r.Status = "errors"
				r.Config = configInfo{Source: "work"}
				r.System.TempWritable = false
				r.Errors = []string{"loading config: not found"}
			},
			want: []string{"[ERROR] Source: work", "Temp directory: not writable", "[ERROR] loading config", "Status: Not ready"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := base()
			tt.mutate(r)
			var buf bytes.Buffer
			printDoctorResult(&buf, r, tt.verbose)
			out := buf.String()

			for _, s := range tt.want {
				if !strings.Contains(out, s) {
					t.Errorf("output missing %q:\n%s", s, out)
				}
			}
			for _, s := range tt.notWant {
				if strings.Contains(out, s) {
					t.Errorf("output should not contain %q:\n%s", s, out)
				}
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestRunDoctorCmd - Command entry point
// ---------------------------------------------------------------------------

func TestRunDoctorCmd_JSON(t *testing.T) {
	t.Parallel()

	tio := testEnv(t)
	err := runDoctorCmd([]string{"--json"}, tio.env)
	if err != nil && !errors.Is(err, errNotReady) {
		t.Fatalf("runDoctorCmd() error = %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(tio.stdout.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, tio.stdout.String())
	}
	for _, key := range []string{"status", "chrome", "config", "environment", "system"} {
		if _, ok := got[key]; !ok {
			t.Errorf("JSON missing %q", key)
		}
	}
	cfg, _ := got["config"].(map[string]any)
	if _, ok := cfg["YAML"]; ok {
		t.Error("config YAML must not be part of the JSON output")
	}
}

func TestRunDoctorCmd_MissingConfig(t *testing.T) {
	t.Parallel()

	tio := testEnv(t)
	err := runDoctorCmd([]string{"-c", filepath.Join(t.TempDir(), "nope.yaml")}, tio.env)
	if !errors.Is(err, errNotReady) {
		t.Fatalf("runDoctorCmd() error = %v, want errNotReady", err)
	}
	if !strings.Contains(tio.stdout.String(), "Status: Not ready") {
		t.Errorf("stdout = %q", tio.stdout.String())
	}
}
