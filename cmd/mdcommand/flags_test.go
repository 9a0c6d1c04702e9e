package main

// Notes:
// - parse*Flags: we test short and long forms, positional arguments, --help
//   returning errHelp after usage, and unknown flags mapped to ErrUsage.
// - serve --port: portSet distinguishes an explicit 0 from the default.
// These are acceptable gaps: pflag parsing itself is not retested.

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestParseConvertFlags - Convert command flags
// ---------------------------------------------------------------------------

func TestParseConvertFlags(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	f, positional, err := parseConvertFlags([]string{
		"notes", "-o", "out", "-t", "html", "-w", "4", "--timeout", "1m",
		"--mode", "off", "--title", "Plan", "--log", "-q",
		"-p", "a4", "--orientation", "landscape", "--margin", "1.5",
		"--style", "technical", "--asset-path", "assets",
	}, &buf)
	if err != nil {
		t.Fatalf("parseConvertFlags() error = %v", err)
	}

	if len(positional) != 1 || positional[0] != "notes" {
		t.Errorf("positional = %v, want [notes]", positional)
	}
	if f.output != "out" || f.format != "html" || f.workers != 4 || f.timeout != "1m" {
		t.Errorf("I/O flags = %+v", f)
	}
	if f.mode != "off" || f.title != "Plan" || !f.log || !f.common.quiet {
		t.Errorf("command flags = %+v", f)
	}
	if f.page.size != "a4" || f.page.orientation != "landscape" || f.page.margin != 1.5 {
		t.Errorf("page flags = %+v", f.page)
	}
	if f.assets.style != "technical" || f.assets.assetPath != "assets" {
		t.Errorf("asset flags = %+v", f.assets)
	}
	if buf.Len() != 0 {
		t.Errorf("parse should print nothing, got %q", buf.String())
	}
}

func TestParseFlags_Help(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		parse     func([]string, *bytes.Buffer) error
		wantUsage string
	}{
		{"convert", func(a []string, w *bytes.Buffer) error { _, _, err := parseConvertFlags(a, w); return err }, "mdcommand convert"},
		{"show", func(a []string, w *bytes.Buffer) error { _, _, err := parseShowFlags(a, w); return err }, "mdcommand show"},
		{"serve", func(a []string, w *bytes.Buffer) error { _, _, err := parseServeFlags(a, w); return err }, "mdcommand serve"},
		{"rules", func(a []string, w *bytes.Buffer) error { _, err := parseRulesFlags(a, w); return err }, "mdcommand rules"},
		{"doctor", func(a []string, w *bytes.Buffer) error { _, err := parseDoctorFlags(a, w); return err }, "mdcommand doctor"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			if err := tt.parse([]string{"--help"}, &buf); !errors.Is(err, errHelp) {
				t.Fatalf("--help error = %v, want errHelp", err)
			}
			if !strings.Contains(buf.String(), tt.wantUsage) {
				t.Errorf("usage = %q, want %q", buf.String(), tt.wantUsage)
			}

			buf.Reset()
			err := tt.parse([]string{"--no-such-flag"}, &buf)
			if !errors.Is(err, ErrUsage) {
				t.Fatalf("unknown flag error = %v, want ErrUsage", err)
			}
			if !strings.Contains(err.Error(), tt.name) {
				t.Errorf("error should name the command: %v", err)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestParseShowFlags - Show command flags
// ---------------------------------------------------------------------------

func TestParseShowFlags(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()
		f, positional, err := parseShowFlags([]string{"-"}, &bytes.Buffer{})
		if err != nil {
			t.Fatalf("error = %v", err)
		}
		if f.width != defaultShowWidth || f.raw || f.copy || f.theme != "" {
			t.Errorf("defaults = %+v", f)
		}
		if len(positional) != 1 || positional[0] != stdinArg {
			t.Errorf("positional = %v, want [-]", positional)
		}
	})

	t.Run("all flags", func(t *testing.T) {
		t.Parallel()
		f, _, err := parseShowFlags([]string{"--raw", "--copy", "--log", "--width", "60", "--theme", "notty", "a.md"}, &bytes.Buffer{})
		if err != nil {
			t.Fatalf("error = %v", err)
		}
		if !f.raw || !f.copy || !f.log || f.width != 60 || f.theme != "notty" {
			t.Errorf("flags = %+v", f)
		}
	})
}

// ---------------------------------------------------------------------------
// TestParseServeFlags - Serve command flags
// ---------------------------------------------------------------------------

func TestParseServeFlags_PortSet(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		args        []string
		wantPort    int
		wantPortSet bool
	}{
		{"default", nil, 0, false},
		{"explicit zero", []string{"--port", "0"}, 0, true},
		{"explicit port", []string{"--port=8080"}, 8080, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f, _, err := parseServeFlags(tt.args, &bytes.Buffer{})
			if err != nil {
				t.Fatalf("error = %v", err)
			}
			if f.port != tt.wantPort || f.portSet != tt.wantPortSet {
				t.Errorf("port = %d, portSet = %v; want %d, %v", f.port, f.portSet, tt.wantPort, tt.wantPortSet)
			}
		})
	}
}

func TestParseDoctorFlags(t *testing.T) {
	t.Parallel()

	f, err := parseDoctorFlags([]string{"--json", "-v", "-c", "work"}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("error = %v", err)
	}
	if !f.json || !f.common.verbose || f.common.config != "work" {
		t.Errorf("flags = %+v", f)
	}
}
