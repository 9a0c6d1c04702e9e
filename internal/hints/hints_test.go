package hints

// Notes:
// - ForBrowserConnect tests cannot use t.Parallel(): they call t.Setenv and
//   swap the package-level IsInContainer variable.

import (
	"strings"
	"testing"
)

func stubContainer(t *testing.T, inContainer bool) {
	t.Helper()
	orig := IsInContainer
	t.Cleanup(func() { IsInContainer = orig })
	IsInContainer = func() bool { return inContainer }
}

// ---------------------------------------------------------------------------
// TestForBrowserConnect - Environment-dependent hints
// ---------------------------------------------------------------------------

func TestForBrowserConnect(t *testing.T) {
	tests := []struct {
		name        string
		container   bool
		env         map[string]string
		wantContain []string
		wantExclude []string
	}{
		{
			name:        "CI without sandbox setting",
			env:         map[string]string{"CI": "true", "ROD_NO_SANDBOX": "", "ROD_BROWSER_BIN": ""},
			wantContain: []string{"hint:", "ROD_NO_SANDBOX", "ROD_BROWSER_BIN", "--to html"},
		},
		{
			name:        "docker",
			container:   true,
			env:         map[string]string{"CI": "", "ROD_NO_SANDBOX": "", "ROD_BROWSER_BIN": ""},
			wantContain: []string{"ROD_NO_SANDBOX"},
		},
		{
			name:        "sandbox already disabled",
			container:   true,
			env:         map[string]string{"CI": "", "ROD_NO_SANDBOX": "1", "ROD_BROWSER_BIN": ""},
			wantExclude: []string{"ROD_NO_SANDBOX"},
		},
		{
			name:        "local machine with browser bin",
			env:         map[string]string{"CI": "", "GITHUB_ACTIONS": "", "GITLAB_CI": "", "JENKINS_URL": "", "ROD_BROWSER_BIN": "/usr/bin/chromium"},
			wantContain: []string{"--to html"},
			wantExclude: []string{"ROD_NO_SANDBOX", "ROD_BROWSER_BIN"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stubContainer(t, tt.container)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			hint := ForBrowserConnect()
			for _, want := range tt.wantContain {
				if !strings.Contains(hint, want) {
					t.Errorf("ForBrowserConnect() = %q, want %q", hint, want)
				}
			}
			for _, not := range tt.wantExclude {
				if strings.Contains(hint, not) {
					t.Errorf("ForBrowserConnect() = %q, should not contain %q", hint, not)
				}
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestStaticHints
// ---------------------------------------------------------------------------

func TestForConfigNotFound(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		paths []string
		want  string
		not   string
	}{
		{
			name:  "suggests user config path",
			paths: []string{"work.yaml", "/home/u/.config/go-mdcommand/work.yaml"},
			want:  "or create /home/u/.config/go-mdcommand/work.yaml",
		},
		{
			name:  "windows separators",
			paths: []string{`C:\Users\u\AppData\Roaming\go-mdcommand\work.yaml`},
			want:  "or create",
		},
		{
			name:  "local only",
			paths: []string{"work.yaml", "work.yml"},
			want:  "--config",
			not:   "or create",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := ForConfigNotFound(tt.paths)
			if !strings.Contains(got, tt.want) {
				t.Errorf("ForConfigNotFound() = %q, want %q", got, tt.want)
			}
			if tt.not != "" && strings.Contains(got, tt.not) {
				t.Errorf("ForConfigNotFound() = %q, should not contain %q", got, tt.not)
			}
		})
	}
}

func TestForStyleNotFound(t *testing.T) {
	t.Parallel()

	if got := ForStyleNotFound(nil); got != "" {
		t.Errorf("ForStyleNotFound(nil) = %q, want empty", got)
	}
	if got := ForStyleNotFound([]string{"default", "minimal"}); got != "\n  hint: available: default, minimal" {
		t.Errorf("ForStyleNotFound() = %q", got)
	}
}

func TestFormat_Consistency(t *testing.T) {
	t.Parallel()

	for name, hint := range map[string]string{
		"timeout":   ForTimeout(),
		"output":    ForOutputDirectory(),
		"rule":      ForInvalidRule(),
		"port":      ForAddressInUse(),
		"config":    ForConfigNotFound(nil),
		"available": ForStyleNotFound([]string{"x"}),
	} {
		if !strings.HasPrefix(hint, "\n  hint: ") {
			t.Errorf("%s hint = %q, want \\n  hint: prefix", name, hint)
		}
		if strings.Count(hint, "hint:") != 1 {
			t.Errorf("%s hint = %q, want exactly one hint marker", name, hint)
		}
	}

	if format("") != "" || formatHints(nil) != "" {
		t.Error("empty hints should format to empty string")
	}
}
