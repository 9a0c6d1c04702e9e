// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted as "\n  hint: <text>" so callers can append them to
// error messages.
package hints

import (
	"os"
	"strings"

	"github.com/alnah/go-mdcommand/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForBrowserConnect returns hints for browser connection errors during PDF
// export, suggesting the rod environment variables that usually help.
func ForBrowserConnect() string {
	var hints []string

	inCI := os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""

	if (inCI || IsInContainer()) && os.Getenv("ROD_NO_SANDBOX") != "1" {
		hints = append(hints, "set ROD_NO_SANDBOX=1 for Docker/CI")
	}
	if os.Getenv("ROD_BROWSER_BIN") == "" {
		hints = append(hints, "set ROD_BROWSER_BIN to use custom Chrome")
	}
	hints = append(hints, "or export with --to html instead")

	return formatHints(hints)
}

// ForTimeout returns a hint about increasing the timeout for slow exports.
func ForTimeout() string {
	return format("for large documents, use --timeout flag")
}

// ForConfigNotFound suggests --config and the user config location that
// was searched, if any.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"
	for _, p := range searchedPaths {
		if strings.Contains(filepathSlash(p), "/go-mdcommand/") {
			hint += " or create " + p
			break
		}
	}
	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForStyleNotFound lists the styles that do exist.
func ForStyleNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// ForInvalidRule points at the regexp syntax user rules are compiled with.
func ForInvalidRule() string {
	return format("rule patterns use Go RE2 syntax, see https://pkg.go.dev/regexp/syntax")
}

// ForAddressInUse suggests another port for the preview server.
func ForAddressInUse() string {
	return format("pick another port with --port or MDCOMMAND_PORT")
}

func filepathSlash(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints into one line.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
