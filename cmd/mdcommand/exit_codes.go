package main

import (
	"errors"
	"os"

	mdcommand "github.com/alnah/go-mdcommand"
	"github.com/alnah/go-mdcommand/internal/config"
)

// Exit codes for the mdcommand CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful run
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied
	ExitBrowser = 4 // Browser/Chrome errors during PDF export
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, mdcommand.ErrBrowserConnect) ||
		errors.Is(err, mdcommand.ErrPageCreate) ||
		errors.Is(err, mdcommand.ErrPageLoad) ||
		errors.Is(err, mdcommand.ErrPDFGeneration) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadMarkdown) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrClipboard) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrUnknownCommand) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, mdcommand.ErrInvalidMode) ||
		errors.Is(err, mdcommand.ErrInvalidFormat) ||
		errors.Is(err, mdcommand.ErrInvalidRule) ||
		errors.Is(err, mdcommand.ErrInvalidPageSize) ||
		errors.Is(err, mdcommand.ErrInvalidOrientation) ||
		errors.Is(err, mdcommand.ErrInvalidMargin) ||
		errors.Is(err, mdcommand.ErrStyleNotFound) ||
		errors.Is(err, mdcommand.ErrInvalidAssetPath) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrInvalidTimeout) ||
		errors.Is(err, ErrUnsupportedShell) {
		return ExitUsage
	}

	return ExitGeneral
}
