package mdcommand

import (
	"errors"

	"github.com/alnah/go-mdcommand/internal/assets"
	"github.com/alnah/go-mdcommand/internal/pipeline"
)

// Sentinel errors for library operations.
var (
	ErrHTMLConversion = pipeline.ErrHTMLConversion
	ErrPDFGeneration  = errors.New("PDF generation failed")
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")

	// Input validation errors.
	ErrInvalidMode   = errors.New("invalid mode")
	ErrInvalidFormat = errors.New("invalid output format")
	ErrInvalidRule   = pipeline.ErrInvalidRule

	// Page settings validation errors.
	ErrInvalidPageSize    = errors.New("invalid page size")
	ErrInvalidOrientation = errors.New("invalid orientation")
	ErrInvalidMargin      = errors.New("invalid margin")

	// Asset loading errors.
	ErrStyleNotFound    = assets.ErrStyleNotFound
	ErrInvalidAssetPath = errors.New("invalid asset path")
)
