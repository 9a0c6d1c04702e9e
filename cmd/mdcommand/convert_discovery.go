package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	mdcommand "github.com/alnah/go-mdcommand"
	"github.com/alnah/go-mdcommand/internal/config"
	"github.com/alnah/go-mdcommand/internal/fileutil"
)

// Sentinel errors for file discovery.
var (
	ErrInvalidExtension   = errors.New("file must have .md, .markdown or .txt extension")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
)

// convertedSuffix keeps Markdown output from overwriting its source.
const convertedSuffix = ".converted"

// FileToConvert represents a single file to process.
type FileToConvert struct {
	InputPath  string
	OutputPath string
}

// resolveInputPath determines the input path from args or config.
func resolveInputPath(args []string, cfg *config.Config) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if cfg.Input.DefaultDir != "" {
		return cfg.Input.DefaultDir, nil
	}
	return "", ErrNoInput
}

// resolveOutputDir determines the output directory from flag or config.
func resolveOutputDir(flagOutput string, cfg *config.Config) string {
	if flagOutput != "" {
		return flagOutput
	}
	return cfg.Output.DefaultDir
}

// discoverFiles finds all source files to convert. A directory is walked
// recursively and its layout mirrored under outputDir.
func discoverFiles(inputPath, outputDir string, format mdcommand.Format) ([]FileToConvert, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if err := validateMarkdownExtension(inputPath); err != nil {
			return nil, err
		}
		outPath := resolveOutputPath(inputPath, outputDir, "", format)
		return []FileToConvert{{InputPath: inputPath, OutputPath: outPath}}, nil
	}

	var files []FileToConvert
	err = filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() {
			return nil
		}
		if !fileutil.IsMarkdownFile(path) || isConvertedOutput(path) {
			return nil
		}
		outPath := resolveOutputPath(path, outputDir, inputPath, format)
		files = append(files, FileToConvert{InputPath: path, OutputPath: outPath})
		return nil
	})

	return files, err
}

// resolveOutputPath determines the output path for a source file.
// An outputDir ending in the format extension is taken as the output file.
func resolveOutputPath(inputPath, outputDir, baseInputDir string, format mdcommand.Format) string {
	ext := "." + format.Ext()
	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))

	if outputDir != "" && strings.HasSuffix(strings.ToLower(outputDir), ext) {
		return outputDir
	}

	dir := filepath.Dir(inputPath)
	if outputDir != "" {
		dir = outputDir
		if baseInputDir != "" {
			if relPath, err := filepath.Rel(baseInputDir, inputPath); err == nil {
				dir = filepath.Join(outputDir, filepath.Dir(relPath))
			}
		}
	}

	outPath := filepath.Join(dir, base+ext)
	if samePath(outPath, inputPath) {
		outPath = filepath.Join(dir, base+convertedSuffix+ext)
	}
	return outPath
}

// isConvertedOutput reports whether path was written by a previous
// Markdown conversion, so re-running on a directory does not chain.
func isConvertedOutput(path string) bool {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return strings.HasSuffix(name, convertedSuffix)
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}

// validateMarkdownExtension checks that the file has a source extension.
func validateMarkdownExtension(path string) error {
	if !fileutil.IsMarkdownFile(path) {
		return fmt.Errorf("%w: got %q", ErrInvalidExtension, filepath.Ext(path))
	}
	return nil
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > mdcommand.MaxPoolSize {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, mdcommand.MaxPoolSize)
	}
	return nil
}
