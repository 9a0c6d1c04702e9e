package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	mdcommand "github.com/alnah/go-mdcommand"
	"github.com/alnah/go-mdcommand/internal/fileutil"
	"github.com/alnah/go-mdcommand/internal/pipeline"
)

// Sentinel errors for batch operations.
var (
	ErrNoInput      = errors.New("no input specified")
	ErrReadMarkdown = errors.New("failed to read markdown file")
	ErrWriteOutput  = errors.New("failed to write output file")
)

// CLIConverter is the slice of *mdcommand.Converter the batch uses.
type CLIConverter interface {
	Transform(buffer string, mode mdcommand.Mode) (string, []mdcommand.LogEntry)
	Convert(ctx context.Context, input mdcommand.Input) (*mdcommand.ConvertResult, error)
}

// Compile-time interface implementation check.
var _ CLIConverter = (*mdcommand.Converter)(nil)

// Pool abstracts converter pool operations for testability.
type Pool interface {
	Acquire() (CLIConverter, error)
	Release(CLIConverter)
	Size() int
	Close() error
}

// conversionParams groups settings shared by every file of a batch.
type conversionParams struct {
	format mdcommand.Format
	mode   mdcommand.Mode
	title  string
	page   *mdcommand.PageSettings
}

// ConversionResult holds the outcome of a single conversion.
type ConversionResult struct {
	InputPath  string
	OutputPath string
	Log        []mdcommand.LogEntry
	Err        error
	Duration   time.Duration
}

// convertBatch processes files concurrently using the converter pool.
// Results keep the order of files.
func convertBatch(ctx context.Context, pool Pool, files []FileToConvert, params *conversionParams) []ConversionResult {
	if len(files) == 0 {
		return nil
	}

	concurrency := min(pool.Size(), len(files))

	results := make([]ConversionResult, len(files))
	var wg sync.WaitGroup
	jobs := make(chan int, len(files))

	for range concurrency {
		wg.Add(1)
		go func() {
			defer wg.Done()

			conv, err := pool.Acquire()
			if err != nil {
				// Converter creation failed, mark this worker's jobs as failed
				for idx := range jobs {
					results[idx] = ConversionResult{
						InputPath: files[idx].InputPath,
						Err:       fmt.Errorf("creating converter: %w", err),
					}
				}
				return
			}
			defer pool.Release(conv)

			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = ConversionResult{
						InputPath: files[idx].InputPath,
						Err:       ctx.Err(),
					}
					continue
				}
				results[idx] = convertFile(ctx, conv, files[idx], params)
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// convertFile processes a single file and returns the result.
func convertFile(ctx context.Context, conv CLIConverter, f FileToConvert, params *conversionParams) ConversionResult {
	start := time.Now()
	result := ConversionResult{
		InputPath:  f.InputPath,
		OutputPath: f.OutputPath,
	}
	finish := func(err error) ConversionResult {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	content, err := os.ReadFile(f.InputPath) // #nosec G304 -- discovered path
	if err != nil {
		return finish(fmt.Errorf("%w: %v", ErrReadMarkdown, err))
	}

	var out []byte
	if params.format == mdcommand.FormatMarkdown {
		md, log := conv.Transform(pipeline.NormalizeLineEndings(string(content)), params.mode)
		result.Log = log
		out = []byte(md)
	} else {
		out, err = render(ctx, conv, string(content), f.InputPath, params, &result)
		if err != nil {
			return finish(err)
		}
	}

	if err := fileutil.WriteFile(f.OutputPath, out); err != nil {
		return finish(fmt.Errorf("%w: %v", ErrWriteOutput, err))
	}
	return finish(nil)
}

// render runs the full pipeline for HTML or PDF output. The log is kept on
// result even when rendering fails.
func render(ctx context.Context, conv CLIConverter, content, inputPath string, params *conversionParams, result *ConversionResult) ([]byte, error) {
	sourceDir, err := filepath.Abs(filepath.Dir(inputPath))
	if err != nil {
		return nil, fmt.Errorf("resolving source directory: %w", err)
	}

	res, err := conv.Convert(ctx, mdcommand.Input{
		Markdown:  content,
		Mode:      params.mode,
		Title:     params.title,
		SourceDir: sourceDir,
		HTMLOnly:  params.format == mdcommand.FormatHTML,
		Page:      params.page,
	})
	if res != nil {
		result.Log = res.Log
	}
	if err != nil {
		return nil, err
	}

	if params.format == mdcommand.FormatHTML {
		return res.HTML, nil
	}
	return res.PDF, nil
}

// ResultSummary holds the count of succeeded and failed conversions.
type ResultSummary struct {
	Succeeded int
	Failed    int
}

// countResults tallies succeeded and failed conversions.
func countResults(results []ConversionResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
	}
	return summary
}

// printOptions controls batch result output.
type printOptions struct {
	quiet   bool
	verbose bool
	log     bool // print each file's conversion log
}

// printResultsWithWriter outputs conversion results using the provided writers.
// Returns the number of failures.
func printResultsWithWriter(results []ConversionResult, opts printOptions, env *Environment) int {
	summary := countResults(results)

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.InputPath, r.Err)
			continue
		}

		if opts.quiet {
			continue
		}

		if opts.verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%v, %d command(s))\n",
				r.InputPath, r.OutputPath, r.Duration.Round(time.Millisecond), len(r.Log))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}

		if opts.log && len(r.Log) > 0 {
			writeLogTable(env.Stdout, r.Log)
		}
	}

	if !opts.quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	}

	return summary.Failed
}

// firstError returns the first failure of a batch, or nil.
func firstError(results []ConversionResult) error {
	for _, r := range results {
		if r.Err != nil {
			return r.Err
		}
	}
	return nil
}
