package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	mdcommand "github.com/alnah/go-mdcommand"
	"github.com/alnah/go-mdcommand/internal/config"
)

// ErrInvalidTimeout indicates a --timeout or export.timeout value that is
// not a positive duration.
var ErrInvalidTimeout = errors.New("invalid timeout")

// runConvert orchestrates a batch conversion.
func runConvert(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseConvertFlags(args, env.Stdout)
	if err != nil {
		return err
	}

	envCfg := loadEnvConfig()
	if flags.workers == 0 {
		flags.workers = envCfg.Workers
	}
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}

	cfg, err := loadConfig(flags.common.config, envCfg, env)
	if err != nil {
		return err
	}
	mergeConvertFlags(flags, cfg)

	mode, err := mdcommand.ParseMode(cfg.Mode)
	if err != nil {
		return err
	}
	format, err := mdcommand.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}
	timeout, err := resolveTimeout(flags.timeout, envCfg.Timeout, cfg)
	if err != nil {
		return err
	}
	page, err := buildPageSettings(cfg)
	if err != nil {
		return err
	}
	rules, err := cfg.CompileRules()
	if err != nil {
		return err
	}

	inputPath, err := resolveInputPath(positional, cfg)
	if err != nil {
		return err
	}
	files, err := discoverFiles(inputPath, resolveOutputDir(flags.output, cfg), format)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("%w: no markdown files found in %s", ErrNoInput, inputPath)
	}

	opts := []mdcommand.Option{
		mdcommand.WithStyle(cfg.Style),
		mdcommand.WithAssetPath(cfg.Assets.BasePath),
		mdcommand.WithRules(rules...),
	}
	if timeout > 0 {
		opts = append(opts, mdcommand.WithTimeout(timeout))
	}

	poolSize := mdcommand.ResolvePoolSize(flags.workers)
	if format == mdcommand.FormatPDF && flags.common.verbose {
		fmt.Fprintf(env.Stderr, "Pool size: %d\n", poolSize)
	}
	pool := env.NewPool(poolSize, opts...)
	defer func() { _ = pool.Close() }()

	results := convertBatch(ctx, pool, files, &conversionParams{
		format: format,
		mode:   mode,
		title:  cfg.Export.Title,
		page:   page,
	})

	failed := printResultsWithWriter(results, printOptions{
		quiet:   flags.common.quiet,
		verbose: flags.common.verbose,
		log:     flags.log,
	}, env)
	if failed > 0 {
		return fmt.Errorf("%d conversion(s) failed: %w", failed, firstError(results))
	}
	return nil
}

// mergeConvertFlags merges CLI flags into config. CLI values override
// config and environment values.
func mergeConvertFlags(flags *convertFlags, cfg *config.Config) {
	if flags.mode != "" {
		cfg.Mode = flags.mode
	}
	if flags.format != "" {
		cfg.Output.Format = flags.format
	}
	if flags.title != "" {
		cfg.Export.Title = flags.title
	}
	if flags.assets.style != "" {
		cfg.Style = flags.assets.style
	}
	if flags.assets.assetPath != "" {
		cfg.Assets.BasePath = flags.assets.assetPath
	}
	if flags.page.size != "" {
		cfg.Export.Page.Size = flags.page.size
	}
	if flags.page.orientation != "" {
		cfg.Export.Page.Orientation = flags.page.orientation
	}
	if flags.page.margin != 0 {
		cfg.Export.Page.Margin = flags.page.margin
	}
}

// resolveTimeout picks the export timeout: flag, then environment, then
// config. Zero means the library default.
func resolveTimeout(flagValue string, envValue time.Duration, cfg *config.Config) (time.Duration, error) {
	if flagValue != "" {
		d, err := time.ParseDuration(flagValue)
		if err != nil {
			return 0, fmt.Errorf("%w: %q: %v", ErrInvalidTimeout, flagValue, err)
		}
		if d <= 0 {
			return 0, fmt.Errorf("%w: %q must be positive", ErrInvalidTimeout, flagValue)
		}
		return d, nil
	}
	if envValue > 0 {
		return envValue, nil
	}
	d, err := cfg.ExportTimeout()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidTimeout, err)
	}
	return d, nil
}

// buildPageSettings fills unset page fields with defaults and validates
// the result.
func buildPageSettings(cfg *config.Config) (*mdcommand.PageSettings, error) {
	page := mdcommand.DefaultPageSettings()
	if cfg.Export.Page.Size != "" {
		page.Size = cfg.Export.Page.Size
	}
	if cfg.Export.Page.Orientation != "" {
		page.Orientation = cfg.Export.Page.Orientation
	}
	if cfg.Export.Page.Margin != 0 {
		page.Margin = cfg.Export.Page.Margin
	}
	if err := page.Validate(); err != nil {
		return nil, err
	}
	return page, nil
}
