package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"time"

	mdcommand "github.com/alnah/go-mdcommand"
	"github.com/alnah/go-mdcommand/internal/assets"
	"github.com/alnah/go-mdcommand/internal/config"
	"github.com/alnah/go-mdcommand/internal/fileutil"
	"github.com/alnah/go-mdcommand/internal/logging"
	"github.com/alnah/go-mdcommand/internal/pipeline"
	"github.com/alnah/go-mdcommand/internal/preview"
)

// runServe starts the browser preview and blocks until ctx is done.
func runServe(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseServeFlags(args, env.Stdout)
	if err != nil {
		return err
	}

	switch {
	case flags.common.verbose:
		logging.SetLevel(slog.LevelDebug)
	case flags.common.quiet:
		logging.SetLevel(slog.LevelError)
	}

	envCfg := loadEnvConfig()
	cfg, err := loadConfig(flags.common.config, envCfg, env)
	if err != nil {
		return err
	}
	mergeServeFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	rules, err := cfg.CompileRules()
	if err != nil {
		return err
	}

	loader, err := resolveLoader(cfg.Assets.BasePath, env.AssetLoader)
	if err != nil {
		return err
	}
	styleCSS, err := resolveStyleCSS(cfg.Style, loader)
	if err != nil {
		return err
	}

	rootDir := cfg.Input.DefaultDir
	if len(positional) > 0 {
		rootDir = positional[0]
	}
	if rootDir == "" {
		rootDir = "."
	}

	pcfg := preview.Config{
		Host:      cfg.Preview.Host,
		Port:      cfg.Preview.Port,
		RootDir:   rootDir,
		WatchFile: cfg.Preview.Watch,
		Commands:  !cfg.Passthrough(),
		Debounce:  time.Duration(cfg.Preview.DebounceMs) * time.Millisecond,
		Title:     flags.title,
	}
	srv, err := preview.New(pcfg,
		preview.WithTransformer(pipeline.NewTransformer(rules...)),
		preview.WithStyle(styleCSS),
		preview.WithAssetLoader(loader),
	)
	if err != nil {
		return err
	}
	defer func() { _ = srv.Close() }()

	ln, err := net.Listen("tcp", pcfg.Addr())
	if err != nil {
		return fmt.Errorf("starting preview: %w", err)
	}

	if !flags.common.quiet {
		fmt.Fprintf(env.Stdout, "Preview at http://%s (Ctrl+C to stop)\n", ln.Addr())
		if cfg.Preview.Watch != "" {
			fmt.Fprintf(env.Stdout, "Watching %s\n", cfg.Preview.Watch)
		}
	}

	return srv.Serve(ctx, ln)
}

// mergeServeFlags merges CLI flags into config.
func mergeServeFlags(flags *serveFlags, cfg *config.Config) {
	if flags.mode != "" {
		cfg.Mode = flags.mode
	}
	if flags.host != "" {
		cfg.Preview.Host = flags.host
	}
	if flags.portSet {
		cfg.Preview.Port = flags.port
	}
	if flags.watch != "" {
		cfg.Preview.Watch = flags.watch
	}
	if flags.debounce > 0 {
		cfg.Preview.DebounceMs = flags.debounce
	}
	if flags.assets.style != "" {
		cfg.Style = flags.assets.style
	}
	if flags.assets.assetPath != "" {
		cfg.Assets.BasePath = flags.assets.assetPath
	}
}

// resolveLoader layers a custom asset directory over the given loader.
func resolveLoader(assetPath string, fallback assets.AssetLoader) (assets.AssetLoader, error) {
	if assetPath == "" {
		return fallback, nil
	}
	resolver, err := assets.NewAssetResolver(assetPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", mdcommand.ErrInvalidAssetPath, err)
	}
	return resolver, nil
}

// resolveStyleCSS turns a style name, CSS file path or inline CSS into
// CSS. Empty selects the default style.
func resolveStyleCSS(style string, loader assets.AssetLoader) (string, error) {
	if style == "" {
		style = assets.DefaultStyleName
	}
	if fileutil.IsFilePath(style) {
		data, err := os.ReadFile(filepath.Clean(style))
		if err != nil {
			return "", fmt.Errorf("loading style file %q: %w", style, err)
		}
		return string(data), nil
	}
	if fileutil.IsCSS(style) {
		return style, nil
	}
	css, err := loader.LoadStyle(style)
	if err != nil {
		return "", fmt.Errorf("loading style %q: %w", style, err)
	}
	return css, nil
}
