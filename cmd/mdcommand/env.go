package main

import (
	"io"
	"os"
	"time"

	"github.com/atotto/clipboard"

	mdcommand "github.com/alnah/go-mdcommand"
	"github.com/alnah/go-mdcommand/internal/assets"
	"github.com/alnah/go-mdcommand/internal/config"
)

// Environment holds injectable dependencies for testability.
// Includes I/O, time, configuration, asset loading and the converter pool.
type Environment struct {
	Now         func() time.Time
	Stdin       io.Reader
	Stdout      io.Writer
	Stderr      io.Writer
	AssetLoader assets.AssetLoader
	Config      *config.Config // used when no config file is named

	// Clipboard receives the canonical Markdown for "show --copy".
	Clipboard func(text string) error

	// NewPool builds the converter pool used by "convert".
	NewPool func(size int, opts ...mdcommand.Option) Pool
}

// DefaultEnv returns production environment with embedded assets.
func DefaultEnv() *Environment {
	return &Environment{
		Now:         time.Now,
		Stdin:       os.Stdin,
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
		AssetLoader: assets.NewEmbeddedLoader(),
		Config:      config.DefaultConfig(),
		Clipboard:   clipboard.WriteAll,
		NewPool:     newPoolAdapter,
	}
}
