package main

// Notes:
// - This file contains test doubles shared across command tests.
// - testEnv builds an Environment writing to buffers, with the real
//   embedded assets and default config, and a clipboard that records text.
// No coverage gaps: this is test infrastructure, not production code.

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	mdcommand "github.com/alnah/go-mdcommand"
	"github.com/alnah/go-mdcommand/internal/assets"
	"github.com/alnah/go-mdcommand/internal/config"
)

// ---------------------------------------------------------------------------
// Environment
// ---------------------------------------------------------------------------

type testIO struct {
	env     *Environment
	stdout  *bytes.Buffer
	stderr  *bytes.Buffer
	copied  *string
	copyErr error
}

func testEnv(t *testing.T) *testIO {
	t.Helper()

	tio := &testIO{
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
		copied: new(string),
	}
	tio.env = &Environment{
		Now:         time.Now,
		Stdin:       strings.NewReader(""),
		Stdout:      tio.stdout,
		Stderr:      tio.stderr,
		AssetLoader: assets.NewEmbeddedLoader(),
		Config:      config.DefaultConfig(),
		Clipboard: func(text string) error {
			if tio.copyErr != nil {
				return tio.copyErr
			}
			*tio.copied = text
			return nil
		},
		NewPool: newPoolAdapter,
	}
	return tio
}

// writeFile creates dir/name with content and returns its path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

// ---------------------------------------------------------------------------
// Converter and pool doubles
// ---------------------------------------------------------------------------

// mockConverter returns a fixed result from Convert and marks Transform
// output so tests can tell it ran.
type mockConverter struct {
	result *mdcommand.ConvertResult
	err    error

	mu     sync.Mutex
	inputs []mdcommand.Input
}

func (m *mockConverter) Transform(buffer string, mode mdcommand.Mode) (string, []mdcommand.LogEntry) {
	if mode == mdcommand.ModePassthrough {
		return buffer, nil
	}
	return "converted: " + buffer, []mdcommand.LogEntry{{LineNumber: 1, Original: buffer, Description: "Mock conversion"}}
}

func (m *mockConverter) Convert(_ context.Context, input mdcommand.Input) (*mdcommand.ConvertResult, error) {
	m.mu.Lock()
	m.inputs = append(m.inputs, input)
	m.mu.Unlock()
	return m.result, m.err
}

func (m *mockConverter) lastInput() mdcommand.Input {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.inputs[len(m.inputs)-1]
}

// mockPool hands out the same converter to every worker.
type mockPool struct {
	conv       CLIConverter
	size       int
	acquireErr error

	acquired atomic.Int32
	released atomic.Int32
	closed   atomic.Bool
}

func (p *mockPool) Acquire() (CLIConverter, error) {
	if p.acquireErr != nil {
		return nil, p.acquireErr
	}
	p.acquired.Add(1)
	return p.conv, nil
}

func (p *mockPool) Release(CLIConverter) { p.released.Add(1) }

func (p *mockPool) Size() int { return p.size }

func (p *mockPool) Close() error {
	p.closed.Store(true)
	return nil
}

// withMockPool makes env.NewPool return pool and records the options size.
func withMockPool(env *Environment, pool *mockPool) {
	env.NewPool = func(int, ...mdcommand.Option) Pool { return pool }
}
