package preview

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watcher calls onChange after writes to a single file settle.
// The parent directory is watched so editors that save by renaming a
// temp file over the target are still seen.
type watcher struct {
	path     string
	fsw      *fsnotify.Watcher
	debounce time.Duration
	onChange func()
	log      *slog.Logger
}

func newWatcher(path string, debounce time.Duration, onChange func(), log *slog.Logger) (*watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWatch, err)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWatch, err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("%w: %v", ErrWatch, err)
	}
	return &watcher{
		path:     abs,
		fsw:      fsw,
		debounce: debounce,
		onChange: onChange,
		log:      log,
	}, nil
}

// run blocks until ctx is done or the watcher is closed.
func (w *watcher) run(ctx context.Context) {
	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path || !(ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
				continue
			}
			w.log.Debug("file changed", "path", ev.Name, "op", ev.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			w.onChange()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error", "error", err)
		}
	}
}

func (w *watcher) close() error {
	return w.fsw.Close()
}
