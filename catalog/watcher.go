package catalog

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"catalog-browser/utils"
)

// Watcher calls onChange once a watched file has been quiet for the debounce
// window after a create, write, remove or rename. It watches the parent
// directory so editors that replace the file atomically are still seen.
type Watcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	path     string
	onChange func()
	logger   *utils.Logger
	debounce time.Duration
	pending  time.Time
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool
}

// NewWatcher returns a stopped watcher for path.
func NewWatcher(path string, onChange func(), logger *utils.Logger, debounce time.Duration) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watcher: resolve %q: %w", path, err)
	}
	if debounce <= 0 {
		debounce = 300 * time.Millisecond
	}
	return &Watcher{path: abs, onChange: onChange, logger: logger, debounce: debounce}, nil
}

// Start begins watching in a goroutine. It returns once the directory watch is in place.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		_ = fw.Close()
		return fmt.Errorf("watcher: watch %q: %w", filepath.Dir(w.path), err)
	}

	w.watcher = fw
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	w.running = true
	w.logger.Info("[watcher] Watching %s", w.path)

	go w.run(ctx)
	return nil
}

// Stop ends the watch and waits for the goroutine to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	if err := w.watcher.Close(); err != nil {
		w.logger.Error("[watcher] Close failed: %v", err)
	}
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	tick := time.NewTicker(w.debounce / 3)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path || !event.Has(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) {
				continue
			}
			w.logger.Debug("[watcher] %s %s", event.Op, event.Name)
			w.mu.Lock()
			w.pending = time.Now()
			w.mu.Unlock()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			if !errors.Is(err, fsnotify.ErrEventOverflow) {
				w.logger.Error("[watcher] %v", err)
				continue
			}
			w.mu.Lock()
			w.pending = time.Now()
			w.mu.Unlock()

		case <-tick.C:
			w.mu.Lock()
			settled := !w.pending.IsZero() && time.Since(w.pending) >= w.debounce
			if settled {
				w.pending = time.Time{}
			}
			w.mu.Unlock()
			if settled {
				w.logger.Info("[watcher] %s changed", filepath.Base(w.path))
				w.onChange()
			}
		}
	}
}
