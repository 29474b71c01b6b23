package app

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bft-labs/assetship/internal/ports"
)

// DefaultWatchDebounce is how long a post must stay quiet before it is
// migrated again.
const DefaultWatchDebounce = 500 * time.Millisecond

// Watcher re-runs a migration for a post whenever its entry file changes.
// Migrations are idempotent, so the write made by a migration only triggers
// a run that finds nothing left to do.
type Watcher struct {
	root     string
	entry    string
	debounce time.Duration
	migrate  func(ctx context.Context, post string)
	logger   ports.Logger

	mu     sync.Mutex
	timers map[string]*time.Timer

	// runMu serialises migrations so their output does not interleave
	runMu sync.Mutex
}

// NewWatcher creates a Watcher over root/<post>/<entry>.
func NewWatcher(root, entry string, migrate func(ctx context.Context, post string), logger ports.Logger) *Watcher {
	return &Watcher{
		root:     root,
		entry:    entry,
		debounce: DefaultWatchDebounce,
		migrate:  migrate,
		logger:   logger,
		timers:   make(map[string]*time.Timer),
	}
}

// Run watches the given post folders until ctx is done.
func (w *Watcher) Run(ctx context.Context, posts []string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	for _, post := range posts {
		dir := filepath.Join(w.root, post)
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	w.logger.Info("watching posts", ports.Int("posts", len(posts)), ports.String("entry", w.entry))

	defer w.stopTimers()
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != w.entry {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			post := filepath.Base(filepath.Dir(event.Name))
			w.schedule(ctx, post)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", ports.Err(err))
		}
	}
}

func (w *Watcher) schedule(ctx context.Context, post string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.timers[post]; ok {
		t.Stop()
	}
	w.timers[post] = time.AfterFunc(w.debounce, func() {
		if ctx.Err() != nil {
			return
		}
		w.logger.Debug("entry file changed", ports.String("post", post))
		w.runMu.Lock()
		defer w.runMu.Unlock()
		w.migrate(ctx, post)
	})
}

func (w *Watcher) stopTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, t := range w.timers {
		t.Stop()
	}
}
