package source

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"docsync/internal/api"
	"docsync/internal/resolver"
	"docsync/pkg/logging"
)

// DefaultDebounce coalesces bursts of filesystem events into one trigger.
const DefaultDebounce = 500 * time.Millisecond

// Watcher wakes a loop when files under a disk source change.
//
// It watches the root and every service directory directly below it. New
// service directories are picked up as they appear. Events are debounced so
// that an editor writing several files results in a single trigger.
type Watcher struct {
	mu sync.Mutex

	root     string
	trigger  api.Trigger
	debounce time.Duration

	watcher *fsnotify.Watcher
	timer   *time.Timer
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewWatcher creates a watcher for root. A zero debounce uses DefaultDebounce.
func NewWatcher(root string, trigger api.Trigger, debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		root:     root,
		trigger:  trigger,
		debounce: debounce,
	}
}

// Start begins watching. It returns once the watches are in place.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return nil
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := fw.Add(w.root); err != nil {
		fw.Close()
		return err
	}

	entries, err := os.ReadDir(w.root)
	if err != nil {
		fw.Close()
		return err
	}
	for _, e := range entries {
		if e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
			w.addDir(fw, filepath.Join(w.root, e.Name()))
		}
	}

	w.watcher = fw
	w.running = true
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})

	go w.processEvents(ctx, fw, w.stopCh, w.doneCh)

	logging.Info("DiskSource", "Watching %s for document changes", w.root)
	return nil
}

func (w *Watcher) addDir(fw *fsnotify.Watcher, dir string) {
	if err := fw.Add(dir); err != nil {
		logging.Warn("DiskSource", "Failed to watch %s: %v", dir, err)
		return
	}
	logging.Debug("DiskSource", "Watching directory: %s", dir)
}

func (w *Watcher) processEvents(ctx context.Context, fw *fsnotify.Watcher, stopCh, doneCh chan struct{}) {
	defer close(doneCh)
	for {
		select {
		case <-ctx.Done():
			w.cancelPending()
			return

		case <-stopCh:
			w.cancelPending()
			return

		case event, ok := <-fw.Events:
			if !ok {
				return
			}
			w.handleEvent(fw, event)

		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			logging.Error("DiskSource", err, "Filesystem watcher error")
		}
	}
}

func (w *Watcher) handleEvent(fw *fsnotify.Watcher, event fsnotify.Event) {
	if strings.HasPrefix(filepath.Base(event.Name), ".") {
		return
	}

	// A new service directory directly below the root.
	if event.Op&fsnotify.Create == fsnotify.Create && filepath.Dir(event.Name) == filepath.Clean(w.root) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			w.addDir(fw, event.Name)
			w.schedule()
			return
		}
	}

	relevant := resolver.IsDocumentFile(event.Name) ||
		event.Op&(fsnotify.Remove|fsnotify.Rename) != 0
	if !relevant || event.Op == fsnotify.Chmod {
		return
	}
	w.schedule()
}

// schedule (re)arms the debounce timer.
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		logging.Debug("DiskSource", "Change detected under %s, triggering reconcile", w.root)
		w.trigger.Trigger()
	})
}

func (w *Watcher) cancelPending() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}

// Stop closes the watcher and waits for the event goroutine to exit.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = false
	close(w.stopCh)
	fw := w.watcher
	done := w.doneCh
	w.watcher = nil
	w.mu.Unlock()

	<-done
	err := fw.Close()
	logging.Info("DiskSource", "Stopped watching %s", w.root)
	return err
}
