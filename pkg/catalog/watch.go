package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce collapses the burst of events editors emit per save.
const DefaultDebounce = 200 * time.Millisecond

// Watcher calls back when catalog files change. Bursts of events are collapsed
// into a single callback after the debounce interval.
type Watcher struct {
	fw       *fsnotify.Watcher
	debounce time.Duration
	done     chan struct{}
	stopped  bool
	mu       sync.Mutex
	wg       sync.WaitGroup
}

// NewWatcher creates a catalog watcher. A debounce of zero uses DefaultDebounce.
func NewWatcher(debounce time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		fw:       fw,
		debounce: debounce,
		done:     make(chan struct{}),
	}, nil
}

// Watch starts monitoring a catalog path. For a file its parent dir is watched
// and only that file's events count. onChange receives the last changed path.
func (w *Watcher) Watch(path string, onChange func(path string)) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return fmt.Errorf("failed to stat catalog %s: %w", absPath, err)
	}

	dir, only := absPath, ""
	if !info.IsDir() {
		dir, only = filepath.Dir(absPath), absPath
	}
	if err := w.fw.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	log.Debugf("Watching catalog at %s", dir)

	w.wg.Add(1)
	go w.loop(only, onChange)
	return nil
}

func (w *Watcher) loop(only string, onChange func(path string)) {
	defer w.wg.Done()

	var timer *time.Timer
	var fire <-chan time.Time
	last := ""

	for {
		select {
		case event, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if !relevant(event, only) {
				continue
			}
			last = event.Name
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			log.Debugf("Catalog changed: %s", last)
			onChange(last)

		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			log.Warnf("Catalog watcher error: %v", err)

		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

func relevant(event fsnotify.Event, only string) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	if only != "" {
		return event.Name == only
	}
	base := filepath.Base(event.Name)
	return len(base) > 0 && base[0] != '.' && IsCatalogFile(base)
}

// Stop ends monitoring. No callbacks fire after Stop returns.
// Safe to call multiple times.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil
	}
	w.stopped = true
	close(w.done)
	err := w.fw.Close()
	w.wg.Wait()
	return err
}
