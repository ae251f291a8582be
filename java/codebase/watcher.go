package codebase

import (
	"io/fs"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const DefaultDebounce = 200 * time.Millisecond

// FileWatcher rescans the codebase after .java files under its roots
// change. Bursts of events within the debounce window cause one rescan.
type FileWatcher struct {
	codebase *Codebase
	watcher  *fsnotify.Watcher
	debounce time.Duration
	onRescan func(*Result, error)

	stopCh   chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

func NewFileWatcher(c *Codebase) (*FileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &FileWatcher{
		codebase: c,
		watcher:  w,
		debounce: DefaultDebounce,
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}, nil
}

// OnRescan registers fn to be called after every rescan. Call before Start.
func (w *FileWatcher) OnRescan(fn func(*Result, error)) {
	w.onRescan = fn
}

func (w *FileWatcher) Start() error {
	for _, root := range w.codebase.Roots() {
		if err := w.addRecursive(root); err != nil {
			return err
		}
	}
	go w.run()
	return nil
}

func (w *FileWatcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		w.watcher.Close()
		<-w.done
	})
}

func (w *FileWatcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if path != root && w.codebase.isIgnored(root, path, true) {
			return filepath.SkipDir
		}
		return w.watcher.Add(path)
	})
}

func (w *FileWatcher) run() {
	defer close(w.done)

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-w.stopCh:
			if timer != nil {
				timer.Stop()
			}
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Create) {
				w.addRecursive(event.Name)
			}
			if !w.relevant(event) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				timer.Reset(w.debounce)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.codebase.log.Warningf("watch: %s", err)

		case <-timerC:
			timer = nil
			timerC = nil
			result, err := w.codebase.Rescan()
			if err != nil {
				w.codebase.log.Errorf("rescan: %s", err)
			}
			if w.onRescan != nil {
				w.onRescan(result, err)
			}
		}
	}
}

// relevant reports whether an event can change the graph: a .java file or
// a directory that may hold some.
func (w *FileWatcher) relevant(event fsnotify.Event) bool {
	if strings.HasSuffix(event.Name, ".java") {
		return true
	}
	return event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
}
