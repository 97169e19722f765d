package ui

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
)

// reloadDebounce collapses the burst of events an editor produces when it
// saves a file.
const reloadDebounce = 200 * time.Millisecond

// sourceWatcher reports changes to the one file loaded in the editor.
//
// The parent directory is watched instead of the file itself so that
// editors which save by renaming a temp file over the original are seen.
type sourceWatcher struct {
	watcher *fsnotify.Watcher
	changes chan string

	mu     sync.Mutex
	path   string
	dir    string
	timer  *time.Timer
	closed bool
}

func newSourceWatcher() (*sourceWatcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	w := &sourceWatcher{
		watcher: fsWatcher,
		changes: make(chan string, 1),
	}
	go w.processEvents()
	return w, nil
}

// Watch switches the watcher to path. Events for the previous file stop.
func (w *sourceWatcher) Watch(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	dir := filepath.Dir(abs)

	w.mu.Lock()
	defer w.mu.Unlock()

	if dir != w.dir {
		if w.dir != "" {
			_ = w.watcher.Remove(w.dir)
		}
		if err := w.watcher.Add(dir); err != nil {
			w.dir = ""
			w.path = ""
			return fmt.Errorf("failed to watch folder %s: %w", dir, err)
		}
		w.dir = dir
	}
	w.path = abs
	log.WithField("path", abs).Debug("watching source")
	return nil
}

// Changes delivers the path of the watched file after it is written.
func (w *sourceWatcher) Changes() <-chan string { return w.changes }

// Close stops the watcher and closes the Changes channel.
func (w *sourceWatcher) Close() error {
	w.mu.Lock()
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	return w.watcher.Close()
}

func (w *sourceWatcher) processEvents() {
	defer close(w.changes)

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.schedule(event.Name)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Warnf("Watcher error: %v", err)
		}
	}
}

func (w *sourceWatcher) schedule(name string) {
	abs, err := filepath.Abs(name)
	if err != nil {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed || abs != w.path {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(reloadDebounce, func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		if w.closed || abs != w.path {
			return
		}
		// One pending change is enough; drop duplicates.
		select {
		case w.changes <- abs:
		default:
		}
	})
}
