// Package watch re-runs a listing whenever a listed directory changes.
package watch

import (
	"fmt"
	"os"
	"sync"
	"time"

	"fls/internal/log"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits for further events before
// re-rendering.
const DefaultDebounce = 100 * time.Millisecond

// Change is one filesystem event inside a watched directory.
type Change struct {
	Path string
	Op   fsnotify.Op
}

// Watcher monitors directories for entry changes using fsnotify
type Watcher struct {
	// Directories being watched
	directories []string

	// Channel delivering changes
	changes chan Change

	// Channel to signal stop
	stopChan chan struct{}

	// fsnotify watcher instance
	fsWatcher *fsnotify.Watcher

	// Guards running and directories
	mutex sync.RWMutex

	running bool
}

// New creates a new directory watcher using fsnotify
func New() (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		changes:   make(chan Change, 64),
		stopChan:  make(chan struct{}),
		fsWatcher: fsWatcher,
	}, nil
}

// AddDirectory adds a directory to watch. Paths that are not directories
// are rejected.
func (w *Watcher) AddDirectory(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("error accessing directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	if err := w.fsWatcher.Add(dir); err != nil {
		return fmt.Errorf("failed to add directory %s to watcher: %w", dir, err)
	}

	w.mutex.Lock()
	found := false
	for _, existing := range w.directories {
		if existing == dir {
			found = true
			break
		}
	}
	if !found {
		w.directories = append(w.directories, dir)
	}
	w.mutex.Unlock()
	log.LogWithFields(log.F("directory", dir)).Debug("Watching directory")
	return nil
}

// Changes returns the channel that delivers change events
func (w *Watcher) Changes() <-chan Change {
	return w.changes
}

// Start begins the event loop
func (w *Watcher) Start() error {
	w.mutex.Lock()
	if w.running {
		w.mutex.Unlock()
		return fmt.Errorf("watcher already running")
	}
	w.running = true
	w.stopChan = make(chan struct{})
	stop := w.stopChan
	w.mutex.Unlock()

	go func() {
		log.Debug("Watcher event loop started.")
		for {
			select {
			case event, ok := <-w.fsWatcher.Events:
				if !ok {
					return
				}
				// Every operation can change what a listing shows.
				change := Change{Path: event.Name, Op: event.Op}
				select {
				case w.changes <- change:
				case <-stop:
					return
				default:
					// A re-render is already pending; the listing is re-read in full.
					log.LogWithFields(log.F("file", event.Name)).Debug("Change channel full, dropped event")
				}

			case err, ok := <-w.fsWatcher.Errors:
				if !ok {
					return
				}
				log.LogWithFields(log.F("error", err)).Warn("fsnotify watcher error")

			case <-stop:
				return
			}
		}
	}()
	return nil
}

// Stop halts the watcher. It is safe to call more than once.
func (w *Watcher) Stop() {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	if !w.running {
		return
	}
	close(w.stopChan)
	if err := w.fsWatcher.Close(); err != nil {
		log.LogWithFields(log.F("error", err)).Warn("Error closing fsnotify watcher")
	}
	w.running = false
	log.Debug("Watcher stopped.")
}

// GetDirectories returns the list of directories being watched
func (w *Watcher) GetDirectories() []string {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	dirsCopy := make([]string, len(w.directories))
	copy(dirsCopy, w.directories)
	return dirsCopy
}
