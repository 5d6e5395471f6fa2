package progress

import (
	"os"
	"sync"
	"time"

	"github.com/Coxless/wtenv/internal/logger"
	"github.com/Coxless/wtenv/internal/recovery"
	"github.com/fsnotify/fsnotify"
)

// DefaultWatchDebounce coalesces bursts of hook writes into one signal.
const DefaultWatchDebounce = 150 * time.Millisecond

// Watcher signals when session files in the progress directory change. It
// never touches a Manager; the owner of the Manager decides when to Refresh.
type Watcher struct {
	fsw      *fsnotify.Watcher
	changes  chan struct{}
	debounce time.Duration
	done     chan struct{}

	mu      sync.Mutex
	pending *time.Timer
	closed  bool
}

// NewWatcher starts watching dir. It returns (nil, nil) when dir does not
// exist yet; polling refreshes still pick up files created later.
func NewWatcher(dir string, debounce time.Duration) (*Watcher, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		logger.Debugf("👀 Progress directory %s does not exist, not watching", dir)
		return nil, nil
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, err
	}

	if debounce <= 0 {
		debounce = DefaultWatchDebounce
	}
	w := &Watcher{
		fsw:      fsw,
		changes:  make(chan struct{}, 1),
		debounce: debounce,
		done:     make(chan struct{}),
	}
	recovery.SafeGo("progress-watcher", w.loop)
	logger.Debugf("👀 Watching progress directory %s", dir)
	return w, nil
}

// Changes delivers at most one pending signal at a time.
func (w *Watcher) Changes() <-chan struct{} {
	return w.changes
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	if w.pending != nil {
		w.pending.Stop()
	}
	w.mu.Unlock()

	close(w.done)
	return w.fsw.Close()
}

func (w *Watcher) loop() {
	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if isRelevantEvent(event) {
				w.schedule()
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logger.Warnf("⚠️  Progress watcher error: %v", err)
		case <-w.done:
			return
		}
	}
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if w.pending != nil {
		w.pending.Stop()
	}
	w.pending = time.AfterFunc(w.debounce, func() {
		select {
		case w.changes <- struct{}{}:
		default:
		}
	})
}

func isRelevantEvent(event fsnotify.Event) bool {
	if !IsSessionFile(event.Name) {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0
}
