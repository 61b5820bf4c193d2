package schema

import (
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ErrWatcherClosed is returned when using a closed watcher.
var ErrWatcherClosed = errors.New("watcher closed")

// ReloadHandler is called after each reload attempt. On success err is nil
// and rs holds the new rule set; on failure rs is nil and err describes
// what went wrong (the schema keeps its previous rules).
type ReloadHandler func(rs *RuleSet, err error)

// Watcher hot-reloads a rule file into a schema when the file changes.
// Rapid write bursts are debounced so the file is parsed once per burst.
type Watcher struct {
	mu       sync.Mutex
	schema   *Schema
	path     string
	fsw      *fsnotify.Watcher
	debounce time.Duration
	handler  ReloadHandler
	timer    *time.Timer
	closed   bool
	done     chan struct{}
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets the debounce interval for rapid successive writes.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithReloadHandler registers a callback invoked after each reload attempt.
func WithReloadHandler(h ReloadHandler) WatcherOption {
	return func(w *Watcher) {
		w.handler = h
	}
}

// Watch loads the rule file into the schema and starts watching it for
// changes. The returned watcher must be closed to release the watch.
func Watch(s *Schema, path string, opts ...WatcherOption) (*Watcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	rs, err := LoadRules(absPath)
	if err != nil {
		return nil, err
	}
	s.Apply(rs)

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// Watch the directory: editors commonly replace files via rename,
	// which drops a watch placed on the file itself.
	if err := fsw.Add(filepath.Dir(absPath)); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{
		schema:   s,
		path:     absPath,
		fsw:      fsw,
		debounce: 100 * time.Millisecond,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	go w.loop()
	return w, nil
}

// Path returns the absolute path of the watched rule file.
func (w *Watcher) Path() string {
	return w.path
}

// Close stops watching and releases resources. Safe to call more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	err := w.fsw.Close()
	<-w.done
	return err
}

// loop consumes fsnotify events until the underlying watcher closes.
func (w *Watcher) loop() {
	defer close(w.done)
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.scheduleReload()
		case _, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
		}
	}
}

// scheduleReload arms (or re-arms) the debounce timer.
func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.reload)
}

// reload parses the rule file and swaps it into the schema. Parse failures
// leave the previous rules in place.
func (w *Watcher) reload() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	handler := w.handler
	w.mu.Unlock()

	rs, err := LoadRules(w.path)
	if err == nil {
		w.schema.Apply(rs)
	}
	if handler != nil {
		if err != nil {
			handler(nil, err)
		} else {
			handler(rs, nil)
		}
	}
}
