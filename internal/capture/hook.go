package capture

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/gravitrone/studio-cli/internal/logging"
)

// DefaultSettle is how long a dropped file must stay quiet before it is read.
const DefaultSettle = 300 * time.Millisecond

// Capture is one image picked up by a Hook.
type Capture struct {
	Path    string
	DataURL string
	Err     error
}

// HookOptions configures a drop-folder hook.
type HookOptions struct {
	Dir      string
	MaxBytes int64
	Settle   time.Duration
	Logger   *slog.Logger
}

// Hook watches a folder and emits every image file written into it. It must
// be closed to release the underlying watcher.
type Hook struct {
	dir      string
	maxBytes int64
	settle   time.Duration
	logger   *slog.Logger

	watcher *fsnotify.Watcher
	out     chan Capture
	done    chan struct{}
	wg      sync.WaitGroup

	mu     sync.Mutex
	timers map[string]*time.Timer
	closed bool
}

// Watch starts a hook on opts.Dir, creating the folder if needed.
func Watch(opts HookOptions) (*Hook, error) {
	if opts.Dir == "" {
		return nil, errors.New("drop folder not configured")
	}
	dir := expandHome(opts.Dir)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create drop folder: %w", err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	settle := opts.Settle
	if settle <= 0 {
		settle = DefaultSettle
	}
	h := &Hook{
		dir:      dir,
		maxBytes: opts.MaxBytes,
		settle:   settle,
		logger:   logging.NewComponentLogger(opts.Logger, "capture"),
		watcher:  watcher,
		out:      make(chan Capture, 8),
		done:     make(chan struct{}),
		timers:   map[string]*time.Timer{},
	}
	h.wg.Add(1)
	go h.loop()
	h.logger.Debug("drop folder hook started", slog.String("dir", dir))
	return h, nil
}

// Dir is the folder being watched.
func (h *Hook) Dir() string {
	return h.dir
}

// Captures delivers images as they settle. It is closed by Close.
func (h *Hook) Captures() <-chan Capture {
	return h.out
}

// Close stops watching. It is safe to call more than once.
func (h *Hook) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	for _, t := range h.timers {
		t.Stop()
	}
	h.timers = nil
	h.mu.Unlock()

	close(h.done)
	err := h.watcher.Close()
	h.wg.Wait()
	close(h.out)
	h.logger.Debug("drop folder hook stopped", slog.String("dir", h.dir))
	return err
}

func (h *Hook) loop() {
	defer h.wg.Done()
	for {
		select {
		case <-h.done:
			return
		case event, ok := <-h.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !IsImageName(event.Name) {
				continue
			}
			h.schedule(event.Name)
		case err, ok := <-h.watcher.Errors:
			if !ok {
				return
			}
			h.logger.Warn("drop folder watch error", slog.Any("error", err))
		}
	}
}

// schedule (re)arms the settle timer for path; the file is read once no
// further writes arrive within the settle window.
func (h *Hook) schedule(path string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	if t, ok := h.timers[path]; ok {
		t.Reset(h.settle)
		return
	}
	h.timers[path] = time.AfterFunc(h.settle, func() { h.emit(path) })
}

func (h *Hook) emit(path string) {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	delete(h.timers, path)
	h.wg.Add(1)
	h.mu.Unlock()
	defer h.wg.Done()

	dataURL, err := LoadFile(path, h.maxBytes)
	c := Capture{Path: filepath.Clean(path), DataURL: dataURL, Err: err}
	if err != nil {
		h.logger.Warn("dropped file rejected", slog.String("path", path), slog.Any("error", err))
	}
	select {
	case h.out <- c:
	case <-h.done:
	}
}

// Scope ties at most one hook to the lifetime of a view. Acquire is
// idempotent until Release.
type Scope struct {
	mu   sync.Mutex
	hook *Hook
}

// Acquire returns the scope's hook, starting it on first use.
func (s *Scope) Acquire(opts HookOptions) (*Hook, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hook != nil {
		return s.hook, false, nil
	}
	h, err := Watch(opts)
	if err != nil {
		return nil, false, err
	}
	s.hook = h
	return h, true, nil
}

// Active reports whether a hook is held.
func (s *Scope) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hook != nil
}

// Release closes the held hook, if any.
func (s *Scope) Release() error {
	s.mu.Lock()
	h := s.hook
	s.hook = nil
	s.mu.Unlock()
	if h == nil {
		return nil
	}
	return h.Close()
}
