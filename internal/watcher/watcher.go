// Package watcher observes the declarative source files and reports
// changes with debouncing, so a burst of editor writes triggers a single
// re-resolution.
package watcher

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/conneroisu/slate/internal/logging"
)

// ChangeHandler receives the debounced set of changed source paths.
type ChangeHandler func(paths []string)

// SourceWatcher watches the configuration directory for YAML changes.
type SourceWatcher struct {
	watcher   *fsnotify.Watcher
	debouncer *debouncer
	logger    logging.Logger
	handlers  []ChangeHandler
	mutex     sync.RWMutex
}

// New creates a SourceWatcher with the given debounce delay.
func New(delay time.Duration, logger logging.Logger) (*SourceWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &SourceWatcher{
		watcher: fsw,
		debouncer: &debouncer{
			delay:  delay,
			events: make(chan string, 100),
			output: make(chan []string, 10),
		},
		logger: logger.WithComponent("watcher"),
	}, nil
}

// AddDir watches a directory. Only YAML files inside it produce events;
// editors also touch swap and backup files, which are filtered out.
func (w *SourceWatcher) AddDir(dir string) error {
	return w.watcher.Add(dir)
}

// OnChange registers a handler for debounced change batches.
func (w *SourceWatcher) OnChange(handler ChangeHandler) {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	w.handlers = append(w.handlers, handler)
}

// Start begins watching until ctx is canceled.
func (w *SourceWatcher) Start(ctx context.Context) {
	go w.debouncer.run(ctx)
	go w.dispatch(ctx)
	go w.watchLoop(ctx)
}

// Stop closes the watcher and releases resources.
func (w *SourceWatcher) Stop() error {
	w.debouncer.stop()
	return w.watcher.Close()
}

func (w *SourceWatcher) watchLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !isYAML(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			select {
			case w.debouncer.events <- event.Name:
			default:
				// Channel full, skip this event.
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn(ctx, err, "Watcher error, continuing")
		}
	}
}

func (w *SourceWatcher) dispatch(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case paths := <-w.debouncer.output:
			w.mutex.RLock()
			handlers := w.handlers
			w.mutex.RUnlock()
			for _, handler := range handlers {
				handler(paths)
			}
		}
	}
}

func isYAML(path string) bool {
	ext := filepath.Ext(path)
	return ext == ".yml" || ext == ".yaml"
}

// debouncer batches rapid changes into one notification.
type debouncer struct {
	delay   time.Duration
	events  chan string
	output  chan []string
	timer   *time.Timer
	pending map[string]bool
	mutex   sync.Mutex
}

func (d *debouncer) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case path := <-d.events:
			d.add(path)
		}
	}
}

func (d *debouncer) add(path string) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if d.pending == nil {
		d.pending = make(map[string]bool)
	}
	d.pending[path] = true

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.flush)
}

func (d *debouncer) flush() {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if len(d.pending) == 0 {
		return
	}
	paths := make([]string, 0, len(d.pending))
	for p := range d.pending {
		paths = append(paths, p)
	}
	d.pending = nil

	select {
	case d.output <- paths:
	default:
		// Channel full, skip.
	}
}

func (d *debouncer) stop() {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
}
