package posts

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

const defaultDebounce = 500 * time.Millisecond

// ChangeFunc is called once per burst of filesystem events.
type ChangeFunc func(ctx context.Context) error

// Watcher observes the posts directory and calls a ChangeFunc after writes,
// creates, removes or renames settle down.
type Watcher struct {
	dir      string
	debounce time.Duration
	onChange ChangeFunc
	logger   interfaces.Logger

	mu      sync.Mutex
	watcher *fsnotify.Watcher
	timer   *time.Timer
	done    chan struct{}
}

// WatcherOption customises a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce overrides the quiet period before onChange fires.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithWatcherLogger sets the logger. Defaults to no-op.
func WithWatcherLogger(logger interfaces.Logger) WatcherOption {
	return func(w *Watcher) {
		w.logger = logging.Ensure(logger)
	}
}

// NewWatcher builds a watcher for dir.
func NewWatcher(dir string, onChange ChangeFunc, opts ...WatcherOption) *Watcher {
	w := &Watcher{
		dir:      dir,
		debounce: defaultDebounce,
		onChange: onChange,
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start begins watching until ctx is cancelled or Close is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.watcher != nil {
		return errors.New("posts watcher: already started")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := fsw.Add(w.dir); err != nil {
		_ = fsw.Close()
		return err
	}

	w.watcher = fsw
	w.done = make(chan struct{})
	go w.loop(ctx, fsw, w.done)

	w.logger.Info("posts.watcher.started", "dir", w.dir)
	return nil
}

// Close stops the watcher and any pending callback.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.watcher == nil {
		return nil
	}
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	close(w.done)
	err := w.watcher.Close()
	w.watcher = nil
	return err
}

func (w *Watcher) loop(ctx context.Context, fsw *fsnotify.Watcher, done <-chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			_ = w.Close()
			return
		case <-done:
			return
		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if relevant(event) {
				w.schedule(ctx, event.Name)
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.logger.Error("posts.watcher.error", "error", err)
		}
	}
}

func relevant(event fsnotify.Event) bool {
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
}

func (w *Watcher) schedule(ctx context.Context, name string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		w.logger.Debug("posts.watcher.changed", "path", name)
		if w.onChange == nil {
			return
		}
		if err := w.onChange(ctx); err != nil {
			w.logger.Error("posts.watcher.callback_failed", "error", err)
		}
	})
}
