// Package watch re-runs an action when schedule files in a directory change.
package watch

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/ukaji3/turni-go/pkg/turni"
)

// Watcher watches one directory. Bursts of changes (an editor saving a file
// emits several events) are collapsed into a single call after a quiet period.
type Watcher struct {
	dir       string
	debounce  time.Duration
	onChange  func(ctx context.Context) error
	ignore    func(path string) bool
	onRemoved func(path string)
	logger    *zap.Logger
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithIgnore skips events for paths where ignore returns true, such as the
// report the action itself writes into the watched directory.
func WithIgnore(ignore func(path string) bool) Option {
	return func(w *Watcher) { w.ignore = ignore }
}

// WithRemoved calls fn with the path of every schedule file removed or
// renamed away, before the debounced action runs.
func WithRemoved(fn func(path string)) Option {
	return func(w *Watcher) { w.onRemoved = fn }
}

// New creates a Watcher calling onChange after changes to schedule files in dir.
func New(dir string, debounce time.Duration, onChange func(ctx context.Context) error, logger *zap.Logger, opts ...Option) *Watcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	w := &Watcher{
		dir:      dir,
		debounce: debounce,
		onChange: onChange,
		logger:   logger.Named("watch"),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run blocks until ctx is cancelled. Errors returned by onChange are logged,
// not returned: one broken run must not stop the watch.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return err
	}
	w.logger.Info("watching directory", zap.String("dir", w.dir))

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			w.logger.Debug("change", zap.String("file", ev.Name), zap.String("op", ev.Op.String()))
			if w.onRemoved != nil && (ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename)) {
				w.onRemoved(ev.Name)
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", zap.Error(err))
		case <-fire:
			fire = nil
			if err := w.onChange(ctx); err != nil {
				w.logger.Warn("re-run failed", zap.Error(err))
			}
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return false
	}
	if !turni.IsScheduleFile(filepath.Base(ev.Name)) {
		return false
	}
	return w.ignore == nil || !w.ignore(ev.Name)
}
