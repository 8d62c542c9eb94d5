// Package presetwatch reloads a YAML preset file whenever it changes on disk.
//
// The watcher only parses; applying a new configuration (unmounting the old
// field and mounting a fresh one) is up to the receiver.
package presetwatch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/phanxgames/backdrop"
)

// DefaultDebounce batches the burst of events editors emit for one save.
const DefaultDebounce = 150 * time.Millisecond

// Watcher delivers a freshly parsed Config after each change to a preset file.
type Watcher struct {
	path     string
	log      *zap.Logger
	debounce time.Duration
	fsw      *fsnotify.Watcher
	updates  chan backdrop.Config
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithLogger sets the logger used for reload and parse errors.
func WithLogger(l *zap.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.log = l
		}
	}
}

// WithDebounce sets how long the watcher waits for events to settle.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// New watches the directory containing path, so that editors which save by
// renaming a temp file over the original are still seen.
func New(path string, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("presetwatch: %w", err)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("presetwatch: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("presetwatch: watch %s: %w", filepath.Dir(abs), err)
	}
	w := &Watcher{
		path:     abs,
		log:      zap.NewNop(),
		debounce: DefaultDebounce,
		fsw:      fsw,
		updates:  make(chan backdrop.Config),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.log = w.log.With(zap.String("preset", abs))
	return w, nil
}

// Updates returns the channel new configurations are sent on. It is closed
// when Run returns.
func (w *Watcher) Updates() <-chan backdrop.Config {
	return w.updates
}

// Run processes file events until ctx is done or the underlying watcher
// fails. Files that fail to parse are logged and skipped.
func (w *Watcher) Run(ctx context.Context) error {
	defer close(w.updates)
	defer w.fsw.Close()

	timer := time.NewTimer(0)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			w.log.Debug("preset changed", zap.Stringer("op", ev.Op))
			timer.Reset(w.debounce)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("presetwatch: %w", err)

		case <-timer.C:
			cfg, err := backdrop.LoadPresetFile(w.path)
			if err != nil {
				w.log.Warn("preset reload failed", zap.Error(err))
				continue
			}
			select {
			case w.updates <- cfg:
				w.log.Info("preset reloaded", zap.Int("count", cfg.Count))
			case <-ctx.Done():
				return nil
			}
		}
	}
}
