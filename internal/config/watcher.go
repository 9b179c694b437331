package config

import (
	"context"
	"path/filepath"
	"reflect"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"flowcanvas/internal/errors"
)

const defaultDebounce = 500 * time.Millisecond

// Watcher reloads the configuration directory when one of its files changes
// and hands the new configuration to every registered callback.
type Watcher struct {
	loader   *Loader
	logger   *zap.Logger
	debounce time.Duration

	mu        sync.RWMutex
	config    *Config
	callbacks []func(*Config)
}

// WatcherOption tunes a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets how long the watcher waits for writes to settle.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) { w.debounce = d }
}

// NewWatcher creates a watcher that starts from initial.
func NewWatcher(loader *Loader, initial *Config, logger *zap.Logger, opts ...WatcherOption) *Watcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	w := &Watcher{
		loader:   loader,
		logger:   logger,
		debounce: defaultDebounce,
		config:   initial,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run watches the configuration directory until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Internal(errors.CodeConfigWatch, "failed to create file watcher").WithCause(err).Build()
	}
	defer fsw.Close()

	dir := w.loader.BasePath()
	if err := fsw.Add(dir); err != nil {
		return errors.Internal(errors.CodeConfigWatch, "failed to watch config directory").
			WithResource(dir).
			WithCause(err).
			Build()
	}
	w.logger.Info("Configuration hot reloading enabled", zap.String("dir", dir))

	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 || !isConfigFile(event.Name) {
				continue
			}
			w.logger.Debug("Configuration file changed",
				zap.String("file", event.Name),
				zap.String("operation", event.Op.String()),
			)
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(w.debounce, w.Reload)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("File watcher error", zap.Error(err))

		case <-ctx.Done():
			w.logger.Info("Stopping configuration watcher")
			return nil
		}
	}
}

// Reload loads the directory again. An invalid or unchanged result is
// dropped; anything else replaces the current configuration and is passed
// to the callbacks.
func (w *Watcher) Reload() {
	next, err := w.loader.Load()
	if err != nil {
		w.logger.Error("Invalid configuration after reload", zap.Error(err))
		return
	}

	w.mu.Lock()
	if configsEqual(w.config, next) {
		w.mu.Unlock()
		w.logger.Debug("Configuration unchanged after reload")
		return
	}
	w.config = next
	callbacks := append([]func(*Config){}, w.callbacks...)
	w.mu.Unlock()

	for _, cb := range callbacks {
		w.notify(cb, next)
	}
	w.logger.Info("Configuration reloaded",
		zap.Strings("sources", next.LoadedFrom),
		zap.Int("callbacks_notified", len(callbacks)),
	)
}

// OnChange registers a callback for configuration changes.
func (w *Watcher) OnChange(cb func(*Config)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, cb)
}

// Config returns the current configuration.
func (w *Watcher) Config() *Config {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.config
}

func (w *Watcher) notify(cb func(*Config), cfg *Config) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("Config callback panicked", zap.Any("panic", r))
		}
	}()
	cb(cfg)
}

func configsEqual(a, b *Config) bool {
	if a == nil || b == nil {
		return a == b
	}
	x, y := *a, *b
	x.LoadedFrom, y.LoadedFrom = nil, nil
	return reflect.DeepEqual(x, y)
}

func isConfigFile(path string) bool {
	switch filepath.Ext(path) {
	case ".yaml", ".json", ".toml":
		return true
	}
	return false
}
