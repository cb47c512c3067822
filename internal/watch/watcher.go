// Package watch republishes the artifact whenever it changes on disk.
package watch

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron/v2"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/logfields"
	"git.home.luguber.info/inful/docsite/internal/publish"
)

// Triggers passed to the result callback.
const (
	TriggerInitial = "initial"
	TriggerEvent   = "fsnotify"
	TriggerPoll    = "poll"
)

// DefaultDebounce applies when Config.Debounce is zero.
const DefaultDebounce = 500 * time.Millisecond

// Publisher is the part of publish.Publisher the watcher drives.
type Publisher interface {
	Publish(ctx context.Context) (*publish.Result, error)
}

// Config controls event debouncing and the optional polling job.
type Config struct {
	Dir          string        // directory holding the artifact
	Artifact     string        // artifact file name inside Dir
	Debounce     time.Duration // quiet period after the last event
	PollInterval time.Duration // zero disables polling
}

// ResultFunc observes every publish the watcher performs.
type ResultFunc func(trigger string, res *publish.Result, err error)

// Watcher serializes publishes triggered by filesystem events and polling.
type Watcher struct {
	pub      Publisher
	cfg      Config
	logger   *slog.Logger
	onResult ResultFunc

	mu      sync.Mutex
	stopped bool
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithResultFunc registers a callback run after each publish.
func WithResultFunc(fn ResultFunc) Option {
	return func(w *Watcher) { w.onResult = fn }
}

// New returns a watcher for cfg.
func New(pub Publisher, cfg Config, opts ...Option) *Watcher {
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	w := &Watcher{
		pub:    pub,
		cfg:    cfg,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run publishes once, then republishes on changes until ctx is canceled.
// The directory itself is watched because editors often replace files by
// rename, which drops a watch placed on the file.
func (w *Watcher) Run(ctx context.Context) error {
	dir, err := filepath.Abs(w.cfg.Dir)
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "resolve watch directory").Build()
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "create file watcher").Build()
	}
	defer func() {
		if cerr := fw.Close(); cerr != nil {
			w.logger.Error("Error closing file watcher", logfields.Error(cerr))
		}
	}()
	if err := fw.Add(dir); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "watch directory").
			WithContext("dir", dir).
			Build()
	}

	var sched gocron.Scheduler
	if w.cfg.PollInterval > 0 {
		sched, err = w.startPolling(ctx)
		if err != nil {
			return err
		}
		defer func() {
			if serr := sched.Shutdown(); serr != nil {
				w.logger.Error("Error stopping poll scheduler", logfields.Error(serr))
			}
		}()
	}

	w.logger.Info("Watching artifact",
		logfields.Path(filepath.Join(dir, w.cfg.Artifact)),
		slog.Duration("debounce", w.cfg.Debounce),
		slog.Duration("poll_interval", w.cfg.PollInterval))

	w.publish(ctx, TriggerInitial)

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
		w.stop()
	}()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Stopping artifact watcher")
			return nil
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("Artifact change detected", logfields.Path(event.Name), logfields.Event(event.Op.String()))
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.cfg.Debounce, func() {
				w.publish(ctx, TriggerEvent)
			})
		case werr, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("Artifact watcher error", logfields.Error(werr))
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Base(event.Name) != w.cfg.Artifact {
		return false
	}
	if event.Op.Has(fsnotify.Remove) {
		w.logger.Warn("Artifact removed", logfields.Path(event.Name))
		return false
	}
	return event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Write) || event.Op.Has(fsnotify.Rename)
}

func (w *Watcher) startPolling(ctx context.Context) (gocron.Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryRuntime, "create poll scheduler").Build()
	}
	_, err = s.NewJob(
		gocron.DurationJob(w.cfg.PollInterval),
		gocron.NewTask(w.publish, ctx, TriggerPoll),
		gocron.WithName("artifact-poll"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = s.Shutdown()
		return nil, errors.WrapError(err, errors.CategoryRuntime, "create poll job").Build()
	}
	s.Start()
	return s, nil
}

// stop waits for an in-flight publish and rejects later triggers, so callers
// may release the publisher's sinks once Run returns.
func (w *Watcher) stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stopped = true
}

// publish runs one publish; concurrent triggers wait their turn. A publish
// that has started runs to completion even if ctx is canceled meanwhile.
func (w *Watcher) publish(ctx context.Context, trigger string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped || ctx.Err() != nil {
		return
	}

	res, err := w.pub.Publish(context.WithoutCancel(ctx))
	if err != nil {
		w.logger.Error("Publish failed", logfields.Event(trigger), logfields.Error(err))
	}
	if w.onResult != nil {
		w.onResult(trigger, res, err)
	}
}
