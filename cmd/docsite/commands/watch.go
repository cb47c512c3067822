package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/publish"
	"git.home.luguber.info/inful/docsite/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Debounce     string `help:"Override watch.debounce (e.g. 250ms)"`
	PollInterval string `name:"poll-interval" help:"Override watch.poll_interval; 0 disables polling"`
}

func (w *WatchCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig(g)
	if err != nil {
		return err
	}
	if err := applyDurationFlag(&cfg.Watch.Debounce, "--debounce", w.Debounce); err != nil {
		return err
	}
	if err := applyDurationFlag(&cfg.Watch.PollInterval, "--poll-interval", w.PollInterval); err != nil {
		return err
	}

	rt, err := root.newRuntime(g, cfg)
	if err != nil {
		return err
	}
	defer rt.close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := rt.publisher.Options()
	watcher := watch.New(rt.publisher, watch.Config{
		Dir:          opts.SourceRoot,
		Artifact:     opts.ArtifactName,
		Debounce:     cfg.Watch.Debounce,
		PollInterval: cfg.Watch.PollInterval,
	},
		watch.WithLogger(g.Logger),
		watch.WithResultFunc(func(string, *publish.Result, error) { rt.flushMetrics() }),
	)
	return watcher.Run(ctx)
}

func applyDurationFlag(dst *time.Duration, flag, raw string) error {
	if raw == "" {
		return nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		return errors.ValidationError(fmt.Sprintf("invalid %s value %q", flag, raw)).
			UserAction().
			Build()
	}
	*dst = d
	return nil
}
