package commands

import (
	"context"
	"log/slog"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/docsite/internal/config"
	"git.home.luguber.info/inful/docsite/internal/history"
	"git.home.luguber.info/inful/docsite/internal/logfields"
	"git.home.luguber.info/inful/docsite/internal/metrics"
	"git.home.luguber.info/inful/docsite/internal/notify"
	"git.home.luguber.info/inful/docsite/internal/publish"
)

// runtime bundles a publisher with the optional history, notifier and
// metrics sinks configured for it.
type runtime struct {
	cfg       *config.Config
	logger    *slog.Logger
	publisher *publish.Publisher
	store     *history.Store
	notifier  *notify.Notifier
	registry  *prom.Registry
	textfile  string
}

// PublishOptions maps the static section onto publisher options, resolving
// the source root against the configuration directory.
func (c *CLI) PublishOptions(cfg *config.Config) publish.Options {
	return publish.Options{
		ArtifactName: cfg.Static.Artifact,
		StaticDir:    cfg.Static.Directory,
		SourceRoot:   c.Resolve(cfg.Static.SourceRoot),
	}.WithDefaults()
}

func (c *CLI) newRuntime(g *Global, cfg *config.Config) (*runtime, error) {
	rt := &runtime{cfg: cfg, logger: g.Logger}
	var hooks []publish.Hook

	if cfg.History.Enabled {
		store, err := history.Open(c.Resolve(cfg.History.Path))
		if err != nil {
			return nil, err
		}
		rt.store = store
		hooks = append(hooks, store)
	}

	notifier, err := notify.Connect(cfg.Notify, cfg.Project, g.Logger)
	if err != nil {
		rt.close()
		return nil, err
	}
	rt.notifier = notifier
	if notifier.Enabled() {
		hooks = append(hooks, notifier)
	}

	var recorder metrics.Recorder = metrics.NoopRecorder{}
	if cfg.Monitoring.Metrics.Textfile != "" {
		rt.registry = prom.NewRegistry()
		rt.textfile = c.Resolve(cfg.Monitoring.Metrics.Textfile)
		recorder = metrics.NewPrometheusRecorder(rt.registry)
	}

	rt.publisher = publish.New(c.PublishOptions(cfg),
		publish.WithLogger(g.Logger),
		publish.WithRecorder(recorder),
		publish.WithHooks(hooks...),
	)
	return rt, nil
}

// publish runs one publish and refreshes the metrics textfile.
func (rt *runtime) publish(ctx context.Context) (*publish.Result, error) {
	res, err := rt.publisher.Publish(ctx)
	rt.flushMetrics()
	return res, err
}

func (rt *runtime) flushMetrics() {
	if rt.registry == nil {
		return
	}
	if err := metrics.WriteTextfile(rt.registry, rt.textfile); err != nil {
		rt.logger.Warn("Failed to write metrics textfile", logfields.Path(rt.textfile), logfields.Error(err))
	}
}

func (rt *runtime) close() {
	if rt.notifier != nil {
		rt.notifier.Close()
	}
	if rt.store != nil {
		if err := rt.store.Close(); err != nil {
			rt.logger.Warn("Failed to close history store", logfields.Error(err))
		}
	}
}
