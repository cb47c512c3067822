package publish

import (
	"context"
	stderrors "errors"
	"io/fs"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/docsite/internal/artifact"
	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/logfields"
	"git.home.luguber.info/inful/docsite/internal/metrics"
)

// Publisher copies the artifact into the static-assets directory.
type Publisher struct {
	opts     Options
	recorder metrics.Recorder
	hooks    []Hook
	logger   *slog.Logger
	now      func() time.Time

	// Serializes runs from watch mode; a single CLI run never contends.
	mu sync.Mutex
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(p *Publisher) {
		if r != nil {
			p.recorder = r
		}
	}
}

// WithHooks appends hooks run after every publish.
func WithHooks(hooks ...Hook) Option {
	return func(p *Publisher) {
		for _, h := range hooks {
			if h != nil {
				p.hooks = append(p.hooks, h)
			}
		}
	}
}

// WithLogger sets the logger; slog.Default() otherwise.
func WithLogger(l *slog.Logger) Option {
	return func(p *Publisher) {
		if l != nil {
			p.logger = l
		}
	}
}

// New creates a Publisher. Empty option fields take the documented defaults.
func New(opts Options, options ...Option) *Publisher {
	p := &Publisher{
		opts:     opts.WithDefaults(),
		recorder: metrics.NoopRecorder{},
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, o := range options {
		o(p)
	}
	return p
}

// Options returns the effective options.
func (p *Publisher) Options() Options {
	return p.opts
}

// Publish copies the artifact if it exists. On success the result's Paths
// holds the destination path, or nothing when the artifact was absent.
// Filesystem failures are returned, never retried or skipped.
func (p *Publisher) Publish(ctx context.Context) (*Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	res := &Result{
		RunID:        uuid.NewString(),
		ArtifactName: p.opts.ArtifactName,
		StartedAt:    p.now(),
	}
	err := p.run(ctx, res)
	res.Duration = p.now().Sub(res.StartedAt)
	if err != nil {
		res.Outcome = OutcomeFailed
		res.Published = nil
		res.Err = err
	}

	p.observe(ctx, res)
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (p *Publisher) run(ctx context.Context, res *Result) error {
	src := p.opts.SourcePath()
	info, err := os.Stat(src)
	switch {
	case stderrors.Is(err, fs.ErrNotExist):
		res.Outcome = OutcomeSkipped
		res.Published = []string{}
		return nil
	case err != nil:
		return errors.FileSystemError("stat artifact").
			WithCause(err).
			WithContext("source", src).
			Build()
	case info.IsDir():
		return errors.ValidationError("artifact path is a directory").
			WithContext("source", src).
			Build()
	}

	if err := ctx.Err(); err != nil {
		return errors.WrapError(err, errors.CategoryRuntime, "publish canceled").Build()
	}

	data, err := os.ReadFile(src)
	if err != nil {
		return errors.FileSystemError("read artifact").
			WithCause(err).
			WithContext("source", src).
			Build()
	}

	dst := p.opts.DestinationPath()
	if err := writeFileAtomic(p.opts.DestinationDir(), p.opts.ArtifactName, data, info.Mode()); err != nil {
		return errors.FileSystemError("copy artifact").
			WithCause(err).
			WithContext("source", src).
			WithContext("destination", dst).
			Build()
	}

	res.Outcome = OutcomePublished
	res.Published = []string{p.opts.PublishedPath()}
	res.Bytes = int64(len(data))
	res.Fingerprint = fingerprint(data)
	if report, ierr := artifact.InspectBytes(data); ierr == nil {
		res.Title = report.Title
		p.logger.Debug("Artifact inspected",
			logfields.Artifact(p.opts.ArtifactName),
			slog.String("title", report.Title),
			slog.Int("relative_resources", len(report.RelativeResources())))
	}
	return nil
}

func (p *Publisher) observe(ctx context.Context, res *Result) {
	p.recorder.IncPublishOutcome(res.Outcome.label())
	p.recorder.ObservePublishDuration(res.Duration)
	if res.Outcome == OutcomePublished {
		p.recorder.AddPublishedBytes(res.Bytes)
		p.recorder.SetLastPublishTimestamp(res.StartedAt)
	}

	attrs := []any{
		logfields.RunID(res.RunID),
		logfields.Artifact(res.ArtifactName),
		logfields.Outcome(string(res.Outcome)),
		logfields.DurationMS(float64(res.Duration.Microseconds()) / 1000),
	}
	switch res.Outcome {
	case OutcomePublished:
		p.logger.Info("Artifact published", append(attrs,
			logfields.Destination(res.Published[0]),
			logfields.Bytes(res.Bytes),
			logfields.Fingerprint(res.Fingerprint))...)
	case OutcomeSkipped:
		p.logger.Info("Artifact not present, nothing to publish", attrs...)
	default:
		p.logger.Error("Artifact publish failed", append(attrs,
			slog.String("category", string(errors.GetCategory(res.Err))),
			logfields.Error(res.Err))...)
	}

	for _, h := range p.hooks {
		if err := h.AfterPublish(ctx, res); err != nil {
			p.logger.Warn("Publish hook failed", logfields.RunID(res.RunID), logfields.Error(err))
		}
	}
}
