// Package notify announces publish runs on a NATS subject.
package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"git.home.luguber.info/inful/docsite/internal/config"
	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/logfields"
	"git.home.luguber.info/inful/docsite/internal/publish"
	"git.home.luguber.info/inful/docsite/internal/retry"
)

const (
	connectTimeout = 5 * time.Second
	flushTimeout   = 2 * time.Second
)

// connectPolicy retries the initial dial.
var connectPolicy = retry.NewPolicy(retry.Exponential, 250*time.Millisecond, 2*time.Second, 2)

// Event is the JSON payload published after each run.
type Event struct {
	Project     string    `json:"project"`
	RunID       string    `json:"run_id"`
	Outcome     string    `json:"outcome"`
	Artifact    string    `json:"artifact"`
	Published   []string  `json:"published"`
	Bytes       int64     `json:"bytes"`
	Fingerprint string    `json:"fingerprint,omitempty"`
	Title       string    `json:"title,omitempty"`
	StartedAt   time.Time `json:"started_at"`
	DurationMS  float64   `json:"duration_ms"`
	Error       string    `json:"error,omitempty"`
}

// NewEvent builds the payload for res.
func NewEvent(project string, res *publish.Result) Event {
	ev := Event{
		Project:     project,
		RunID:       res.RunID,
		Outcome:     string(res.Outcome),
		Artifact:    res.ArtifactName,
		Published:   res.Paths(),
		Bytes:       res.Bytes,
		Fingerprint: res.Fingerprint,
		Title:       res.Title,
		StartedAt:   res.StartedAt,
		DurationMS:  float64(res.Duration.Microseconds()) / 1000,
	}
	if res.Err != nil {
		ev.Error = res.Err.Error()
	}
	return ev
}

// Conn is the subset of *nats.Conn the notifier uses.
type Conn interface {
	Publish(subject string, data []byte) error
	FlushTimeout(timeout time.Duration) error
	Close()
}

// Notifier publishes run events. The zero value and a nil *Notifier are
// disabled and do nothing.
type Notifier struct {
	conn    Conn
	subject string
	project string
	logger  *slog.Logger
}

// New wraps an existing connection.
func New(conn Conn, subject, project string, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{conn: conn, subject: subject, project: project, logger: logger}
}

// Connect dials the configured server. A disabled configuration returns a
// disabled notifier without connecting.
func Connect(cfg config.NotifyConfig, project string, logger *slog.Logger) (*Notifier, error) {
	if !cfg.Enabled {
		return &Notifier{}, nil
	}
	if logger == nil {
		logger = slog.Default()
	}

	var conn *nats.Conn
	err := connectPolicy.Do(context.Background(), func(attempt int) error {
		var err error
		conn, err = nats.Connect(cfg.NATSURL,
			nats.Name("docsite"),
			nats.Timeout(connectTimeout),
		)
		if err != nil {
			logger.Debug("NATS connect failed", slog.Int("attempt", attempt+1), logfields.Error(err))
			return errors.NotifyError("connect to NATS").
				WithCause(err).
				WithContext("url", cfg.NATSURL).
				Build()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	n := New(conn, cfg.Subject, project, logger)
	n.logger.Info("NATS notifier connected", slog.String("url", cfg.NATSURL), logfields.Subject(cfg.Subject))
	return n, nil
}

// Enabled reports whether events are sent.
func (n *Notifier) Enabled() bool {
	return n != nil && n.conn != nil
}

// AfterPublish sends the event for res.
func (n *Notifier) AfterPublish(ctx context.Context, res *publish.Result) error {
	if !n.Enabled() {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return errors.NotifyError("publish event").WithCause(err).Warning().Build()
	}

	data, err := json.Marshal(NewEvent(n.project, res))
	if err != nil {
		return errors.InternalError("marshal event").WithCause(err).Build()
	}
	if err := n.conn.Publish(n.subject, data); err != nil {
		return errors.NotifyError("publish event").
			WithCause(err).
			Warning().
			WithContext("subject", n.subject).
			Build()
	}
	if err := n.conn.FlushTimeout(flushTimeout); err != nil {
		return errors.NotifyError("flush event").
			WithCause(err).
			Warning().
			WithContext("subject", n.subject).
			Build()
	}

	n.logger.Debug("Published run event", logfields.RunID(res.RunID), logfields.Subject(n.subject))
	return nil
}

// Close closes the connection.
func (n *Notifier) Close() {
	if n.Enabled() {
		n.conn.Close()
	}
}
