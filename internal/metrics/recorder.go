package metrics

import "time"

// ResultLabel enumerates publish outcome categories for counters.
type ResultLabel string

const (
	ResultPublished ResultLabel = "published"
	ResultSkipped   ResultLabel = "skipped"
	ResultFailed    ResultLabel = "failed"
)

// Recorder defines observability hooks for publish runs.
type Recorder interface {
	IncPublishOutcome(result ResultLabel)
	ObservePublishDuration(d time.Duration)
	AddPublishedBytes(n int64)
	SetLastPublishTimestamp(t time.Time)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) IncPublishOutcome(ResultLabel)        {}
func (NoopRecorder) ObservePublishDuration(time.Duration) {}
func (NoopRecorder) AddPublishedBytes(int64)              {}
func (NoopRecorder) SetLastPublishTimestamp(time.Time)    {}
