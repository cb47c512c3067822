package publish

import (
	"time"

	"git.home.luguber.info/inful/docsite/internal/metrics"
)

// Outcome describes what a publish run did.
type Outcome string

const (
	OutcomePublished Outcome = "published"
	OutcomeSkipped   Outcome = "skipped"
	OutcomeFailed    Outcome = "failed"
)

func (o Outcome) label() metrics.ResultLabel {
	switch o {
	case OutcomePublished:
		return metrics.ResultPublished
	case OutcomeSkipped:
		return metrics.ResultSkipped
	default:
		return metrics.ResultFailed
	}
}

// Result describes one publish run.
type Result struct {
	RunID        string
	Outcome      Outcome
	ArtifactName string
	// Published holds zero or one path; see Paths.
	Published   []string
	Bytes       int64
	Fingerprint string
	Title       string
	StartedAt   time.Time
	Duration    time.Duration
	Err         error
}

// Paths returns the published paths: the destination path when a copy
// occurred, otherwise an empty, non-nil slice.
func (r *Result) Paths() []string {
	if r == nil || len(r.Published) == 0 {
		return []string{}
	}
	out := make([]string, len(r.Published))
	copy(out, r.Published)
	return out
}
