package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID       = "run_id"
	KeyArtifact    = "artifact"
	KeySource      = "source"
	KeyDestination = "destination"
	KeyOutcome     = "outcome"
	KeyBytes       = "bytes"
	KeyFingerprint = "fingerprint"
	KeyDurationMS  = "duration_ms"
	KeyPath        = "path"
	KeyConfig      = "config"
	KeyEvent       = "event"
	KeySubject     = "subject"
	KeyError       = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func Artifact(name string) slog.Attr  { return slog.String(KeyArtifact, name) }
func Source(p string) slog.Attr       { return slog.String(KeySource, p) }
func Destination(p string) slog.Attr  { return slog.String(KeyDestination, p) }
func Outcome(o string) slog.Attr      { return slog.String(KeyOutcome, o) }
func Bytes(n int64) slog.Attr         { return slog.Int64(KeyBytes, n) }
func Fingerprint(fp string) slog.Attr { return slog.String(KeyFingerprint, fp) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Config(p string) slog.Attr       { return slog.String(KeyConfig, p) }
func Event(e string) slog.Attr        { return slog.String(KeyEvent, e) }
func Subject(s string) slog.Attr      { return slog.String(KeySubject, s) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
