package logfields

import (
	"log/slog"
	"testing"
)

// TestHelperKeyNames verifies string-based helper key/value stability.
func TestHelperKeyNames(t *testing.T) {
	cases := []struct {
		name    string
		attrKey string
		attrVal string
		attr    slog.Attr
	}{
		{"RunID", KeyRunID, "r1", RunID("r1")},
		{"Artifact", KeyArtifact, "K-matrix.html", Artifact("K-matrix.html")},
		{"Source", KeySource, "K-matrix.html", Source("K-matrix.html")},
		{"Destination", KeyDestination, "_static/K-matrix.html", Destination("_static/K-matrix.html")},
		{"Outcome", KeyOutcome, "published", Outcome("published")},
		{"Fingerprint", KeyFingerprint, "abc", Fingerprint("abc")},
		{"Path", KeyPath, "/tmp/x", Path("/tmp/x")},
		{"Config", KeyConfig, "docsite.yaml", Config("docsite.yaml")},
		{"Event", KeyEvent, "write", Event("write")},
		{"Subject", KeySubject, "docsite.publish", Subject("docsite.publish")},
	}

	for _, tc := range cases {
		if tc.attr.Key != tc.attrKey {
			// Key drift would break log ingestion schemas.
			t.Fatalf("%s: expected key %s, got %s", tc.name, tc.attrKey, tc.attr.Key)
		}
		if got := tc.attr.Value.String(); got != tc.attrVal {
			t.Fatalf("%s: expected value %s, got %v", tc.name, tc.attrVal, got)
		}
	}
}

func TestNumericHelpers(t *testing.T) {
	if v := Bytes(13); v.Key != KeyBytes || v.Value.Int64() != 13 {
		t.Fatalf("Bytes mismatch: %v", v)
	}
	if v := DurationMS(1.5); v.Key != KeyDurationMS {
		t.Fatalf("DurationMS key mismatch: %s", v.Key)
	}
}

func TestErrorHelper(t *testing.T) {
	attr := Error(nil)
	if attr.Key != KeyError || attr.Value.String() != "" {
		t.Fatalf("unexpected nil error attr: %v", attr)
	}
	if attr = Error(errTest{}); attr.Value.String() != "err-test" {
		t.Fatalf("expected 'err-test', got %s", attr.Value.String())
	}
}

type errTest struct{}

func (e errTest) Error() string { return "err-test" }
