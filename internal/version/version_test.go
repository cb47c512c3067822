package version

import (
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	orig := Version
	t.Cleanup(func() { Version = orig })

	Version = "v1.2.3"
	got := String()
	if !strings.HasPrefix(got, "docsite v1.2.3 ") {
		t.Errorf("unexpected version line %q", got)
	}
	if !strings.Contains(got, "commit "+GitCommit) {
		t.Errorf("expected commit in %q", got)
	}
}

func TestBuildInfoInitialized(t *testing.T) {
	if BuildTime == "" || GitCommit == "" {
		t.Error("build info variables should be initialized")
	}
}
