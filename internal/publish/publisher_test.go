package publish

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/metrics"
)

const minimalPage = "<html></html>"

// newSite lays out a project root with an empty _static directory.
func newSite(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "_static"), 0o750))
	return root
}

func writeArtifact(t *testing.T, root, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(root, "K-matrix.html"), []byte(content), 0o644))
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestPublish_ArtifactPresent(t *testing.T) {
	root := newSite(t)
	writeArtifact(t, root, minimalPage)

	p := New(Options{SourceRoot: root}, WithLogger(quietLogger()))
	res, err := p.Publish(context.Background())
	require.NoError(t, err)

	require.Equal(t, []string{"_static/K-matrix.html"}, res.Paths())
	require.Equal(t, OutcomePublished, res.Outcome)
	require.Equal(t, int64(len(minimalPage)), res.Bytes)
	require.NotEmpty(t, res.Fingerprint)
	require.NotEmpty(t, res.RunID)

	got, err := os.ReadFile(filepath.Join(root, "_static", "K-matrix.html"))
	require.NoError(t, err)
	require.Equal(t, []byte(minimalPage), got)
	require.Equal(t, []string{"K-matrix.html"}, listDir(t, filepath.Join(root, "_static")))
}

func TestPublish_ArtifactAbsent(t *testing.T) {
	root := newSite(t)

	p := New(Options{SourceRoot: root}, WithLogger(quietLogger()))
	res, err := p.Publish(context.Background())
	require.NoError(t, err)

	require.NotNil(t, res.Paths())
	require.Empty(t, res.Paths())
	require.Equal(t, OutcomeSkipped, res.Outcome)
	require.Empty(t, listDir(t, filepath.Join(root, "_static")))
}

func TestPublish_Idempotent(t *testing.T) {
	root := newSite(t)
	content := "<html><head><title>K-matrix</title></head><body>poles</body></html>"
	writeArtifact(t, root, content)

	p := New(Options{SourceRoot: root}, WithLogger(quietLogger()))
	first, err := p.Publish(context.Background())
	require.NoError(t, err)
	second, err := p.Publish(context.Background())
	require.NoError(t, err)

	require.Equal(t, first.Paths(), second.Paths())
	require.Equal(t, first.Fingerprint, second.Fingerprint)
	require.NotEqual(t, first.RunID, second.RunID)
	require.Equal(t, "K-matrix", second.Title)

	got, err := os.ReadFile(filepath.Join(root, "_static", "K-matrix.html"))
	require.NoError(t, err)
	require.Equal(t, content, string(got))
	require.Equal(t, []string{"K-matrix.html"}, listDir(t, filepath.Join(root, "_static")))
}

func TestPublish_OverwritesStaleCopy(t *testing.T) {
	root := newSite(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "_static", "K-matrix.html"), []byte("stale"), 0o644))
	writeArtifact(t, root, minimalPage)

	_, err := New(Options{SourceRoot: root}, WithLogger(quietLogger())).Publish(context.Background())
	require.NoError(t, err)

	got, err := os.ReadFile(filepath.Join(root, "_static", "K-matrix.html"))
	require.NoError(t, err)
	require.Equal(t, minimalPage, string(got))
}

func TestPublish_MissingDestinationFails(t *testing.T) {
	root := t.TempDir()
	writeArtifact(t, root, minimalPage)

	res, err := New(Options{SourceRoot: root}, WithLogger(quietLogger())).Publish(context.Background())
	require.Error(t, err)
	require.Nil(t, res)
	require.True(t, errors.Is(err, fs.ErrNotExist), "os error must stay in the chain: %v", err)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryFileSystem))

	_, statErr := os.Stat(filepath.Join(root, "_static"))
	require.True(t, errors.Is(statErr, fs.ErrNotExist), "destination directory must not be created")
}

func TestPublish_ArtifactIsDirectory(t *testing.T) {
	root := newSite(t)
	require.NoError(t, os.Mkdir(filepath.Join(root, "K-matrix.html"), 0o750))

	_, err := New(Options{SourceRoot: root}, WithLogger(quietLogger())).Publish(context.Background())
	require.Error(t, err)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))
	require.Empty(t, listDir(t, filepath.Join(root, "_static")))
}

func TestPublish_CanceledContext(t *testing.T) {
	root := newSite(t)
	writeArtifact(t, root, minimalPage)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(Options{SourceRoot: root}, WithLogger(quietLogger())).Publish(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.Empty(t, listDir(t, filepath.Join(root, "_static")))
}

func TestPublish_PreservesMode(t *testing.T) {
	root := newSite(t)
	src := filepath.Join(root, "K-matrix.html")
	require.NoError(t, os.WriteFile(src, []byte(minimalPage), 0o640))
	require.NoError(t, os.Chmod(src, 0o640))

	_, err := New(Options{SourceRoot: root}, WithLogger(quietLogger())).Publish(context.Background())
	require.NoError(t, err)

	info, err := os.Stat(filepath.Join(root, "_static", "K-matrix.html"))
	require.NoError(t, err)
	require.Equal(t, fs.FileMode(0o640), info.Mode().Perm())
}

func TestPublish_CustomOptions(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "site", "assets"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(root, "poles.html"), []byte(minimalPage), 0o644))

	p := New(Options{ArtifactName: "poles.html", StaticDir: "site/assets/", SourceRoot: root}, WithLogger(quietLogger()))
	res, err := p.Publish(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"site/assets/poles.html"}, res.Paths())
	require.FileExists(t, filepath.Join(root, "site", "assets", "poles.html"))
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{}.WithDefaults()
	require.Equal(t, "K-matrix.html", opts.ArtifactName)
	require.Equal(t, "_static", opts.StaticDir)
	require.Equal(t, ".", opts.SourceRoot)
	require.Equal(t, "_static/K-matrix.html", opts.PublishedPath())
	require.Equal(t, filepath.Join("_static", "K-matrix.html"), opts.DestinationPath())
}

type recordingRecorder struct {
	outcomes []metrics.ResultLabel
	bytes    int64
	last     time.Time
}

func (r *recordingRecorder) IncPublishOutcome(l metrics.ResultLabel) {
	r.outcomes = append(r.outcomes, l)
}
func (r *recordingRecorder) ObservePublishDuration(time.Duration) {}
func (r *recordingRecorder) AddPublishedBytes(n int64)            { r.bytes += n }
func (r *recordingRecorder) SetLastPublishTimestamp(t time.Time)  { r.last = t }

func TestPublish_RecorderAndHooks(t *testing.T) {
	root := newSite(t)
	rec := &recordingRecorder{}
	var seen []Outcome
	hook := HookFunc(func(_ context.Context, res *Result) error {
		seen = append(seen, res.Outcome)
		return errors.New("hook failures are logged only")
	})

	p := New(Options{SourceRoot: root}, WithRecorder(rec), WithHooks(hook, nil), WithLogger(quietLogger()))

	_, err := p.Publish(context.Background())
	require.NoError(t, err)

	writeArtifact(t, root, minimalPage)
	_, err = p.Publish(context.Background())
	require.NoError(t, err)

	require.NoError(t, os.Remove(filepath.Join(root, "_static", "K-matrix.html")))
	require.NoError(t, os.Remove(filepath.Join(root, "_static")))
	_, err = p.Publish(context.Background())
	require.Error(t, err)

	require.Equal(t, []Outcome{OutcomeSkipped, OutcomePublished, OutcomeFailed}, seen)
	require.Equal(t, []metrics.ResultLabel{metrics.ResultSkipped, metrics.ResultPublished, metrics.ResultFailed}, rec.outcomes)
	require.Equal(t, int64(len(minimalPage)), rec.bytes)
	require.False(t, rec.last.IsZero())
}

func TestResultPathsNil(t *testing.T) {
	var res *Result
	require.Equal(t, []string{}, res.Paths())
}
