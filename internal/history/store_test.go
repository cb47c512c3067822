package history

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/publish"
)

func openMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestRecordAndRecent(t *testing.T) {
	ctx := context.Background()
	s := openMemory(t)
	start := time.Date(2024, 5, 6, 10, 0, 0, 123456000, time.UTC)

	for i, outcome := range []publish.Outcome{publish.OutcomeSkipped, publish.OutcomePublished, publish.OutcomeFailed} {
		id, err := s.Record(ctx, Run{
			RunID:     "run-" + string(rune('a'+i)),
			Outcome:   outcome,
			Artifact:  "K-matrix.html",
			StartedAt: start.Add(time.Duration(i) * time.Minute),
			Duration:  1500 * time.Microsecond,
		})
		require.NoError(t, err)
		require.Equal(t, int64(i+1), id)
	}

	runs, err := s.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	require.Equal(t, "run-c", runs[0].RunID)
	require.Equal(t, publish.OutcomeFailed, runs[0].Outcome)
	require.Equal(t, "run-b", runs[1].RunID)
	require.True(t, start.Add(time.Minute).Equal(runs[1].StartedAt))
	require.Equal(t, 1500*time.Microsecond, runs[1].Duration)

	all, err := s.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
}

func TestRecentEmpty(t *testing.T) {
	runs, err := openMemory(t).Recent(context.Background(), 10)
	require.NoError(t, err)
	require.NotNil(t, runs)
	require.Empty(t, runs)
}

func TestAfterPublishRecordsResult(t *testing.T) {
	ctx := context.Background()
	s := openMemory(t)

	var hook publish.Hook = s
	require.NoError(t, hook.AfterPublish(ctx, &publish.Result{
		RunID:        "r1",
		Outcome:      publish.OutcomePublished,
		ArtifactName: "K-matrix.html",
		Published:    []string{"_static/K-matrix.html"},
		Bytes:        13,
		Fingerprint:  "fp",
		Title:        "K-matrix",
		StartedAt:    time.Now(),
	}))
	require.NoError(t, hook.AfterPublish(ctx, &publish.Result{
		RunID:   "r2",
		Outcome: publish.OutcomeFailed,
		Err:     stderrors.New("permission denied"),
	}))

	last, err := s.LastPublished(ctx)
	require.NoError(t, err)
	require.NotNil(t, last)
	require.Equal(t, "r1", last.RunID)
	require.Equal(t, "_static/K-matrix.html", last.Destination)
	require.Equal(t, int64(13), last.Bytes)
	require.Equal(t, "K-matrix", last.Title)

	runs, err := s.Recent(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "permission denied", runs[0].Error)
	require.Empty(t, runs[0].Destination)
}

func TestLastPublishedNone(t *testing.T) {
	last, err := openMemory(t).LastPublished(context.Background())
	require.NoError(t, err)
	require.Nil(t, last)
}

func TestOpenCreatesParentAndPersists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), ".docsite", "history.db")

	s, err := Open(path)
	require.NoError(t, err)
	_, err = s.Record(ctx, Run{RunID: "persisted", Outcome: publish.OutcomeSkipped, Artifact: "K-matrix.html", StartedAt: time.Now()})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = os.Stat(path)
	require.NoError(t, err)

	s, err = Open(path)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()
	runs, err := s.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	require.Equal(t, "persisted", runs[0].RunID)
}

func TestClosedStoreErrorsAreClassified(t *testing.T) {
	s, err := Open(":memory:")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = s.Recent(context.Background(), 1)
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryStore))
}
