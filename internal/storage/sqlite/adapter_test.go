package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeyma/commitrank/internal/domain"
	"github.com/joeyma/commitrank/internal/storage"
)

func newTestStore(t *testing.T) storage.Store {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "archive.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSaveAndGetCommits(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	commits := []*domain.CommitRecord{
		{Repository: "acme/widgets", SHA: "aaa", Author: "Jane", Date: time.Now().UTC(), Message: "feat: one", URL: "u1"},
		{Repository: "acme/gadgets", SHA: "bbb", Author: "Ada", Date: time.Now().UTC(), Message: "fix: two", URL: "u2"},
	}
	require.NoError(t, store.SaveCommits(ctx, "run-1", commits))

	got, err := store.GetCommits(ctx, "acme/widgets", 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "aaa", got[0].SHA)
	assert.Equal(t, "feat: one", got[0].Message)

	all, err := store.GetCommits(ctx, "", 10)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestGetTopRankedOrdersByScore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	three, seven, nine := 3, 7, 9
	ranked := []*domain.RankedCommit{
		{CommitRecord: domain.CommitRecord{Repository: "acme/widgets", SHA: "aaa", Date: time.Now().UTC()}, Score: &three},
		{CommitRecord: domain.CommitRecord{Repository: "acme/widgets", SHA: "bbb", Date: time.Now().UTC()}, Score: &nine},
		{CommitRecord: domain.CommitRecord{Repository: "acme/widgets", SHA: "ccc", Date: time.Now().UTC()}, Score: &seven},
		{CommitRecord: domain.CommitRecord{Repository: "acme/widgets", SHA: "ddd", Date: time.Now().UTC()}, Rationale: "rating failed"},
	}
	require.NoError(t, store.SaveRankings(ctx, "run-1", ranked))

	top, err := store.GetTopRanked(ctx, 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "bbb", top[0].SHA)
	assert.Equal(t, "ccc", top[1].SHA)
}

func TestSaveRun(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	run := &domain.Run{
		ID:         "run-1",
		Kind:       domain.RunKindCollect,
		Org:        "acme",
		Artifact:   "commits_20240301_090000.csv",
		Records:    42,
		StartedAt:  time.Now().UTC(),
		FinishedAt: time.Now().UTC(),
	}
	require.NoError(t, store.SaveRun(ctx, run))

	// Re-saving the same run id must not fail
	run.Records = 43
	require.NoError(t, store.SaveRun(ctx, run))
}
