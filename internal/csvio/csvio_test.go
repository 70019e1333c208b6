package csvio

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "records.csv")

	header := []string{"repository", "commit_sha", "commit_message"}
	rows := [][]string{
		{"acme/widgets", "abc123", "fix: nil pointer in parser"},
		{"acme/widgets", "def456", "message with, embedded comma"},
		{"acme/gadgets", "789aaa", `message with "quotes" inside`},
		{"acme/gadgets", "789bbb", "multi\nline\nmessage"},
		{"acme/gadgets", "789ccc", ""},
	}

	require.NoError(t, Write(path, header, rows))

	gotHeader, gotRows, err := Read(path)
	require.NoError(t, err)

	assert.Equal(t, header, gotHeader)
	require.Len(t, gotRows, len(rows))
	for i, row := range rows {
		assert.Equal(t, row, gotRows[i], "row %d did not round-trip", i)
	}
}

func TestReadMissingHeader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.csv")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	_, _, err := Read(path)
	assert.ErrorContains(t, err, "missing header row")
}

func TestReadMissingFile(t *testing.T) {
	_, _, err := Read(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}

func TestLatestPicksMostRecent(t *testing.T) {
	dir := t.TempDir()

	older := filepath.Join(dir, "commits_20240101_000000.csv")
	newer := filepath.Join(dir, "commits_20240201_000000.csv")
	require.NoError(t, os.WriteFile(older, []byte("a\n"), 0o644))
	require.NoError(t, os.WriteFile(newer, []byte("b\n"), 0o644))

	now := time.Now()
	require.NoError(t, os.Chtimes(older, now.Add(-time.Hour), now.Add(-time.Hour)))
	require.NoError(t, os.Chtimes(newer, now, now))

	got, err := Latest(dir, "commits")
	require.NoError(t, err)
	assert.Equal(t, newer, got)
}

func TestLatestNoMatches(t *testing.T) {
	_, err := Latest(t.TempDir(), "commits")
	assert.ErrorContains(t, err, "no commits_*.csv files")
}

func TestArtifactPath(t *testing.T) {
	ts := time.Date(2024, 1, 31, 12, 0, 5, 0, time.UTC)
	assert.Equal(t,
		filepath.Join("out", "commits_20240131_120005.csv"),
		ArtifactPath("out", "commits", ts))
}
