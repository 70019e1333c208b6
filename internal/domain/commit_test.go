package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommitRowRoundTrip(t *testing.T) {
	record := &CommitRecord{
		Repository: "acme/widgets",
		SHA:        "abc123",
		Author:     "Jane Dev",
		Date:       time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC),
		Message:    "fix: handle nil response, with a comma\nand a second line",
		URL:        "https://github.com/acme/widgets/commit/abc123",
	}

	row := record.Row()
	require.Len(t, row, len(CommitColumns))

	got, err := CommitFromRow(row)
	require.NoError(t, err)
	assert.Equal(t, record, got)
}

func TestCommitFromRowShortRow(t *testing.T) {
	_, err := CommitFromRow([]string{"acme/widgets", "abc123"})
	assert.ErrorContains(t, err, "columns")
}

func TestCommitFromRowBadDate(t *testing.T) {
	_, err := CommitFromRow([]string{"acme/widgets", "abc123", "Jane", "yesterday", "msg", ""})
	assert.ErrorContains(t, err, "invalid date")
}

func TestRankedRowRoundTrip(t *testing.T) {
	score := 7
	ranked := &RankedCommit{
		CommitRecord: CommitRecord{
			Repository: "acme/widgets",
			SHA:        "abc123",
			Author:     "Jane Dev",
			Date:       time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC),
			Message:    "feat: add widget cache",
			URL:        "https://github.com/acme/widgets/commit/abc123",
		},
		Score:     &score,
		Rationale: "clear and specific",
	}

	row := ranked.Row()
	require.Len(t, row, len(RankedColumns))

	got, err := RankedFromRow(row)
	require.NoError(t, err)
	assert.Equal(t, ranked, got)
}

func TestRankedRowUnscored(t *testing.T) {
	ranked := &RankedCommit{
		CommitRecord: CommitRecord{
			Repository: "acme/widgets",
			SHA:        "abc123",
			Date:       time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC),
		},
		Rationale: "rating failed: timeout",
	}

	row := ranked.Row()
	assert.Equal(t, "", row[6], "unscored record must serialize an empty score column")

	got, err := RankedFromRow(row)
	require.NoError(t, err)
	assert.Nil(t, got.Score)
	assert.Equal(t, "rating failed: timeout", got.Rationale)
}

func TestRankedColumnsExtendCommitColumns(t *testing.T) {
	require.Greater(t, len(RankedColumns), len(CommitColumns))
	assert.Equal(t, CommitColumns, RankedColumns[:len(CommitColumns)])
	assert.Equal(t, []string{"quality_score", "quality_reason"}, RankedColumns[len(CommitColumns):])
}
