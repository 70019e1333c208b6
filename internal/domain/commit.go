package domain

import (
	"fmt"
	"strconv"
	"time"
)

// Score bounds for commit message quality
const (
	MinScore = 1
	MaxScore = 10
)

// CommitRecord represents a single commit's metadata plus its originating
// repository. Records are immutable once fetched.
type CommitRecord struct {
	Repository string
	SHA        string
	Author     string
	Date       time.Time
	Message    string
	URL        string
}

// RankedCommit is a CommitRecord augmented with a quality verdict.
// A nil Score marks a record that could not be scored.
type RankedCommit struct {
	CommitRecord
	Score     *int
	Rationale string
}

// Interchange file column order. The ranked schema extends the commit
// schema; it never reorders or drops input columns.
var (
	CommitColumns = []string{"repository", "commit_sha", "author", "date", "commit_message", "url"}
	RankedColumns = append(append([]string{}, CommitColumns...), "quality_score", "quality_reason")
)

// Row flattens the record into interchange columns
func (c *CommitRecord) Row() []string {
	return []string{
		c.Repository,
		c.SHA,
		c.Author,
		c.Date.UTC().Format(time.RFC3339),
		c.Message,
		c.URL,
	}
}

// CommitFromRow parses one interchange row back into a CommitRecord
func CommitFromRow(row []string) (*CommitRecord, error) {
	if len(row) < len(CommitColumns) {
		return nil, fmt.Errorf("expected %d columns, got %d", len(CommitColumns), len(row))
	}

	date, err := time.Parse(time.RFC3339, row[3])
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", row[3], err)
	}

	return &CommitRecord{
		Repository: row[0],
		SHA:        row[1],
		Author:     row[2],
		Date:       date,
		Message:    row[4],
		URL:        row[5],
	}, nil
}

// Row flattens the ranked record, appending the verdict columns.
// An unscored record serializes with an empty score column.
func (r *RankedCommit) Row() []string {
	score := ""
	if r.Score != nil {
		score = strconv.Itoa(*r.Score)
	}
	return append(r.CommitRecord.Row(), score, r.Rationale)
}

// RankedFromRow parses one ranked interchange row
func RankedFromRow(row []string) (*RankedCommit, error) {
	if len(row) < len(RankedColumns) {
		return nil, fmt.Errorf("expected %d columns, got %d", len(RankedColumns), len(row))
	}

	commit, err := CommitFromRow(row[:len(CommitColumns)])
	if err != nil {
		return nil, err
	}

	ranked := &RankedCommit{CommitRecord: *commit, Rationale: row[7]}
	if row[6] != "" {
		score, err := strconv.Atoi(row[6])
		if err != nil {
			return nil, fmt.Errorf("invalid score %q: %w", row[6], err)
		}
		ranked.Score = &score
	}
	return ranked, nil
}
