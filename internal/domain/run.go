package domain

import "time"

// RunKind distinguishes collector runs from ranker runs in the archive
type RunKind string

const (
	RunKindCollect RunKind = "collect"
	RunKindRank    RunKind = "rank"
)

// Run records one pipeline execution and the artifact it produced
type Run struct {
	ID         string
	Kind       RunKind
	Org        string
	Artifact   string
	Records    int
	StartedAt  time.Time
	FinishedAt time.Time
}
