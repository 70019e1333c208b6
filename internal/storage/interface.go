package storage

import (
	"context"

	"github.com/joeyma/commitrank/internal/domain"
)

// Store is the abstract interface for the optional archive. The archive
// never carries data between the collector and the ranker; the interchange
// file remains the only channel between the two pipelines.
type Store interface {
	// Run bookkeeping
	SaveRun(ctx context.Context, run *domain.Run) error

	// Collected commits
	SaveCommits(ctx context.Context, runID string, commits []*domain.CommitRecord) error
	GetCommits(ctx context.Context, repository string, limit int) ([]*domain.CommitRecord, error)

	// Ranked commits
	SaveRankings(ctx context.Context, runID string, ranked []*domain.RankedCommit) error
	GetTopRanked(ctx context.Context, limit int) ([]*domain.RankedCommit, error)

	// Migration
	Migrate(ctx context.Context) error

	// Connection management
	Close() error
}
