package collector

import (
	"context"

	"github.com/joeyma/commitrank/internal/domain"
)

// Collector defines the interface for collecting GitHub commit data
type Collector interface {
	// GetRepositories retrieves all repositories for an organization
	GetRepositories(ctx context.Context, org string) ([]*domain.Repository, error)

	// GetCommits retrieves all commits on the default branch of a repository
	GetCommits(ctx context.Context, org, repo string) ([]*domain.CommitRecord, error)

	// CollectOrganizationCommits collects commits across every repository
	// visible to the credential. A repository whose commit listing 404s is
	// skipped with a warning rather than failing the run.
	CollectOrganizationCommits(ctx context.Context, org string, onProgress ProgressCallback) ([]*domain.CommitRecord, error)
}

// ProgressCallback is a callback function for reporting progress
type ProgressCallback func(repo string, progress float64)
