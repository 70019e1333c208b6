package collector

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/go-github/v55/github"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/joeyma/commitrank/internal/domain"
	apperrors "github.com/joeyma/commitrank/internal/errors"
)

// githubCollector implements Collector using the GitHub API
type githubCollector struct {
	client      *github.Client
	rateLimiter RateLimiter
	logger      *zap.SugaredLogger
}

// NewGitHubCollector creates a new GitHub collector
func NewGitHubCollector(token string, logger *zap.SugaredLogger) Collector {
	ctx := context.Background()
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)
	client := github.NewClient(tc)

	return newGitHubCollector(client, logger)
}

// NewGitHubCollectorWithClient creates a collector around an existing API
// client. Used by tests to point the collector at a stub server.
func NewGitHubCollectorWithClient(client *github.Client, logger *zap.SugaredLogger) Collector {
	return newGitHubCollector(client, logger)
}

func newGitHubCollector(client *github.Client, logger *zap.SugaredLogger) Collector {
	return &githubCollector{
		client:      client,
		rateLimiter: NewRateLimiter(logger),
		logger:      logger,
	}
}

// GetRepositories retrieves all repositories for an organization
func (c *githubCollector) GetRepositories(ctx context.Context, org string) ([]*domain.Repository, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	var allRepos []*domain.Repository
	opts := &github.RepositoryListByOrgOptions{
		ListOptions: github.ListOptions{PerPage: 100},
	}

	for {
		repos, resp, err := c.client.Repositories.ListByOrg(ctx, org, opts)
		if err != nil {
			return nil, mapListError(fmt.Sprintf("organization %s", org), resp, err)
		}

		c.updateRateLimitFromResponse(resp)

		for _, repo := range repos {
			allRepos = append(allRepos, &domain.Repository{
				Org:           org,
				Name:          repo.GetName(),
				FullName:      repo.GetFullName(),
				DefaultBranch: repo.GetDefaultBranch(),
				IsPrivate:     repo.GetPrivate(),
			})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage

		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	return allRepos, nil
}

// GetCommits retrieves all commits on the default branch of a repository
func (c *githubCollector) GetCommits(ctx context.Context, org, repo string) ([]*domain.CommitRecord, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	var allCommits []*domain.CommitRecord
	opts := &github.CommitsListOptions{
		ListOptions: github.ListOptions{PerPage: 100},
	}

	for {
		commits, resp, err := c.client.Repositories.ListCommits(ctx, org, repo, opts)
		if err != nil {
			// An empty repository has no commits; that is not an error
			if resp != nil && resp.StatusCode == http.StatusConflict {
				return allCommits, nil
			}
			return nil, mapListError(fmt.Sprintf("repository %s/%s", org, repo), resp, err)
		}

		c.updateRateLimitFromResponse(resp)

		for _, commit := range commits {
			record, err := c.mapCommit(org, repo, commit)
			if err != nil {
				c.logger.Warnw("skipping malformed commit",
					"repo", repo,
					"sha", commit.GetSHA(),
					"error", err)
				continue
			}
			allCommits = append(allCommits, record)
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage

		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	return allCommits, nil
}

// mapCommit converts an API commit object into a CommitRecord, validating
// the fields the rest of the pipeline depends on
func (c *githubCollector) mapCommit(org, repo string, commit *github.RepositoryCommit) (*domain.CommitRecord, error) {
	if commit.GetSHA() == "" {
		return nil, apperrors.NewParseError("commit response is missing sha")
	}
	if commit.Commit == nil {
		return nil, apperrors.NewParseError("commit response is missing commit payload")
	}

	author := ""
	if commit.Commit.Author != nil {
		author = commit.Commit.Author.GetName()
	}
	if author == "" && commit.Author != nil {
		author = commit.Author.GetLogin()
	}

	var date github.Timestamp
	switch {
	case commit.Commit.Author != nil && !commit.Commit.Author.GetDate().IsZero():
		date = commit.Commit.Author.GetDate()
	case commit.Commit.Committer != nil && !commit.Commit.Committer.GetDate().IsZero():
		date = commit.Commit.Committer.GetDate()
	default:
		return nil, apperrors.NewParseError("commit response is missing author date")
	}

	return &domain.CommitRecord{
		Repository: fmt.Sprintf("%s/%s", org, repo),
		SHA:        commit.GetSHA(),
		Author:     author,
		Date:       date.Time,
		Message:    commit.Commit.GetMessage(),
		URL:        commit.GetHTMLURL(),
	}, nil
}

// CollectOrganizationCommits walks every repository sequentially and
// flattens the commit listings into one ordered record set
func (c *githubCollector) CollectOrganizationCommits(ctx context.Context, org string, onProgress ProgressCallback) ([]*domain.CommitRecord, error) {
	repos, err := c.GetRepositories(ctx, org)
	if err != nil {
		return nil, err
	}

	c.logger.Infow("fetched repository list", "org", org, "repos", len(repos))

	var allCommits []*domain.CommitRecord
	for i, repo := range repos {
		commits, err := c.GetCommits(ctx, org, repo.Name)
		if err != nil {
			// A repository that disappears mid-listing is skipped, not fatal
			if apperrors.IsNotFound(err) {
				c.logger.Warnw("repository disappeared during listing, skipping",
					"repo", repo.FullName)
				continue
			}
			return nil, err
		}

		allCommits = append(allCommits, commits...)
		c.logger.Infow("collected commits", "repo", repo.FullName, "commits", len(commits))

		if onProgress != nil {
			onProgress(repo.Name, float64(i+1)/float64(len(repos)))
		}
	}

	return allCommits, nil
}

// mapListError translates a GitHub API failure into the application error
// taxonomy
func mapListError(target string, resp *github.Response, err error) error {
	if resp != nil {
		switch resp.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return apperrors.NewAuthError("GitHub credential rejected")
		case http.StatusNotFound:
			return apperrors.NewNotFoundError(target)
		case http.StatusTooManyRequests:
			return apperrors.NewTransientError("GitHub rate limit exceeded", err)
		}
		if resp.StatusCode >= 500 {
			return apperrors.NewTransientError(fmt.Sprintf("GitHub returned %d for %s", resp.StatusCode, target), err)
		}
	}
	return apperrors.NewInternalError(fmt.Sprintf("failed to list %s", target), err)
}

// updateRateLimitFromResponse updates the rate limiter from API response
func (c *githubCollector) updateRateLimitFromResponse(resp *github.Response) {
	if resp != nil && resp.Rate.Remaining >= 0 {
		c.rateLimiter.UpdateLimit(resp.Rate.Remaining, resp.Rate.Reset.Time)
	}
}
