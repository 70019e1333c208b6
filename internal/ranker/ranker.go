// Package ranker scores commit messages through a chat-completion endpoint
// and augments commit records with the verdict.
package ranker

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/joeyma/commitrank/internal/domain"
	apperrors "github.com/joeyma/commitrank/internal/errors"
)

// CompletionClient is the single round-trip the ranker needs from a model
type CompletionClient interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Ranker scores commit records one at a time, in input order
type Ranker struct {
	client  CompletionClient
	logger  *zap.SugaredLogger
	backoff time.Duration
}

// New creates a new Ranker
func New(client CompletionClient, logger *zap.SugaredLogger) *Ranker {
	return &Ranker{
		client:  client,
		logger:  logger,
		backoff: 2 * time.Second,
	}
}

// RankAll scores every record and returns the augmented set in input order.
// Per-record failures leave the record unscored; authentication failures
// abort the run.
func (r *Ranker) RankAll(ctx context.Context, records []*domain.CommitRecord) ([]*domain.RankedCommit, error) {
	ranked := make([]*domain.RankedCommit, 0, len(records))
	for i, record := range records {
		result, err := r.rank(ctx, record)
		if err != nil {
			return nil, err
		}
		ranked = append(ranked, result)

		if result.Score != nil {
			r.logger.Infow("scored commit",
				"repo", record.Repository,
				"sha", record.SHA,
				"score", *result.Score,
				"progress", fmt.Sprintf("%d/%d", i+1, len(records)))
		} else {
			r.logger.Warnw("commit left unscored",
				"repo", record.Repository,
				"sha", record.SHA,
				"reason", result.Rationale)
		}
	}
	return ranked, nil
}

// rank scores a single record. Identity fields are copied from the input
// record untouched.
func (r *Ranker) rank(ctx context.Context, record *domain.CommitRecord) (*domain.RankedCommit, error) {
	ranked := &domain.RankedCommit{CommitRecord: *record}

	// Empty messages get the fixed minimum score without a model call
	if strings.TrimSpace(record.Message) == "" {
		score := domain.MinScore
		ranked.Score = &score
		ranked.Rationale = "empty commit message"
		return ranked, nil
	}

	system, user := BuildPrompt(record.Message)

	content, err := r.complete(ctx, system, user)
	if err != nil {
		// A rejected key or missing deployment fails every record; abort
		if apperrors.IsAuth(err) || apperrors.IsNotFound(err) {
			return nil, err
		}
		ranked.Rationale = fmt.Sprintf("rating failed: %v", err)
		return ranked, nil
	}

	score, reason, err := ParseVerdict(content)
	if err != nil {
		// Keep the raw response so the verdict can be inspected later
		ranked.Rationale = content
		return ranked, nil
	}

	ranked.Score = &score
	ranked.Rationale = reason
	return ranked, nil
}

// complete performs the round trip with a single retry on transient failure
func (r *Ranker) complete(ctx context.Context, system, user string) (string, error) {
	content, err := r.client.Complete(ctx, system, user)
	if err == nil || !apperrors.IsTransient(err) {
		return content, err
	}

	r.logger.Warnw("transient completion failure, retrying", "error", err)
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-time.After(r.backoff):
	}

	return r.client.Complete(ctx, system, user)
}
