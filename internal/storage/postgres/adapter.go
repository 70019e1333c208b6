package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/joeyma/commitrank/internal/domain"
	"github.com/joeyma/commitrank/internal/storage"
)

// postgresStore implements the Store interface for PostgreSQL
type postgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new PostgreSQL archive instance
func NewPostgresStore(connURL string) (storage.Store, error) {
	db, err := sql.Open("postgres", connURL)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	s := &postgresStore{db: db}
	if err := s.Migrate(context.Background()); err != nil {
		return nil, err
	}

	return s, nil
}

// Migrate runs database migrations
func (s *postgresStore) Migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		org TEXT NOT NULL,
		artifact TEXT NOT NULL,
		records INTEGER NOT NULL,
		started_at TIMESTAMPTZ NOT NULL,
		finished_at TIMESTAMPTZ NOT NULL
	);

	CREATE TABLE IF NOT EXISTS commits (
		run_id TEXT NOT NULL,
		repository TEXT NOT NULL,
		sha TEXT NOT NULL,
		author TEXT,
		date TIMESTAMPTZ NOT NULL,
		message TEXT NOT NULL,
		url TEXT,
		PRIMARY KEY (run_id, repository, sha)
	);

	CREATE INDEX IF NOT EXISTS idx_commits_repository ON commits(repository);
	CREATE INDEX IF NOT EXISTS idx_commits_date ON commits(date);

	CREATE TABLE IF NOT EXISTS rankings (
		run_id TEXT NOT NULL,
		repository TEXT NOT NULL,
		sha TEXT NOT NULL,
		author TEXT,
		date TIMESTAMPTZ NOT NULL,
		message TEXT NOT NULL,
		url TEXT,
		score INTEGER,
		rationale TEXT,
		PRIMARY KEY (run_id, repository, sha)
	);

	CREATE INDEX IF NOT EXISTS idx_rankings_score ON rankings(score);
	`

	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// SaveRun persists one pipeline execution record
func (s *postgresStore) SaveRun(ctx context.Context, run *domain.Run) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, kind, org, artifact, records, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			records = EXCLUDED.records,
			finished_at = EXCLUDED.finished_at
	`, run.ID, string(run.Kind), run.Org, run.Artifact, run.Records, run.StartedAt, run.FinishedAt)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	return nil
}

// SaveCommits persists collected commits for a run
func (s *postgresStore) SaveCommits(ctx context.Context, runID string, commits []*domain.CommitRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO commits (run_id, repository, sha, author, date, message, url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (run_id, repository, sha) DO NOTHING
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, c := range commits {
		if _, err := stmt.ExecContext(ctx, runID, c.Repository, c.SHA, c.Author, c.Date, c.Message, c.URL); err != nil {
			return fmt.Errorf("failed to save commit %s: %w", c.SHA, err)
		}
	}

	return tx.Commit()
}

// GetCommits returns archived commits, optionally filtered by repository
func (s *postgresStore) GetCommits(ctx context.Context, repository string, limit int) ([]*domain.CommitRecord, error) {
	query := `SELECT repository, sha, author, date, message, url FROM commits`
	args := []interface{}{}
	if repository != "" {
		query += ` WHERE repository = $1 ORDER BY date DESC LIMIT $2`
		args = append(args, repository, limit)
	} else {
		query += ` ORDER BY date DESC LIMIT $1`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var commits []*domain.CommitRecord
	for rows.Next() {
		c := &domain.CommitRecord{}
		if err := rows.Scan(&c.Repository, &c.SHA, &c.Author, &c.Date, &c.Message, &c.URL); err != nil {
			return nil, err
		}
		commits = append(commits, c)
	}
	return commits, rows.Err()
}

// SaveRankings persists ranked commits for a run
func (s *postgresStore) SaveRankings(ctx context.Context, runID string, ranked []*domain.RankedCommit) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO rankings (run_id, repository, sha, author, date, message, url, score, rationale)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (run_id, repository, sha) DO UPDATE SET
			score = EXCLUDED.score,
			rationale = EXCLUDED.rationale
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range ranked {
		score := sql.NullInt64{}
		if r.Score != nil {
			score = sql.NullInt64{Int64: int64(*r.Score), Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, runID, r.Repository, r.SHA, r.Author, r.Date, r.Message, r.URL, score, r.Rationale); err != nil {
			return fmt.Errorf("failed to save ranking %s: %w", r.SHA, err)
		}
	}

	return tx.Commit()
}

// GetTopRanked returns the highest-scored commits across all runs
func (s *postgresStore) GetTopRanked(ctx context.Context, limit int) ([]*domain.RankedCommit, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT repository, sha, author, date, message, url, score, rationale FROM rankings
		WHERE score IS NOT NULL
		ORDER BY score DESC, date DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ranked []*domain.RankedCommit
	for rows.Next() {
		r := &domain.RankedCommit{}
		var score sql.NullInt64
		if err := rows.Scan(&r.Repository, &r.SHA, &r.Author, &r.Date, &r.Message, &r.URL, &score, &r.Rationale); err != nil {
			return nil, err
		}
		if score.Valid {
			v := int(score.Int64)
			r.Score = &v
		}
		ranked = append(ranked, r)
	}
	return ranked, rows.Err()
}

// Close closes the database connection
func (s *postgresStore) Close() error {
	return s.db.Close()
}
