package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/joeyma/commitrank/internal/domain"
	"github.com/joeyma/commitrank/internal/storage"
)

// sqliteStore implements the Store interface for SQLite
type sqliteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite archive instance
func NewSQLiteStore(dbPath string) (storage.Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}

	s := &sqliteStore{db: db}
	if err := s.Migrate(context.Background()); err != nil {
		return nil, err
	}

	return s, nil
}

// Migrate runs database migrations
func (s *sqliteStore) Migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		org TEXT NOT NULL,
		artifact TEXT NOT NULL,
		records INTEGER NOT NULL,
		started_at TIMESTAMP NOT NULL,
		finished_at TIMESTAMP NOT NULL
	);

	CREATE TABLE IF NOT EXISTS commits (
		run_id TEXT NOT NULL,
		repository TEXT NOT NULL,
		sha TEXT NOT NULL,
		author TEXT,
		date TIMESTAMP NOT NULL,
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
		date TIMESTAMP NOT NULL,
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
func (s *sqliteStore) SaveRun(ctx context.Context, run *domain.Run) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO runs (id, kind, org, artifact, records, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, run.ID, string(run.Kind), run.Org, run.Artifact, run.Records, run.StartedAt, run.FinishedAt)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	return nil
}

// SaveCommits persists collected commits for a run
func (s *sqliteStore) SaveCommits(ctx context.Context, runID string, commits []*domain.CommitRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO commits (run_id, repository, sha, author, date, message, url)
		VALUES (?, ?, ?, ?, ?, ?, ?)
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
func (s *sqliteStore) GetCommits(ctx context.Context, repository string, limit int) ([]*domain.CommitRecord, error) {
	query := `
		SELECT repository, sha, author, date, message, url FROM commits
	`
	args := []interface{}{}
	if repository != "" {
		query += ` WHERE repository = ?`
		args = append(args, repository)
	}
	query += ` ORDER BY date DESC LIMIT ?`
	args = append(args, limit)

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
func (s *sqliteStore) SaveRankings(ctx context.Context, runID string, ranked []*domain.RankedCommit) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO rankings (run_id, repository, sha, author, date, message, url, score, rationale)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
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
func (s *sqliteStore) GetTopRanked(ctx context.Context, limit int) ([]*domain.RankedCommit, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT repository, sha, author, date, message, url, score, rationale FROM rankings
		WHERE score IS NOT NULL
		ORDER BY score DESC, date DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRankings(rows)
}

func scanRankings(rows *sql.Rows) ([]*domain.RankedCommit, error) {
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
func (s *sqliteStore) Close() error {
	return s.db.Close()
}
