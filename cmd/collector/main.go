package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/joeyma/commitrank/internal/collector"
	"github.com/joeyma/commitrank/internal/config"
	"github.com/joeyma/commitrank/internal/csvio"
	"github.com/joeyma/commitrank/internal/domain"
	"github.com/joeyma/commitrank/internal/storage"
	"github.com/joeyma/commitrank/internal/storage/postgres"
	"github.com/joeyma/commitrank/internal/storage/sqlite"
)

var rootCmd = &cobra.Command{
	Use:   "commitrank-collector",
	Short: "Collect GitHub organization commits into a CSV artifact",
	Long: `Collects every commit on the default branch of every repository
visible to the configured credential and writes them to a timestamped
commits_*.csv file. Organization and token are read from the environment.`,
	Args: cobra.NoArgs,
	RunE: runCollect,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newLogger() *zap.SugaredLogger {
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return logger.Sugar()
}

func openStore(cfg *config.Config) (storage.Store, error) {
	switch cfg.StorageType {
	case "postgres":
		return postgres.NewPostgresStore(cfg.PostgresURL)
	case "sqlite":
		return sqlite.NewSQLiteStore(cfg.SQLitePath)
	}
	return nil, nil
}

func runCollect(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Fail fast before any network call
	if err := cfg.ValidateCollector(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger := newLogger()
	defer logger.Sync()

	coll := collector.NewGitHubCollector(cfg.GitHubToken, logger)
	ctx := context.Background()
	startedAt := time.Now()

	logger.Infow("collecting commits", "org", cfg.GitHubOrg)

	records, err := coll.CollectOrganizationCommits(ctx, cfg.GitHubOrg, func(repo string, progress float64) {
		fmt.Printf("\rProgress: %.1f%% (%s)", progress*100, repo)
	})
	if err != nil {
		return fmt.Errorf("failed to collect commits: %w", err)
	}
	fmt.Println()

	path := csvio.ArtifactPath(cfg.OutputDir, "commits", startedAt)
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, record.Row())
	}
	if err := csvio.Write(path, domain.CommitColumns, rows); err != nil {
		return fmt.Errorf("failed to write commits file: %w", err)
	}

	archiveRun(ctx, cfg, logger, &domain.Run{
		ID:         uuid.New().String(),
		Kind:       domain.RunKindCollect,
		Org:        cfg.GitHubOrg,
		Artifact:   path,
		Records:    len(records),
		StartedAt:  startedAt,
		FinishedAt: time.Now(),
	}, records)

	fmt.Printf("Collected %d commits\n", len(records))
	fmt.Printf("Results saved to: %s\n", path)
	return nil
}

// archiveRun persists the run and its commits when an archive backend is
// configured. Archive failures never fail the run.
func archiveRun(ctx context.Context, cfg *config.Config, logger *zap.SugaredLogger, run *domain.Run, records []*domain.CommitRecord) {
	if cfg.StorageType == "" {
		return
	}

	store, err := openStore(cfg)
	if err != nil {
		logger.Warnw("failed to open archive", "error", err)
		return
	}
	defer store.Close()

	if err := store.SaveRun(ctx, run); err != nil {
		logger.Warnw("failed to archive run", "error", err)
		return
	}
	if err := store.SaveCommits(ctx, run.ID, records); err != nil {
		logger.Warnw("failed to archive commits", "error", err)
	}
}
