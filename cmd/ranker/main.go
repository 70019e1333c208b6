package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/joeyma/commitrank/internal/config"
	"github.com/joeyma/commitrank/internal/csvio"
	"github.com/joeyma/commitrank/internal/domain"
	"github.com/joeyma/commitrank/internal/llm"
	"github.com/joeyma/commitrank/internal/ranker"
	"github.com/joeyma/commitrank/internal/storage"
	"github.com/joeyma/commitrank/internal/storage/postgres"
	"github.com/joeyma/commitrank/internal/storage/sqlite"
)

var rootCmd = &cobra.Command{
	Use:   "commitrank-ranker [commits-file]",
	Short: "Score collected commit messages with Azure OpenAI",
	Long: `Reads a commits_*.csv artifact (the most recent one by default, or
an explicitly named file), scores each commit message against a fixed
quality rubric and writes a rated_commits_*.csv artifact with the verdict
columns appended.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRank,
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

func runRank(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Fail fast before any network call
	if err := cfg.ValidateRanker(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger := newLogger()
	defer logger.Sync()

	input, err := resolveInput(cfg, args)
	if err != nil {
		return err
	}
	logger.Infow("using commits file", "path", input)

	records, err := readRecords(input, logger)
	if err != nil {
		return err
	}

	client := llm.NewClient(llm.Config{
		APIKey:     cfg.OpenAIAPIKey,
		Endpoint:   cfg.OpenAIEndpoint,
		Deployment: cfg.OpenAIDeployment,
		APIVersion: cfg.OpenAIAPIVersion,
	})

	ctx := context.Background()
	startedAt := time.Now()

	rk := ranker.New(client, logger)
	ranked, err := rk.RankAll(ctx, records)
	if err != nil {
		return fmt.Errorf("failed to rank commits: %w", err)
	}

	path := csvio.ArtifactPath(cfg.OutputDir, "rated_commits", startedAt)
	rows := make([][]string, 0, len(ranked))
	for _, r := range ranked {
		rows = append(rows, r.Row())
	}
	if err := csvio.Write(path, domain.RankedColumns, rows); err != nil {
		return fmt.Errorf("failed to write rated commits file: %w", err)
	}

	archiveRun(ctx, cfg, logger, &domain.Run{
		ID:         uuid.New().String(),
		Kind:       domain.RunKindRank,
		Org:        cfg.GitHubOrg,
		Artifact:   path,
		Records:    len(ranked),
		StartedAt:  startedAt,
		FinishedAt: time.Now(),
	}, ranked)

	fmt.Printf("Rated %d commits\n", len(ranked))
	fmt.Printf("Results saved to: %s\n", path)

	displayTopCommits(ranked, 10)
	return nil
}

func resolveInput(cfg *config.Config, args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	return csvio.Latest(cfg.OutputDir, "commits")
}

func readRecords(path string, logger *zap.SugaredLogger) ([]*domain.CommitRecord, error) {
	header, rows, err := csvio.Read(path)
	if err != nil {
		return nil, err
	}
	if len(header) < len(domain.CommitColumns) {
		return nil, fmt.Errorf("%s: expected columns %v, got %v", path, domain.CommitColumns, header)
	}

	records := make([]*domain.CommitRecord, 0, len(rows))
	for i, row := range rows {
		record, err := domain.CommitFromRow(row)
		if err != nil {
			logger.Warnw("skipping malformed row", "path", path, "row", i+2, "error", err)
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

// displayTopCommits prints the highest-scored commits as a table
func displayTopCommits(ranked []*domain.RankedCommit, count int) {
	scored := make([]*domain.RankedCommit, 0, len(ranked))
	for _, r := range ranked {
		if r.Score != nil {
			scored = append(scored, r)
		}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return *scored[i].Score > *scored[j].Score
	})
	if len(scored) > count {
		scored = scored[:count]
	}

	fmt.Printf("\nTop %d quality commits\n\n", len(scored))

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Score", "Repository", "SHA", "Author", "Message", "Reason"})
	for _, r := range scored {
		table.Append([]string{
			fmt.Sprintf("%d/10", *r.Score),
			r.Repository,
			truncate(r.SHA, 8),
			r.Author,
			truncate(r.Message, 60),
			truncate(r.Rationale, 60),
		})
	}
	table.Render()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

// archiveRun persists the run and its rankings when an archive backend is
// configured. Archive failures never fail the run.
func archiveRun(ctx context.Context, cfg *config.Config, logger *zap.SugaredLogger, run *domain.Run, ranked []*domain.RankedCommit) {
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
	if err := store.SaveRankings(ctx, run.ID, ranked); err != nil {
		logger.Warnw("failed to archive rankings", "error", err)
	}
}
