package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joeyma/commitrank/internal/api"
	"github.com/joeyma/commitrank/internal/config"
	"github.com/joeyma/commitrank/internal/storage"
	"github.com/joeyma/commitrank/internal/storage/postgres"
	"github.com/joeyma/commitrank/internal/storage/sqlite"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.ValidateServer(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Initialize the archive
	var store storage.Store
	switch cfg.StorageType {
	case "postgres":
		store, err = postgres.NewPostgresStore(cfg.PostgresURL)
		if err != nil {
			log.Fatalf("Failed to initialize PostgreSQL archive: %v", err)
		}
	default:
		store, err = sqlite.NewSQLiteStore(cfg.SQLitePath)
		if err != nil {
			log.Fatalf("Failed to initialize SQLite archive: %v", err)
		}
	}
	defer store.Close()

	// Initialize handler
	handler := api.NewHandler(store)

	// Setup routes
	router := api.SetupRoutes(handler)

	// Start server
	addr := fmt.Sprintf("%s:%s", cfg.APIHost, cfg.APIPort)
	fmt.Printf("Starting API server on %s\n", addr)
	fmt.Printf("Archive type: %s\n", cfg.StorageType)

	if err := router.Run(addr); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start server: %v\n", err)
		os.Exit(1)
	}
}
