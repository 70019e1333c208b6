package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	// GitHub
	GitHubToken string
	GitHubOrg   string

	// Azure OpenAI
	OpenAIAPIKey     string
	OpenAIEndpoint   string
	OpenAIDeployment string
	OpenAIAPIVersion string

	// Interchange files
	OutputDir string

	// Archive (optional)
	StorageType string // "", "sqlite" or "postgres"
	SQLitePath  string
	PostgresURL string

	// API Server
	APIPort string
	APIHost string
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	return &Config{
		GitHubToken:      getEnv("GITHUB_TOKEN", ""),
		GitHubOrg:        getEnv("GITHUB_ORG", ""),
		OpenAIAPIKey:     getEnv("AZURE_OPENAI_API_KEY", ""),
		OpenAIEndpoint:   getEnv("AZURE_OPENAI_ENDPOINT", ""),
		OpenAIDeployment: getEnv("AZURE_OPENAI_DEPLOYMENT", ""),
		OpenAIAPIVersion: getEnv("AZURE_OPENAI_API_VERSION", "2023-07-01-preview"),
		OutputDir:        getEnv("OUTPUT_DIR", "."),
		StorageType:      getEnv("STORAGE_TYPE", ""),
		SQLitePath:       getEnv("SQLITE_PATH", "./commitrank.db"),
		PostgresURL:      getEnv("POSTGRES_URL", ""),
		APIPort:          getEnv("API_PORT", "8080"),
		APIHost:          getEnv("API_HOST", "localhost"),
	}, nil
}

// getEnv returns the value of an environment variable or a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// ValidateCollector validates the settings the collector needs before any
// network call is made
func (c *Config) ValidateCollector() error {
	if c.GitHubToken == "" {
		return &ConfigError{Field: "GITHUB_TOKEN", Message: "GitHub token is required"}
	}
	if c.GitHubOrg == "" {
		return &ConfigError{Field: "GITHUB_ORG", Message: "GitHub organization is required"}
	}
	return c.validateArchive()
}

// ValidateRanker validates the settings the ranker needs before any network
// call is made
func (c *Config) ValidateRanker() error {
	if c.OpenAIAPIKey == "" {
		return &ConfigError{Field: "AZURE_OPENAI_API_KEY", Message: "Azure OpenAI API key is required"}
	}
	if c.OpenAIEndpoint == "" {
		return &ConfigError{Field: "AZURE_OPENAI_ENDPOINT", Message: "Azure OpenAI endpoint is required"}
	}
	if c.OpenAIDeployment == "" {
		return &ConfigError{Field: "AZURE_OPENAI_DEPLOYMENT", Message: "Azure OpenAI deployment is required"}
	}
	return c.validateArchive()
}

// ValidateServer validates the settings the archive API server needs
func (c *Config) ValidateServer() error {
	if c.StorageType == "" {
		return &ConfigError{Field: "STORAGE_TYPE", Message: "archive storage is required for the API server"}
	}
	return c.validateArchive()
}

func (c *Config) validateArchive() error {
	switch c.StorageType {
	case "", "sqlite":
	case "postgres":
		if c.PostgresURL == "" {
			return &ConfigError{Field: "POSTGRES_URL", Message: "PostgreSQL URL is required when STORAGE_TYPE is 'postgres'"}
		}
	default:
		return &ConfigError{Field: "STORAGE_TYPE", Message: "must be empty, 'sqlite' or 'postgres'"}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
