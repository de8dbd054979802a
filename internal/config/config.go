package config

import (
	"os"
	"strings"
)

// DeletionMode selects what document deletion does: soft keeps rows and
// marks them deleted, hard removes them permanently.
type DeletionMode string

const (
	DeletionModeSoft DeletionMode = "soft"
	DeletionModeHard DeletionMode = "hard"
)

type Config struct {
	Port        string
	Environment string
	DatabaseURL string
	CORSOrigins string
	TablePrefix string
	// Blob storage
	StorageBucket       string
	StoragePublicDomain string // Public base URL serving stored objects
	// External processing workflow
	DocumentWebhookURL string
	PagesWebhookURL    string
	// Deletion behavior
	DeletionMode DeletionMode
	// Logging
	LogDir string // When set, logs are also written to rotating files here
	// Debug flags
	Debug bool
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")
	tablePrefix := getTablePrefix(env)

	return &Config{
		Port:                getEnv("PORT", "8080"),
		Environment:         env,
		DatabaseURL:         getEnv("DATABASE_URL", ""),
		CORSOrigins:         getEnv("CORS_ORIGINS", "http://localhost:3000"),
		TablePrefix:         tablePrefix,
		StorageBucket:       getEnv("STORAGE_BUCKET", "documents"),
		StoragePublicDomain: getEnv("STORAGE_PUBLIC_DOMAIN", ""),
		DocumentWebhookURL:  getEnv("DOCUMENT_WEBHOOK_URL", ""),
		PagesWebhookURL:     getEnv("PAGES_WEBHOOK_URL", ""),
		DeletionMode:        getDeletionMode(),
		LogDir:              getEnv("LOG_DIR", ""),
		// Debug flags - default to true in dev/test, false in production
		Debug: getEnv("DEBUG", getDefaultDebug(env)) == "true",
	}
}

// getDeletionMode reads DELETION_MODE, defaulting to soft. Anything other
// than "hard" means soft.
func getDeletionMode() DeletionMode {
	if strings.EqualFold(os.Getenv("DELETION_MODE"), string(DeletionModeHard)) {
		return DeletionModeHard
	}
	return DeletionModeSoft
}

// getDefaultDebug returns the default debug setting based on environment
func getDefaultDebug(env string) string {
	if env == "prod" {
		return "false"
	}
	return "true" // Enable DEBUG in dev/test by default
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	// Auto-generate based on environment
	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
