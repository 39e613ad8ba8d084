package testutil

import (
	"database/sql"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/code-sleuth/vecbridge-go/pkg/db"
)

// SetupTestDB creates a test database connection and ensures the jobs table
// exists. Integration tests are skipped when no database is configured.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	// Load environment variables from .env file; absence is fine.
	_ = LoadEnvFromFile("../../../.env")

	dbURL := os.Getenv("VECBRIDGE_DATABASE_URL")
	authToken := os.Getenv("VECBRIDGE_DATABASE_TOKEN")

	if dbURL == "" || authToken == "" {
		t.Skip("Database environment variables not set - skipping integration test")
	}

	database, err := db.Connect()
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if _, err := database.Exec(`
		CREATE TABLE IF NOT EXISTS jobs (
			id TEXT PRIMARY KEY,
			source TEXT NOT NULL,
			collection TEXT NOT NULL,
			content_kind TEXT NOT NULL DEFAULT 'generic',
			payload TEXT,
			status TEXT NOT NULL DEFAULT 'queued',
			error TEXT,
			enqueued_at TEXT NOT NULL,
			started_at TEXT,
			finished_at TEXT
		)
	`); err != nil {
		t.Fatalf("Failed to create jobs table: %v", err)
	}

	cleanupTestData(t, database)

	return database
}

// CleanupTestDB performs cleanup after tests.
func CleanupTestDB(t *testing.T, database *sql.DB) {
	t.Helper()
	if database == nil {
		return
	}

	cleanupTestData(t, database)
	database.Close()
}

// cleanupTestData removes all test data from database tables.
func cleanupTestData(t *testing.T, database *sql.DB) {
	t.Helper()
	if _, err := database.Exec("DELETE FROM jobs"); err != nil {
		t.Logf("Warning: failed to clean jobs table: %v", err)
	}
}

// LoadEnvFromFile loads environment variables from a file without
// overriding values already present in the environment.
func LoadEnvFromFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read env file: %w", err)
	}

	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"'`)

		if os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}

	return nil
}
