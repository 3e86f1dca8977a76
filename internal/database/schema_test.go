package database

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestMigrationFilesExist(t *testing.T) {
	migrationsDir := "../../migrations"

	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		t.Fatal("Migrations directory does not exist")
	}

	expectedMigrations := []string{
		"00001_create_store_documents_table.sql",
	}

	for _, migration := range expectedMigrations {
		path := filepath.Join(migrationsDir, migration)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			t.Errorf("Migration file %s does not exist", migration)
		}
	}
}

func TestMigrationFilesHaveUpAndDown(t *testing.T) {
	migrationsDir := "../../migrations"

	files, err := os.ReadDir(migrationsDir)
	if err != nil {
		t.Fatalf("Failed to read migrations directory: %v", err)
	}

	sqlFileCount := 0
	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".sql") {
			continue
		}

		sqlFileCount++
		content, err := os.ReadFile(filepath.Join(migrationsDir, file.Name()))
		if err != nil {
			t.Errorf("Failed to read migration file %s: %v", file.Name(), err)
			continue
		}

		contentStr := string(content)

		for _, directive := range []string{
			"-- +goose Up",
			"-- +goose Down",
			"-- +goose StatementBegin",
			"-- +goose StatementEnd",
		} {
			if !strings.Contains(contentStr, directive) {
				t.Errorf("Migration file %s missing %q directive", file.Name(), directive)
			}
		}
	}

	if sqlFileCount == 0 {
		t.Error("No SQL migration files found")
	}
}

func TestDocumentsTableHasRequiredColumns(t *testing.T) {
	path := filepath.Join("../../migrations", "00001_create_store_documents_table.sql")

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read documents migration: %v", err)
	}

	contentStr := string(content)
	requiredColumns := []string{
		"key VARCHAR(255) PRIMARY KEY",
		"doc JSONB NOT NULL",
		"updated_at TIMESTAMP",
	}

	for _, column := range requiredColumns {
		if !strings.Contains(contentStr, column) {
			t.Errorf("Documents table missing required column definition: %s", column)
		}
	}

	if !strings.Contains(contentStr, "DROP TABLE IF EXISTS store_documents") {
		t.Error("Documents migration does not drop the table in the down section")
	}
}
