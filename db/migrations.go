package db

import (
	"database/sql"
	"fmt"

	"github.com/rohanthewiz/logger"
	"github.com/rohanthewiz/serr"
)

// Migration represents a database migration
type Migration struct {
	Version     int
	Description string
	SQL         string
}

// migrations list all database migrations in order
var migrations = []Migration{
	{
		Version:     1,
		Description: "Create snapshot tables",
		SQL: `
			CREATE TABLE IF NOT EXISTS runs (
				id TEXT NOT NULL,
				root TEXT NOT NULL,
				remote BOOLEAN NOT NULL DEFAULT FALSE,
				created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
			);

			CREATE TABLE IF NOT EXISTS files (
				run_id TEXT NOT NULL,
				path TEXT NOT NULL,
				name TEXT NOT NULL,
				extension TEXT NOT NULL DEFAULT '',
				language TEXT NOT NULL DEFAULT '',
				tokens INTEGER NOT NULL DEFAULT 0
			);

			CREATE TABLE IF NOT EXISTS dependencies (
				run_id TEXT NOT NULL,
				name TEXT NOT NULL
			);
		`,
	},
	{
		Version:     2,
		Description: "Index files and dependencies by run",
		SQL: `
			CREATE INDEX IF NOT EXISTS idx_files_run ON files(run_id);
			CREATE INDEX IF NOT EXISTS idx_dependencies_run ON dependencies(run_id);
		`,
	},
}

// Migrate applies every migration newer than the recorded version
func (db *DB) Migrate() error {
	// First, ensure migrations table exists
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS migrations (
			version INTEGER PRIMARY KEY,
			description TEXT NOT NULL,
			applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return serr.Wrap(err, "failed to create migrations table")
	}

	var currentVersion int
	err = db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM migrations").Scan(&currentVersion)
	if err != nil {
		return serr.Wrap(err, "failed to get current migration version")
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		logger.Debug("Applying migration", "version", migration.Version, "description", migration.Description)

		err := db.Transaction(func(tx *sql.Tx) error {
			if _, err := tx.Exec(migration.SQL); err != nil {
				return serr.Wrap(err, fmt.Sprintf("failed to execute migration %d", migration.Version))
			}

			_, err := tx.Exec(
				"INSERT INTO migrations (version, description) VALUES (?, ?)",
				migration.Version, migration.Description,
			)
			if err != nil {
				return serr.Wrap(err, "failed to record migration")
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	return nil
}
