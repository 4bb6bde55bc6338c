package database

import (
	"fmt"
	"log/slog"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// migrations contains all database migrations in order
var migrations = []Migration{
	{
		Version: 1,
		Name:    "create_reports_table",
		SQL: `
			CREATE TABLE IF NOT EXISTS reports (
				session_id TEXT PRIMARY KEY,
				report TEXT NOT NULL,
				overall_status TEXT NOT NULL,
				quality_score REAL NOT NULL,
				partial INTEGER NOT NULL DEFAULT 0,
				created_at TIMESTAMP NOT NULL
			);
			CREATE INDEX IF NOT EXISTS idx_reports_created_at ON reports(created_at);
			CREATE INDEX IF NOT EXISTS idx_reports_status ON reports(overall_status);
		`,
	},
	{
		Version: 2,
		Name:    "create_report_issues_table",
		SQL: `
			CREATE TABLE IF NOT EXISTS report_issues (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				session_id TEXT NOT NULL,
				item_id TEXT NOT NULL,
				issue_type TEXT NOT NULL,
				reason TEXT NOT NULL,
				FOREIGN KEY (session_id) REFERENCES reports(session_id) ON DELETE CASCADE
			);
			CREATE INDEX IF NOT EXISTS idx_report_issues_session ON report_issues(session_id);
			CREATE INDEX IF NOT EXISTS idx_report_issues_type ON report_issues(issue_type);
		`,
	},
}

// Migrate applies all pending migrations.
func (db *DB) Migrate() error {
	if _, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}

	applied := make(map[int]bool)
	rows, err := db.conn.Query("SELECT version FROM schema_version")
	if err != nil {
		return fmt.Errorf("failed to read schema versions: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return fmt.Errorf("failed to scan schema version: %w", err)
		}
		applied[v] = true
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read schema versions: %w", err)
	}

	for _, m := range migrations {
		if applied[m.Version] {
			continue
		}

		slog.Info("applying migration", "version", m.Version, "name", m.Name)
		if _, err := db.conn.Exec(m.SQL); err != nil {
			return fmt.Errorf("migration %d (%s) failed: %w", m.Version, m.Name, err)
		}
		if _, err := db.conn.Exec(
			"INSERT OR IGNORE INTO schema_version (version) VALUES (?)", m.Version,
		); err != nil {
			return fmt.Errorf("failed to record migration %d: %w", m.Version, err)
		}
	}

	return nil
}
