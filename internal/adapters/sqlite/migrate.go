package sqlite

import (
	"database/sql"
	"fmt"
)

// SchemaVersion is the latest schema version supported by the migrator
const SchemaVersion = 1

// triageColumns are shared by every entity table
const triageColumns = `
	importance INTEGER NOT NULL,
	urgency INTEGER NOT NULL,
	state TEXT NOT NULL,
	decision TEXT NOT NULL,
	benefit REAL NOT NULL DEFAULT 0,
	friction REAL NOT NULL DEFAULT 0,
	next_review TEXT NULL,
	notify_enabled INTEGER NOT NULL DEFAULT 0,
	manual INTEGER NOT NULL DEFAULT 1,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL`

var migrations = []struct {
	name string
	stmt string
}{
	{"create inbox_items table", `
		CREATE TABLE IF NOT EXISTS inbox_items (
			id TEXT PRIMARY KEY,
			thought TEXT NOT NULL,
			why TEXT NOT NULL DEFAULT '',` + triageColumns + `
		);`},
	{"create cases table", `
		CREATE TABLE IF NOT EXISTS cases (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			brief TEXT NOT NULL DEFAULT '',
			details TEXT NOT NULL DEFAULT '',` + triageColumns + `
		);`},
	{"create attempts table", `
		CREATE TABLE IF NOT EXISTS attempts (
			id TEXT PRIMARY KEY,
			case_id TEXT NOT NULL REFERENCES cases(id) ON DELETE CASCADE,
			note TEXT NOT NULL DEFAULT '',
			outcome TEXT NOT NULL DEFAULT '',` + triageColumns + `
		);`},
	{"create app_state table", `
		CREATE TABLE IF NOT EXISTS app_state (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`},
	{"create reminders table", `
		CREATE TABLE IF NOT EXISTS reminders (
			key TEXT PRIMARY KEY,
			fire_at TEXT NOT NULL,
			title TEXT NOT NULL,
			body TEXT NOT NULL,
			created_at TEXT NOT NULL
		);`},
	{"create idx_attempts_case", `CREATE INDEX IF NOT EXISTS idx_attempts_case ON attempts(case_id, created_at);`},
	{"create idx_attempts_state", `CREATE INDEX IF NOT EXISTS idx_attempts_state ON attempts(state);`},
	{"create idx_reminders_fire_at", `CREATE INDEX IF NOT EXISTS idx_reminders_fire_at ON reminders(fire_at);`},
}

// Migrate ensures the schema exists and is upgraded to SchemaVersion
func Migrate(db *sql.DB) error {
	if db == nil {
		return fmt.Errorf("migrate: db is nil")
	}

	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (version INTEGER PRIMARY KEY);`)
	if err != nil {
		return fmt.Errorf("migrate: create schema_migrations: %w", err)
	}

	var current int
	err = db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_migrations;`).Scan(&current)
	if err != nil {
		return fmt.Errorf("migrate: read current version: %w", err)
	}
	if current >= SchemaVersion {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("migrate: begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, m := range migrations {
		if _, err := tx.Exec(m.stmt); err != nil {
			return fmt.Errorf("migrate: %s: %w", m.name, err)
		}
	}

	if _, err := tx.Exec(`INSERT INTO schema_migrations(version) VALUES (?);`, SchemaVersion); err != nil {
		return fmt.Errorf("migrate: record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("migrate: commit transaction: %w", err)
	}
	return nil
}
