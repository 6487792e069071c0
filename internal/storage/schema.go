// ABOUTME: Schema definitions for the users, habits, and completions tables.
// ABOUTME: Timestamps are stored as UTC RFC3339 text in both dialects.
package storage

import "fmt"

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS habits (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		name TEXT NOT NULL,
		periodicity TEXT NOT NULL CHECK (periodicity IN ('daily', 'weekly', 'monthly')),
		created_at TEXT NOT NULL,
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS completions (
		id TEXT PRIMARY KEY,
		habit_id TEXT NOT NULL,
		completed_at TEXT NOT NULL,
		created_at TEXT NOT NULL,
		FOREIGN KEY (habit_id) REFERENCES habits(id) ON DELETE CASCADE
	)`,
	`CREATE INDEX IF NOT EXISTS idx_habits_user ON habits(user_id, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_completions_habit ON completions(habit_id, completed_at)`,
}

var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id VARCHAR(36) PRIMARY KEY,
		username VARCHAR(50) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		created_at VARCHAR(40) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS habits (
		id VARCHAR(36) PRIMARY KEY,
		user_id VARCHAR(36) NOT NULL,
		name VARCHAR(100) NOT NULL,
		periodicity ENUM('daily', 'weekly', 'monthly') NOT NULL,
		created_at VARCHAR(40) NOT NULL,
		INDEX idx_habits_user (user_id, created_at),
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS completions (
		id VARCHAR(36) PRIMARY KEY,
		habit_id VARCHAR(36) NOT NULL,
		completed_at VARCHAR(40) NOT NULL,
		created_at VARCHAR(40) NOT NULL,
		INDEX idx_completions_habit (habit_id, completed_at),
		FOREIGN KEY (habit_id) REFERENCES habits(id) ON DELETE CASCADE
	)`,
}

// initSchema creates the tables if they don't exist yet.
func (d *DB) initSchema() error {
	for _, stmt := range d.dialect.SchemaStatements() {
		if _, err := d.db.Exec(stmt); err != nil {
			return fmt.Errorf("apply %s schema: %w", d.dialect.Name(), err)
		}
	}
	return nil
}
