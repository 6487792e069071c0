// ABOUTME: SQL dialects for the supported relational backends.
// ABOUTME: SQLite (modernc, pure Go) is the default; MySQL serves shared deployments.
package storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

// Dialect captures what differs between SQL backends.
type Dialect interface {
	// Name is the backend name used in config.
	Name() string
	// DriverName returns the driver name for sql.Open.
	DriverName() string
	// ConfigureConnection applies backend-specific connection settings.
	ConfigureConnection(db *sql.DB) error
	// SchemaStatements returns the DDL run at startup, one statement each.
	SchemaStatements() []string
}

// SQLiteDialect implements Dialect for modernc.org/sqlite.
type SQLiteDialect struct{}

func (SQLiteDialect) Name() string       { return "sqlite" }
func (SQLiteDialect) DriverName() string { return "sqlite" }

func (SQLiteDialect) ConfigureConnection(db *sql.DB) error {
	// Pragmas are per connection.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("execute %s: %w", pragma, err)
		}
	}
	return nil
}

func (SQLiteDialect) SchemaStatements() []string {
	return sqliteSchema
}

// MySQLDialect implements Dialect for go-sql-driver/mysql.
type MySQLDialect struct{}

func (MySQLDialect) Name() string       { return "mysql" }
func (MySQLDialect) DriverName() string { return "mysql" }

func (MySQLDialect) ConfigureConnection(db *sql.DB) error {
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	if _, err := db.Exec("SET FOREIGN_KEY_CHECKS = 1"); err != nil {
		return fmt.Errorf("enable foreign keys: %w", err)
	}
	return nil
}

func (MySQLDialect) SchemaStatements() []string {
	return mysqlSchema
}
