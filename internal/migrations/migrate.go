package migrations

import (
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
)

const (
	sqliteDialect   = "sqlite3"
	postgresDialect = "postgres"
)

// DialectFor maps a configured database driver to its goose dialect.
func DialectFor(driver string) (string, error) {
	switch driver {
	case "sqlite":
		return sqliteDialect, nil
	case "postgres":
		return postgresDialect, nil
	default:
		return "", fmt.Errorf("no migration dialect for driver %q", driver)
	}
}

// Up runs all pending SQL migrations found in migrationsDir.
func Up(db *sql.DB, migrationsDir, dialect string) error {
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	if err := goose.Up(db, migrationsDir); err != nil {
		return fmt.Errorf("run goose up migrations: %w", err)
	}

	return nil
}
