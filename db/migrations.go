package db

import (
	"fmt"
	"log"
	"time"
)

// Migration is a single versioned schema change
type Migration struct {
	Version     int
	Description string
	SQL         string
}

const initialSchemaMarker = "-- applied by InitTables(), tracked here for versioning"

// All migrations in version order
var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial notes schema",
		SQL:         initialSchemaMarker,
	},
	{
		Version:     2,
		Description: "Widen ai_type enum with nova",
		SQL: `
		ALTER TABLE notes
		MODIFY COLUMN ai_type ENUM('gpt', 'claude', 'gemini', 'nova') DEFAULT NULL;
		`,
	},
}

// ApplyMigrations brings the schema up to the latest version
func (m *MySQLManager) ApplyMigrations() error {
	if err := m.createMigrationsTable(); err != nil {
		return fmt.Errorf("creating schema_migrations table: %v", err)
	}

	currentVersion, err := m.getCurrentVersion()
	if err != nil {
		return fmt.Errorf("reading current schema version: %v", err)
	}

	applied := 0
	for _, migration := range migrations {
		if migration.Version > currentVersion {
			log.Printf("Applying migration %d: %s", migration.Version, migration.Description)

			if err := m.applyMigration(migration); err != nil {
				return fmt.Errorf("applying migration %d: %v", migration.Version, err)
			}

			applied++
		}
	}

	if applied > 0 {
		log.Printf("Applied %d migrations", applied)
	}

	return nil
}

func (m *MySQLManager) createMigrationsTable() error {
	_, err := m.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INT PRIMARY KEY,
			description VARCHAR(255) NOT NULL,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	return err
}

func (m *MySQLManager) getCurrentVersion() (int, error) {
	var version int
	err := m.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&version)
	if err != nil {
		return 0, err
	}
	return version, nil
}

func (m *MySQLManager) applyMigration(migration Migration) error {
	tx, err := m.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if migration.SQL != "" && migration.SQL != initialSchemaMarker {
		if _, err := tx.Exec(migration.SQL); err != nil {
			return fmt.Errorf("executing migration SQL: %v", err)
		}
	}

	_, err = tx.Exec(`
		INSERT INTO schema_migrations (version, description, applied_at)
		VALUES (?, ?, ?)
	`, migration.Version, migration.Description, time.Now())
	if err != nil {
		return fmt.Errorf("recording migration: %v", err)
	}

	return tx.Commit()
}
