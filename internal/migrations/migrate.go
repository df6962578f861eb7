// Package migrations applies the file-based SQL migrations in ./migrations.
package migrations

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"regexp"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	pg "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
)

const (
	migrationsDir = "migrations"
	metadataTable = "schema_migrations_meta"
)

// RunMigrations brings the database to the latest migration version. A
// database that already carries the schema but no migration metadata (created
// before the runner existed) is baselined to the newest version first, so Up
// does not re-run CREATE statements against live tables.
func RunMigrations(databaseURL string) error {
	if databaseURL == "" {
		return fmt.Errorf("database URL is empty")
	}

	sqlDB, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return fmt.Errorf("failed to open DB: %w", err)
	}
	defer sqlDB.Close()

	driver, err := pg.WithInstance(sqlDB, &pg.Config{MigrationsTable: metadataTable})
	if err != nil {
		return fmt.Errorf("failed to create migrate driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+migrationsDir, "postgres", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if needsBaseline(sqlDB) {
		if latest := latestVersion(migrationsDir); latest > 0 {
			log.Printf("[MIGRATE] Existing schema without metadata, baselining to version %d", latest)
			if err := m.Force(latest); err != nil {
				log.Printf("[MIGRATE] Baseline to version %d failed: %v", latest, err)
			}
		}
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up failed: %w", err)
	}

	log.Printf("[MIGRATE] Schema is up to date")
	return nil
}

// needsBaseline reports whether the schema exists but migrate metadata does
// not, which happens on databases created before the migration runner.
func needsBaseline(db *sql.DB) bool {
	return tableExists(db, "users") && !tableExists(db, metadataTable)
}

func tableExists(db *sql.DB, name string) bool {
	var exists bool
	err := db.QueryRow(`SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = $1)`, name).Scan(&exists)
	return err == nil && exists
}

var versionPrefix = regexp.MustCompile(`^0*([0-9]+)_`)

// latestVersion returns the highest numeric migration prefix in dir, or 0.
func latestVersion(dir string) int {
	files, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}

	var latest int
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		m := versionPrefix.FindStringSubmatch(f.Name())
		if len(m) < 2 {
			continue
		}
		if v, err := strconv.Atoi(m[1]); err == nil && v > latest {
			latest = v
		}
	}
	return latest
}
