// Package testdb provides the shared Postgres harness for database-backed
// tests. Tests skip unless TEST_DATABASE_URL points at a disposable database.
package testdb

import (
	"os"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

const schemaPath = "../../migrations/000001_init.up.sql"

// Open connects to the test database, applies the schema and truncates all
// tables. The connection is closed when the test finishes.
func Open(t *testing.T) *sqlx.DB {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping database test")
	}

	db, err := sqlx.Connect("postgres", url)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	schema, err := os.ReadFile(schemaPath)
	if err != nil {
		t.Fatalf("failed to read schema: %v", err)
	}
	if _, err := db.Exec(string(schema)); err != nil {
		t.Fatalf("failed to apply schema: %v", err)
	}

	_, err = db.Exec(`TRUNCATE participants, participants_archive, payment_credits,
		payment_webhooks, blocked_users, users, tournaments, admin_audit, admin_accounts
		RESTART IDENTITY CASCADE`)
	if err != nil {
		t.Fatalf("failed to truncate tables: %v", err)
	}

	return db
}

// SeedUser inserts a user with the given balance.
func SeedUser(t *testing.T, db *sqlx.DB, pubgID, nickname string, balance float64) {
	t.Helper()
	_, err := db.Exec(`
		INSERT INTO users (pubg_id, nickname, phone, password, balance, created_at)
		VALUES ($1, $2, $3, 'secret', $4, NOW())`,
		pubgID, nickname, "phone-"+pubgID, balance)
	if err != nil {
		t.Fatalf("failed to seed user %s: %v", pubgID, err)
	}
}

// SeedTournament inserts a tournament and returns its id.
func SeedTournament(t *testing.T, db *sqlx.DB, mode string, entryFee float64) int {
	t.Helper()
	var id int
	err := db.Get(&id, `
		INSERT INTO tournaments (mode, entry_fee, prize_pool, start_time, created_at)
		VALUES ($1, $2, 0, NOW() + interval '1 day', NOW())
		RETURNING id`, mode, entryFee)
	if err != nil {
		t.Fatalf("failed to seed tournament: %v", err)
	}
	return id
}

// Balance returns the current balance of a user.
func Balance(t *testing.T, db *sqlx.DB, pubgID string) float64 {
	t.Helper()
	var balance float64
	if err := db.Get(&balance, `SELECT balance FROM users WHERE pubg_id = $1`, pubgID); err != nil {
		t.Fatalf("failed to read balance for %s: %v", pubgID, err)
	}
	return balance
}
