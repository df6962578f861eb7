package users

import (
	"context"
	"log"

	"github.com/jmoiron/sqlx"
	"github.com/pubgarena/backend/internal/database"
)

// BlockedPasswordSentinel overwrites the credential of a blocked account.
// It is a marker, not a secret: no verifier output ever equals it under the
// bcrypt scheme, and under the plain scheme the user would have to guess it.
const BlockedPasswordSentinel = "!blocked-account!"

// Block invalidates the user's credential and records the block marker in a
// single transaction. Both facts commit together or neither does; a missing
// user leaves no trace and returns ErrNotFound.
func (s *Store) Block(ctx context.Context, pubgID string, opts database.TxOptions) error {
	err := database.WithTx(ctx, s.db, opts, func(tx *sqlx.Tx) error {
		res, err := tx.Exec(`UPDATE users SET password = $1 WHERE pubg_id = $2`, BlockedPasswordSentinel, pubgID)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}

		// Re-blocking an already blocked user keeps a single marker row.
		_, err = tx.Exec(`
			INSERT INTO blocked_users (pubg_id, created_at)
			VALUES ($1, NOW())
			ON CONFLICT (pubg_id) DO NOTHING`, pubgID)
		return err
	})
	if err != nil {
		return err
	}

	log.Printf("[USERS] Blocked %s", pubgID)
	return nil
}
