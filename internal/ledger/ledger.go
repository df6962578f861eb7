package ledger

import (
	"database/sql"
	"errors"
	"log"

	"github.com/jmoiron/sqlx"
)

// Debit subtracts amount from the user's balance in a single conditional
// update. The affected-row count is the authority on success: if the balance
// is short at commit time no row matches and ErrInsufficientFunds is returned.
func Debit(ext sqlx.Ext, pubgID string, amount float64) error {
	if amount < 0 {
		return ErrInvalidAmount
	}

	res, err := ext.Exec(`UPDATE users SET balance = balance - $1 WHERE pubg_id = $2 AND balance >= $1`, amount, pubgID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Distinguish a missing user from a short balance
		var exists bool
		if err := sqlx.Get(ext, &exists, `SELECT EXISTS (SELECT 1 FROM users WHERE pubg_id = $1)`, pubgID); err != nil {
			return err
		}
		if !exists {
			return ErrUserNotFound
		}
		return ErrInsufficientFunds
	}

	log.Printf("[LEDGER] Debited %.2f from %s", amount, pubgID)
	return nil
}

// Credit adds amount to the user's balance and returns the new balance.
// Used for trusted admin top-ups; it carries no idempotency reference.
func Credit(ext sqlx.Ext, pubgID string, amount float64) (float64, error) {
	if amount < 0 {
		return 0, ErrInvalidAmount
	}

	var balance float64
	err := sqlx.Get(ext, &balance, `UPDATE users SET balance = balance + $1 WHERE pubg_id = $2 RETURNING balance`, amount, pubgID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrUserNotFound
		}
		return 0, err
	}

	log.Printf("[LEDGER] Credited %.2f to %s (balance=%.2f)", amount, pubgID, balance)
	return balance, nil
}

// CreditWithReference applies an externally referenced credit at most once.
// The reference row is inserted first with ON CONFLICT DO NOTHING; only a
// fresh insert gates the balance update, so a replayed reference is a no-op.
// Both writes share the caller's transaction and commit or roll back together.
// Returns false when the reference was already applied.
func CreditWithReference(tx *sqlx.Tx, pubgID string, amount float64, reference string) (bool, error) {
	if amount < 0 {
		return false, ErrInvalidAmount
	}

	res, err := tx.Exec(`
		INSERT INTO payment_credits (reference, pubg_id, amount, created_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (reference) DO NOTHING`,
		reference, pubgID, amount)
	if err != nil {
		return false, err
	}
	inserted, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if inserted == 0 {
		log.Printf("[LEDGER] Reference %s already applied, skipping credit", reference)
		return false, nil
	}

	if _, err := Credit(tx, pubgID, amount); err != nil {
		return false, err
	}

	return true, nil
}
