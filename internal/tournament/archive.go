package tournament

import (
	"context"
	"log"

	"github.com/jmoiron/sqlx"
	"github.com/pubgarena/backend/internal/config"
	"github.com/pubgarena/backend/internal/database"
	"github.com/redis/go-redis/v9"
)

// ArchiveAllParticipants moves every live participant row into cold storage
// and empties the live table, as one transaction. The copy and the delete
// commit together or not at all, so a failed attempt leaves the live table
// untouched and repeated attempts never duplicate archive rows.
// The operation is unconditional: it does not filter by tournament.
func ArchiveAllParticipants(ctx context.Context, db *sqlx.DB, rdb *redis.Client, cfg *config.Config) (int, error) {
	opts := database.TxOptions{
		MaxRetries:        cfg.TxMaxRetries,
		LockTimeoutMillis: cfg.LockTimeoutMillis,
	}

	var moved int64
	err := database.WithTx(ctx, db, opts, func(tx *sqlx.Tx) error {
		res, err := tx.Exec(`
			INSERT INTO participants_archive (tournament_id, pubg_id, nickname, seat, joined_at)
			SELECT tournament_id, pubg_id, nickname, seat, joined_at FROM participants`)
		if err != nil {
			return err
		}
		moved, err = res.RowsAffected()
		if err != nil {
			return err
		}

		if _, err := tx.Exec(`DELETE FROM participants`); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	log.Printf("[ARCHIVE] Moved %d participant rows to archive", moved)
	InvalidateListCache(ctx, rdb)
	return int(moved), nil
}
