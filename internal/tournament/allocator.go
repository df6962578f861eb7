package tournament

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log"

	"github.com/jmoiron/sqlx"
	"github.com/pubgarena/backend/internal/config"
	"github.com/pubgarena/backend/internal/database"
	"github.com/pubgarena/backend/internal/ledger"
	"github.com/redis/go-redis/v9"
)

// EventChannel is the redis pub/sub channel carrying participant events for
// the live feed.
const EventChannel = "tournament_events"

// Allocator assigns seats in capacity-bounded tournaments. Each Join runs as
// one transaction: the user and tournament rows are locked (in that order, the
// same order in every code path that takes both), so two concurrent joins to
// the same tournament serialize and can never compute the same seat number.
type Allocator struct {
	db  *sqlx.DB
	rdb *redis.Client
	cfg *config.Config
}

// NewAllocator constructs a seat allocator bound to the given stores.
func NewAllocator(db *sqlx.DB, rdb *redis.Client, cfg *config.Config) *Allocator {
	return &Allocator{db: db, rdb: rdb, cfg: cfg}
}

// JoinResult describes a successful seat assignment.
type JoinResult struct {
	TournamentID int     `json:"tournament_id"`
	PubgID       string  `json:"pubg_id"`
	Nickname     string  `json:"nickname"`
	Seat         int     `json:"seat"`
	EntryFee     float64 `json:"entry_fee"`
}

// Join validates eligibility, assigns the next free seat and debits the entry
// fee, all in one transaction. Exactly one participant row and one balance
// decrement are committed, or neither.
func (a *Allocator) Join(ctx context.Context, pubgID string, tournamentID int) (*JoinResult, error) {
	var result JoinResult

	err := database.WithTx(ctx, a.db, a.txOptions(), func(tx *sqlx.Tx) error {
		var user struct {
			Nickname string  `db:"nickname"`
			Balance  float64 `db:"balance"`
		}
		err := tx.Get(&user, `SELECT nickname, balance FROM users WHERE pubg_id = $1 FOR UPDATE`, pubgID)
		if errors.Is(err, sql.ErrNoRows) {
			return ledger.ErrUserNotFound
		}
		if err != nil {
			return err
		}

		var entryFee float64
		err = tx.Get(&entryFee, `SELECT entry_fee FROM tournaments WHERE id = $1 FOR UPDATE`, tournamentID)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrTournamentNotFound
		}
		if err != nil {
			return err
		}

		var count int
		if err := tx.Get(&count, `SELECT COUNT(*) FROM participants WHERE tournament_id = $1`, tournamentID); err != nil {
			return err
		}
		if count >= a.cfg.MaxParticipants {
			return ErrTournamentFull
		}

		var joined bool
		if err := tx.Get(&joined, `SELECT EXISTS (SELECT 1 FROM participants WHERE tournament_id = $1 AND pubg_id = $2)`, tournamentID, pubgID); err != nil {
			return err
		}
		if joined {
			return ErrAlreadyJoined
		}

		if user.Balance < entryFee {
			return ledger.ErrInsufficientFunds
		}

		var seat int
		if err := tx.Get(&seat, `SELECT COALESCE(MAX(seat), 0) + 1 FROM participants WHERE tournament_id = $1`, tournamentID); err != nil {
			return err
		}

		_, err = tx.Exec(`
			INSERT INTO participants (tournament_id, pubg_id, nickname, seat, joined_at)
			VALUES ($1, $2, $3, $4, NOW())`,
			tournamentID, pubgID, user.Nickname, seat)
		if err != nil {
			if database.IsUniqueViolation(err) {
				return ErrAlreadyJoined
			}
			return err
		}

		// Affected-row count of the conditional debit is the final authority
		// on funds; the earlier balance read only orders the failure modes.
		if err := ledger.Debit(tx, pubgID, entryFee); err != nil {
			return err
		}

		result = JoinResult{
			TournamentID: tournamentID,
			PubgID:       pubgID,
			Nickname:     user.Nickname,
			Seat:         seat,
			EntryFee:     entryFee,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[JOIN] %s joined tournament %d (seat=%d fee=%.2f)", pubgID, tournamentID, result.Seat, result.EntryFee)
	a.publishJoin(ctx, &result)
	InvalidateListCache(ctx, a.rdb)

	return &result, nil
}

func (a *Allocator) txOptions() database.TxOptions {
	return database.TxOptions{
		MaxRetries:        a.cfg.TxMaxRetries,
		LockTimeoutMillis: a.cfg.LockTimeoutMillis,
	}
}

// publishJoin emits a participant_joined event for live feed subscribers.
// Best effort: feed delivery never affects the committed join.
func (a *Allocator) publishJoin(ctx context.Context, res *JoinResult) {
	if a.rdb == nil {
		return
	}
	payload, err := json.Marshal(map[string]interface{}{
		"type":          "participant_joined",
		"tournament_id": res.TournamentID,
		"pubg_id":       res.PubgID,
		"nickname":      res.Nickname,
		"seat":          res.Seat,
	})
	if err != nil {
		return
	}
	if err := a.rdb.Publish(ctx, EventChannel, payload).Err(); err != nil {
		log.Printf("[JOIN] Failed to publish join event: %v", err)
	}
}
