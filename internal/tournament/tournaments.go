package tournament

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pubgarena/backend/internal/models"
	"github.com/redis/go-redis/v9"
)

const listCacheKey = "tournaments:list"

// ListEntry is a tournament plus its live participant count.
type ListEntry struct {
	models.Tournament
	ParticipantsCount int `db:"participants_count" json:"participants_count"`
}

// Create inserts a new tournament and returns its generated id.
func Create(db *sqlx.DB, mode string, entryFee, prizePool float64, startTime time.Time) (int, error) {
	var id int
	err := db.Get(&id, `
		INSERT INTO tournaments (mode, entry_fee, prize_pool, start_time, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id`,
		mode, entryFee, prizePool, startTime)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// List returns all tournaments with participant counts, ordered by start time.
// Results are cached in redis for a short TTL; writers invalidate the key.
func List(ctx context.Context, db *sqlx.DB, rdb *redis.Client, cacheTTL time.Duration) ([]ListEntry, error) {
	if rdb != nil {
		if cached, err := rdb.Get(ctx, listCacheKey).Result(); err == nil {
			var entries []ListEntry
			if err := json.Unmarshal([]byte(cached), &entries); err == nil {
				return entries, nil
			}
		}
	}

	var entries []ListEntry
	err := db.Select(&entries, `
		SELECT t.id, t.mode, t.entry_fee, t.prize_pool, t.start_time, t.created_at,
			(SELECT COUNT(*) FROM participants p WHERE p.tournament_id = t.id) AS participants_count
		FROM tournaments t
		ORDER BY t.start_time ASC`)
	if err != nil {
		return nil, err
	}

	if rdb != nil && cacheTTL > 0 {
		if data, err := json.Marshal(entries); err == nil {
			rdb.Set(ctx, listCacheKey, data, cacheTTL)
		}
	}

	return entries, nil
}

// InvalidateListCache drops the cached tournament list after a write.
func InvalidateListCache(ctx context.Context, rdb *redis.Client) {
	if rdb == nil {
		return
	}
	if err := rdb.Del(ctx, listCacheKey).Err(); err != nil {
		log.Printf("[TOURNAMENT] Failed to invalidate list cache: %v", err)
	}
}

// Delete removes a tournament; participant rows cascade at the schema level.
func Delete(db *sqlx.DB, id int) error {
	res, err := db.Exec(`DELETE FROM tournaments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrTournamentNotFound
	}
	return nil
}

// SendLobby distributes room credentials to every participant of a tournament.
func SendLobby(db *sqlx.DB, tournamentID int, roomID, roomPassword string) (int, error) {
	res, err := db.Exec(`
		UPDATE participants SET room_id = $1, room_password = $2 WHERE tournament_id = $3`,
		roomID, roomPassword, tournamentID)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// CurrentEntry is the most recent tournament a user has joined.
type CurrentEntry struct {
	models.Tournament
	Seat         int            `db:"seat" json:"seat"`
	RoomID       sql.NullString `db:"room_id" json:"room_id"`
	RoomPassword sql.NullString `db:"room_password" json:"room_password"`
}

// CurrentForUser returns the latest tournament the user participates in, or
// nil when the user has no live participation.
func CurrentForUser(db *sqlx.DB, pubgID string) (*CurrentEntry, error) {
	var entry CurrentEntry
	err := db.Get(&entry, `
		SELECT t.id, t.mode, t.entry_fee, t.prize_pool, t.start_time, t.created_at,
			p.seat, p.room_id, p.room_password
		FROM participants p
		JOIN tournaments t ON t.id = p.tournament_id
		WHERE p.pubg_id = $1
		ORDER BY t.start_time DESC
		LIMIT 1`, pubgID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// FindSeat returns the seat assigned to a user in the live participant table.
func FindSeat(db *sqlx.DB, pubgID string) (int, error) {
	var seat int
	err := db.Get(&seat, `SELECT seat FROM participants WHERE pubg_id = $1 LIMIT 1`, pubgID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrParticipantNotFound
	}
	if err != nil {
		return 0, err
	}
	return seat, nil
}

// ListParticipants returns all live participants across tournaments.
func ListParticipants(db *sqlx.DB) ([]models.Participant, error) {
	var participants []models.Participant
	err := db.Select(&participants, `
		SELECT id, tournament_id, pubg_id, nickname, seat, room_id, room_password, joined_at
		FROM participants
		ORDER BY tournament_id, seat`)
	if err != nil {
		return nil, err
	}
	return participants, nil
}
