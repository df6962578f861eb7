package models

import (
	"database/sql"
	"time"
)

// User represents a registered player account
type User struct {
	PubgID    string    `db:"pubg_id" json:"pubg_id"`
	Nickname  string    `db:"nickname" json:"nickname"`
	Phone     string    `db:"phone" json:"phone"`
	Password  string    `db:"password" json:"-"`
	Balance   float64   `db:"balance" json:"balance"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Tournament represents a scheduled tournament
type Tournament struct {
	ID        int       `db:"id" json:"id"`
	Mode      string    `db:"mode" json:"mode"`
	EntryFee  float64   `db:"entry_fee" json:"entry_fee"`
	PrizePool float64   `db:"prize_pool" json:"prize_pool"`
	StartTime time.Time `db:"start_time" json:"start_time"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Participant represents a seat taken in a tournament
type Participant struct {
	ID           int            `db:"id" json:"id"`
	TournamentID int            `db:"tournament_id" json:"tournament_id"`
	PubgID       string         `db:"pubg_id" json:"pubg_id"`
	Nickname     string         `db:"nickname" json:"nickname"`
	Seat         int            `db:"seat" json:"seat"`
	RoomID       sql.NullString `db:"room_id" json:"room_id,omitempty"`
	RoomPassword sql.NullString `db:"room_password" json:"room_password,omitempty"`
	JoinedAt     time.Time      `db:"joined_at" json:"joined_at"`
}

// ArchivedParticipant represents a participant row moved to cold storage
type ArchivedParticipant struct {
	ID           int       `db:"id" json:"id"`
	TournamentID int       `db:"tournament_id" json:"tournament_id"`
	PubgID       string    `db:"pubg_id" json:"pubg_id"`
	Nickname     string    `db:"nickname" json:"nickname"`
	Seat         int       `db:"seat" json:"seat"`
	JoinedAt     time.Time `db:"joined_at" json:"joined_at"`
	ArchivedAt   time.Time `db:"archived_at" json:"archived_at"`
}

// BlockedUser marks a terminally blocked account
type BlockedUser struct {
	PubgID    string    `db:"pubg_id" json:"pubg_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// PaymentCredit is the durable record of an applied external payment reference
type PaymentCredit struct {
	Reference string    `db:"reference" json:"reference"`
	PubgID    string    `db:"pubg_id" json:"pubg_id"`
	Amount    float64   `db:"amount" json:"amount"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// AdminAccount is a back-office account
type AdminAccount struct {
	Username    string    `db:"username" json:"username"`
	DisplayName string    `db:"display_name" json:"display_name"`
	TokenHash   string    `db:"token_hash" json:"-"`
	Roles       []string  `db:"roles" json:"roles"`
	AllowedIPs  []string  `db:"allowed_ips" json:"allowed_ips"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// AdminAudit is a single admin audit log entry
type AdminAudit struct {
	ID            int       `db:"id" json:"id"`
	AdminUsername string    `db:"admin_username" json:"admin_username"`
	IP            string    `db:"ip" json:"ip"`
	Route         string    `db:"route" json:"route"`
	Action        string    `db:"action" json:"action"`
	Details       []byte    `db:"details" json:"details"`
	Success       bool      `db:"success" json:"success"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}
