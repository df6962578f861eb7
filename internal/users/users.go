package users

import (
	"database/sql"
	"errors"
	"log"

	"github.com/jmoiron/sqlx"
	"github.com/pubgarena/backend/internal/auth"
	"github.com/pubgarena/backend/internal/database"
	"github.com/pubgarena/backend/internal/models"
)

// Store provides account lookups and mutations against the users table.
type Store struct {
	db       *sqlx.DB
	verifier auth.CredentialVerifier
}

// NewStore constructs a user store with the given credential scheme.
func NewStore(db *sqlx.DB, verifier auth.CredentialVerifier) *Store {
	return &Store{db: db, verifier: verifier}
}

// Get returns the user with the given pubg_id.
func (s *Store) Get(pubgID string) (*models.User, error) {
	var u models.User
	err := s.db.Get(&u, `SELECT pubg_id, nickname, phone, password, balance, created_at FROM users WHERE pubg_id = $1`, pubgID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Exists reports whether a user with the given pubg_id is registered.
func (s *Store) Exists(pubgID string) (bool, error) {
	var exists bool
	err := s.db.Get(&exists, `SELECT EXISTS (SELECT 1 FROM users WHERE pubg_id = $1)`, pubgID)
	return exists, err
}

// IsBlocked reports whether the account carries a block marker.
func (s *Store) IsBlocked(pubgID string) (bool, error) {
	var blocked bool
	err := s.db.Get(&blocked, `SELECT EXISTS (SELECT 1 FROM blocked_users WHERE pubg_id = $1)`, pubgID)
	return blocked, err
}

// Register creates a new account with a zero balance. Blocked ids are
// rejected, as are ids or phones already in use.
func (s *Store) Register(pubgID, nickname, phone, password string) error {
	blocked, err := s.IsBlocked(pubgID)
	if err != nil {
		return err
	}
	if blocked {
		return ErrBlocked
	}

	var exists bool
	if err := s.db.Get(&exists, `SELECT EXISTS (SELECT 1 FROM users WHERE pubg_id = $1 OR phone = $2)`, pubgID, phone); err != nil {
		return err
	}
	if exists {
		return ErrDuplicateUser
	}

	stored, err := s.verifier.Hash(password)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(`
		INSERT INTO users (pubg_id, nickname, phone, password, balance, created_at)
		VALUES ($1, $2, $3, $4, 0, NOW())`,
		pubgID, nickname, phone, stored)
	if err != nil {
		// Concurrent registration with the same id or phone loses the race
		// at the constraint, not at the pre-check.
		if database.IsUniqueViolation(err) {
			return ErrDuplicateUser
		}
		return err
	}

	log.Printf("[USERS] Registered %s (%s)", pubgID, nickname)
	return nil
}

// Login verifies credentials through the configured verifier and returns the
// account on success.
func (s *Store) Login(pubgID, password string) (*models.User, error) {
	blocked, err := s.IsBlocked(pubgID)
	if err != nil {
		return nil, err
	}
	if blocked {
		return nil, ErrBlocked
	}

	user, err := s.Get(pubgID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.verifier.Verify(user.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
