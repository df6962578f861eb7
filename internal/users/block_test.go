package users

import (
	"context"
	"errors"
	"testing"

	"github.com/pubgarena/backend/internal/auth"
	"github.com/pubgarena/backend/internal/database"
	"github.com/pubgarena/backend/internal/testdb"
)

var testTxOpts = database.TxOptions{MaxRetries: 3, LockTimeoutMillis: 3000}

func TestBlock(t *testing.T) {
	db := testdb.Open(t)
	store := NewStore(db, auth.PlainVerifier{})
	testdb.SeedUser(t, db, "P1", "target", 10)

	if err := store.Block(context.Background(), "P1", testTxOpts); err != nil {
		t.Fatalf("block: %v", err)
	}

	// Both halves of the block must be visible: the invalidated credential
	// and the marker row.
	var password string
	if err := db.Get(&password, `SELECT password FROM users WHERE pubg_id = 'P1'`); err != nil {
		t.Fatalf("read password: %v", err)
	}
	if password != BlockedPasswordSentinel {
		t.Errorf("password = %q, want the block sentinel", password)
	}
	blocked, err := store.IsBlocked("P1")
	if err != nil {
		t.Fatalf("is blocked: %v", err)
	}
	if !blocked {
		t.Error("block marker row missing")
	}

	if _, err := store.Login("P1", "secret"); !errors.Is(err, ErrBlocked) {
		t.Errorf("login after block: error = %v, want ErrBlocked", err)
	}

	// Re-blocking is a no-op, not an error.
	if err := store.Block(context.Background(), "P1", testTxOpts); err != nil {
		t.Fatalf("re-block: %v", err)
	}
	var markers int
	if err := db.Get(&markers, `SELECT COUNT(*) FROM blocked_users WHERE pubg_id = 'P1'`); err != nil {
		t.Fatalf("count markers: %v", err)
	}
	if markers != 1 {
		t.Errorf("marker rows = %d, want 1", markers)
	}
}

func TestBlockUnknownUserLeavesNoTrace(t *testing.T) {
	db := testdb.Open(t)
	store := NewStore(db, auth.PlainVerifier{})

	if err := store.Block(context.Background(), "ghost", testTxOpts); !errors.Is(err, ErrNotFound) {
		t.Fatalf("block unknown user: error = %v, want ErrNotFound", err)
	}

	var markers int
	if err := db.Get(&markers, `SELECT COUNT(*) FROM blocked_users`); err != nil {
		t.Fatalf("count markers: %v", err)
	}
	if markers != 0 {
		t.Errorf("failed block left %d marker rows, want 0", markers)
	}
}

func TestRegisterAndLogin(t *testing.T) {
	db := testdb.Open(t)
	store := NewStore(db, auth.PlainVerifier{})

	if err := store.Register("P1", "nick", "0700000001", "pw1"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := store.Register("P1", "other", "0700000002", "pw2"); !errors.Is(err, ErrDuplicateUser) {
		t.Errorf("duplicate id error = %v, want ErrDuplicateUser", err)
	}
	if err := store.Register("P2", "other", "0700000001", "pw2"); !errors.Is(err, ErrDuplicateUser) {
		t.Errorf("duplicate phone error = %v, want ErrDuplicateUser", err)
	}

	user, err := store.Login("P1", "pw1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if user.Nickname != "nick" {
		t.Errorf("nickname = %q, want %q", user.Nickname, "nick")
	}
	if user.Balance != 0 {
		t.Errorf("new account balance = %v, want 0", user.Balance)
	}

	if _, err := store.Login("P1", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("bad password error = %v, want ErrInvalidCredentials", err)
	}
	if _, err := store.Login("ghost", "pw"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown user error = %v, want ErrInvalidCredentials", err)
	}

	// A blocked id cannot re-register.
	if err := store.Block(context.Background(), "P1", testTxOpts); err != nil {
		t.Fatalf("block: %v", err)
	}
	if err := store.Register("P1", "nick", "0700000003", "pw"); !errors.Is(err, ErrBlocked) {
		t.Errorf("register blocked id error = %v, want ErrBlocked", err)
	}
}
