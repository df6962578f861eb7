package tournament

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/pubgarena/backend/internal/config"
	"github.com/pubgarena/backend/internal/ledger"
	"github.com/pubgarena/backend/internal/testdb"
)

func testConfig() *config.Config {
	return &config.Config{
		MaxParticipants:   100,
		TxMaxRetries:      3,
		LockTimeoutMillis: 3000,
	}
}

func TestJoinAssignsSequentialSeats(t *testing.T) {
	db := testdb.Open(t)
	cfg := testConfig()
	a := NewAllocator(db, nil, cfg)

	id := testdb.SeedTournament(t, db, "solo", 10)
	for i := 1; i <= 3; i++ {
		testdb.SeedUser(t, db, fmt.Sprintf("P%d", i), fmt.Sprintf("player%d", i), 50)
	}

	for i := 1; i <= 3; i++ {
		res, err := a.Join(context.Background(), fmt.Sprintf("P%d", i), id)
		if err != nil {
			t.Fatalf("join P%d: %v", i, err)
		}
		if res.Seat != i {
			t.Errorf("P%d seat = %d, want %d", i, res.Seat, i)
		}
		if res.EntryFee != 10 {
			t.Errorf("P%d entry fee = %v, want 10", i, res.EntryFee)
		}
	}

	if got := testdb.Balance(t, db, "P1"); got != 40 {
		t.Errorf("P1 balance = %v, want 40", got)
	}
}

func TestJoinConcurrentSeatsAreUnique(t *testing.T) {
	db := testdb.Open(t)
	cfg := testConfig()
	a := NewAllocator(db, nil, cfg)

	const n = 20
	id := testdb.SeedTournament(t, db, "squad", 5)
	for i := 0; i < n; i++ {
		testdb.SeedUser(t, db, fmt.Sprintf("C%02d", i), fmt.Sprintf("racer%02d", i), 5)
	}

	var wg sync.WaitGroup
	errs := make([]error, n)
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			_, errs[i] = a.Join(context.Background(), fmt.Sprintf("C%02d", i), id)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("concurrent join %d: %v", i, err)
		}
	}

	var seats []int
	if err := db.Select(&seats, `SELECT seat FROM participants WHERE tournament_id = $1 ORDER BY seat`, id); err != nil {
		t.Fatalf("read seats: %v", err)
	}
	if len(seats) != n {
		t.Fatalf("participant count = %d, want %d", len(seats), n)
	}
	for i, seat := range seats {
		if seat != i+1 {
			t.Errorf("seat[%d] = %d, want %d (seats must be exactly 1..%d)", i, seat, i+1, n)
		}
	}
}

func TestJoinCapacity(t *testing.T) {
	db := testdb.Open(t)
	cfg := testConfig()
	cfg.MaxParticipants = 2
	a := NewAllocator(db, nil, cfg)

	id := testdb.SeedTournament(t, db, "duo", 1)
	for i := 1; i <= 3; i++ {
		testdb.SeedUser(t, db, fmt.Sprintf("P%d", i), fmt.Sprintf("p%d", i), 10)
	}

	for i := 1; i <= 2; i++ {
		if _, err := a.Join(context.Background(), fmt.Sprintf("P%d", i), id); err != nil {
			t.Fatalf("join P%d: %v", i, err)
		}
	}

	_, err := a.Join(context.Background(), "P3", id)
	if !errors.Is(err, ErrTournamentFull) {
		t.Fatalf("join beyond capacity: error = %v, want ErrTournamentFull", err)
	}
	if got := testdb.Balance(t, db, "P3"); got != 10 {
		t.Errorf("rejected join touched P3 balance: %v, want 10", got)
	}
}

func TestJoinRules(t *testing.T) {
	db := testdb.Open(t)
	cfg := testConfig()
	a := NewAllocator(db, nil, cfg)

	id := testdb.SeedTournament(t, db, "solo", 10)
	testdb.SeedUser(t, db, "P1", "exact", 10)
	testdb.SeedUser(t, db, "P2", "broke", 5)

	// Exact balance covers the fee.
	res, err := a.Join(context.Background(), "P1", id)
	if err != nil {
		t.Fatalf("join with exact balance: %v", err)
	}
	if res.Seat != 1 {
		t.Errorf("seat = %d, want 1", res.Seat)
	}
	if got := testdb.Balance(t, db, "P1"); got != 0 {
		t.Errorf("P1 balance = %v, want 0", got)
	}

	// Double join is rejected without a second debit.
	if _, err := a.Join(context.Background(), "P1", id); !errors.Is(err, ErrAlreadyJoined) {
		t.Errorf("double join error = %v, want ErrAlreadyJoined", err)
	}
	if got := testdb.Balance(t, db, "P1"); got != 0 {
		t.Errorf("P1 balance after rejected rejoin = %v, want 0", got)
	}

	// Insufficient funds leaves no participant row.
	if _, err := a.Join(context.Background(), "P2", id); !errors.Is(err, ledger.ErrInsufficientFunds) {
		t.Errorf("underfunded join error = %v, want ErrInsufficientFunds", err)
	}
	var count int
	if err := db.Get(&count, `SELECT COUNT(*) FROM participants WHERE tournament_id = $1`, id); err != nil {
		t.Fatalf("count participants: %v", err)
	}
	if count != 1 {
		t.Errorf("participant count = %d, want 1", count)
	}

	// Unknown user and unknown tournament.
	if _, err := a.Join(context.Background(), "ghost", id); !errors.Is(err, ledger.ErrUserNotFound) {
		t.Errorf("unknown user error = %v, want ErrUserNotFound", err)
	}
	if _, err := a.Join(context.Background(), "P2", id+999); !errors.Is(err, ErrTournamentNotFound) {
		t.Errorf("unknown tournament error = %v, want ErrTournamentNotFound", err)
	}
}
