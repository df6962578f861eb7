package tournament

import (
	"context"
	"fmt"
	"testing"

	"github.com/pubgarena/backend/internal/testdb"
)

func TestArchiveAllParticipants(t *testing.T) {
	db := testdb.Open(t)
	cfg := testConfig()
	a := NewAllocator(db, nil, cfg)

	t1 := testdb.SeedTournament(t, db, "solo", 0)
	t2 := testdb.SeedTournament(t, db, "squad", 0)
	for i := 1; i <= 4; i++ {
		testdb.SeedUser(t, db, fmt.Sprintf("P%d", i), fmt.Sprintf("p%d", i), 10)
	}
	for i := 1; i <= 3; i++ {
		if _, err := a.Join(context.Background(), fmt.Sprintf("P%d", i), t1); err != nil {
			t.Fatalf("join t1 P%d: %v", i, err)
		}
	}
	if _, err := a.Join(context.Background(), "P4", t2); err != nil {
		t.Fatalf("join t2: %v", err)
	}

	moved, err := ArchiveAllParticipants(context.Background(), db, nil, cfg)
	if err != nil {
		t.Fatalf("archive: %v", err)
	}
	if moved != 4 {
		t.Errorf("moved = %d, want 4", moved)
	}

	var live, archived int
	if err := db.Get(&live, `SELECT COUNT(*) FROM participants`); err != nil {
		t.Fatalf("count live: %v", err)
	}
	if err := db.Get(&archived, `SELECT COUNT(*) FROM participants_archive`); err != nil {
		t.Fatalf("count archived: %v", err)
	}
	if live != 0 {
		t.Errorf("live participants = %d, want 0", live)
	}
	if archived != 4 {
		t.Errorf("archived participants = %d, want 4", archived)
	}

	// Seat and tournament attribution survive the move.
	var seat int
	err = db.Get(&seat, `SELECT seat FROM participants_archive WHERE tournament_id = $1 AND pubg_id = 'P2'`, t1)
	if err != nil {
		t.Fatalf("read archived seat: %v", err)
	}
	if seat != 2 {
		t.Errorf("archived seat = %d, want 2", seat)
	}

	// A second run finds nothing and duplicates nothing.
	moved, err = ArchiveAllParticipants(context.Background(), db, nil, cfg)
	if err != nil {
		t.Fatalf("second archive: %v", err)
	}
	if moved != 0 {
		t.Errorf("second run moved = %d, want 0", moved)
	}
	if err := db.Get(&archived, `SELECT COUNT(*) FROM participants_archive`); err != nil {
		t.Fatalf("recount archived: %v", err)
	}
	if archived != 4 {
		t.Errorf("archived after second run = %d, want 4", archived)
	}
}
