package payment

import (
	"context"
	"errors"
	"testing"

	"github.com/pubgarena/backend/internal/config"
	"github.com/pubgarena/backend/internal/testdb"
)

func TestHandleCallbackIdempotent(t *testing.T) {
	db := testdb.Open(t)
	ing := NewIngestor(db, &config.Config{TxMaxRetries: 3, LockTimeoutMillis: 3000})
	testdb.SeedUser(t, db, "P1", "payer", 0)

	payload := &CallbackPayload{
		PaymentStatus: StatusFinished,
		OrderID:       "pubg_id:P1-167000",
		PriceAmount:   5,
	}

	outcome, err := ing.HandleCallback(context.Background(), payload)
	if err != nil {
		t.Fatalf("first delivery: %v", err)
	}
	if !outcome.Credited || outcome.Duplicate {
		t.Errorf("first delivery outcome = %+v, want credited", outcome)
	}

	// The gateway retries with the identical body; the balance must not move.
	outcome, err = ing.HandleCallback(context.Background(), payload)
	if err != nil {
		t.Fatalf("replayed delivery: %v", err)
	}
	if outcome.Credited || !outcome.Duplicate {
		t.Errorf("replayed delivery outcome = %+v, want duplicate", outcome)
	}

	if got := testdb.Balance(t, db, "P1"); got != 5 {
		t.Errorf("balance = %v, want 5 (credited exactly once)", got)
	}
}

func TestHandleCallbackNonFinishedIsNoOp(t *testing.T) {
	db := testdb.Open(t)
	ing := NewIngestor(db, &config.Config{TxMaxRetries: 3, LockTimeoutMillis: 3000})
	testdb.SeedUser(t, db, "P1", "payer", 0)

	outcome, err := ing.HandleCallback(context.Background(), &CallbackPayload{
		PaymentStatus: "waiting",
		OrderID:       "pubg_id:P1-167000",
		PriceAmount:   5,
	})
	if err != nil {
		t.Fatalf("waiting delivery: %v", err)
	}
	if outcome.Credited || outcome.Duplicate {
		t.Errorf("waiting outcome = %+v, want no effect", outcome)
	}
	if got := testdb.Balance(t, db, "P1"); got != 0 {
		t.Errorf("balance = %v, want 0", got)
	}

	// The finished notification for the same order still credits: a
	// non-finished status must not consume the reference.
	outcome, err = ing.HandleCallback(context.Background(), &CallbackPayload{
		PaymentStatus: StatusFinished,
		OrderID:       "pubg_id:P1-167000",
		PriceAmount:   5,
	})
	if err != nil {
		t.Fatalf("finished delivery: %v", err)
	}
	if !outcome.Credited {
		t.Errorf("finished outcome = %+v, want credited", outcome)
	}
	if got := testdb.Balance(t, db, "P1"); got != 5 {
		t.Errorf("balance = %v, want 5", got)
	}
}

func TestHandleCallbackUnknownUser(t *testing.T) {
	db := testdb.Open(t)
	ing := NewIngestor(db, &config.Config{TxMaxRetries: 3, LockTimeoutMillis: 3000})

	payload := &CallbackPayload{
		PaymentStatus: StatusFinished,
		OrderID:       "pubg_id:late-167000",
		PriceAmount:   5,
	}

	if _, err := ing.HandleCallback(context.Background(), payload); !errors.Is(err, ErrUserUnknown) {
		t.Fatalf("unknown user error = %v, want ErrUserUnknown", err)
	}

	// The failed attempt must not burn the reference: once the account
	// exists, the retried delivery credits.
	testdb.SeedUser(t, db, "late", "latecomer", 0)
	outcome, err := ing.HandleCallback(context.Background(), payload)
	if err != nil {
		t.Fatalf("retried delivery: %v", err)
	}
	if !outcome.Credited {
		t.Errorf("retried outcome = %+v, want credited", outcome)
	}
	if got := testdb.Balance(t, db, "late"); got != 5 {
		t.Errorf("balance = %v, want 5", got)
	}
}
