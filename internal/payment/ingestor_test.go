package payment

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestAmountUnmarshal(t *testing.T) {
	var p CallbackPayload

	if err := json.Unmarshal([]byte(`{"payment_status":"finished","order_id":"pubg_id:P1-167000","price_amount":"5.00"}`), &p); err != nil {
		t.Fatalf("unmarshal string amount: %v", err)
	}
	if float64(p.PriceAmount) != 5.0 {
		t.Errorf("string amount = %v, want 5.0", float64(p.PriceAmount))
	}

	if err := json.Unmarshal([]byte(`{"price_amount":12.5}`), &p); err != nil {
		t.Fatalf("unmarshal numeric amount: %v", err)
	}
	if float64(p.PriceAmount) != 12.5 {
		t.Errorf("numeric amount = %v, want 12.5", float64(p.PriceAmount))
	}

	if err := json.Unmarshal([]byte(`{"price_amount":"not-a-number"}`), &p); err == nil {
		t.Error("expected error for non-numeric amount")
	}
}

func TestParseCallback(t *testing.T) {
	t.Run("finished credits", func(t *testing.T) {
		instr, err := ParseCallback(&CallbackPayload{
			PaymentStatus: "finished",
			OrderID:       "pubg_id:P1-167000",
			PriceAmount:   5,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if instr == nil {
			t.Fatal("expected a credit instruction")
		}
		if instr.PubgID != "P1" || instr.Amount != 5 || instr.Reference != "pubg_id:P1-167000" {
			t.Errorf("unexpected instruction: %+v", instr)
		}
	})

	t.Run("non-finished statuses are no-ops", func(t *testing.T) {
		for _, status := range []string{"waiting", "confirming", "pending", "failed", "expired", "partially_paid"} {
			instr, err := ParseCallback(&CallbackPayload{PaymentStatus: status, OrderID: "garbage"})
			if err != nil {
				t.Errorf("status %q: unexpected error: %v", status, err)
			}
			if instr != nil {
				t.Errorf("status %q: expected no instruction", status)
			}
		}
	})

	t.Run("malformed order id", func(t *testing.T) {
		_, err := ParseCallback(&CallbackPayload{PaymentStatus: "finished", OrderID: "user-12345-1", PriceAmount: 5})
		if !errors.Is(err, ErrBadPayload) {
			t.Errorf("error = %v, want ErrBadPayload", err)
		}
	})

	t.Run("negative amount", func(t *testing.T) {
		_, err := ParseCallback(&CallbackPayload{PaymentStatus: "finished", OrderID: "pubg_id:P1-167000", PriceAmount: -1})
		if !errors.Is(err, ErrBadPayload) {
			t.Errorf("error = %v, want ErrBadPayload", err)
		}
	})
}
