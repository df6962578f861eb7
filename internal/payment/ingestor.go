package payment

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"

	"github.com/jmoiron/sqlx"
	"github.com/pubgarena/backend/internal/config"
	"github.com/pubgarena/backend/internal/database"
	"github.com/pubgarena/backend/internal/ledger"
)

// StatusFinished is the only gateway status that triggers crediting.
const StatusFinished = "finished"

// Amount accepts both JSON numbers and numeric strings; the gateway has been
// observed sending either.
type Amount float64

func (a *Amount) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid amount %q", s)
	}
	*a = Amount(v)
	return nil
}

// CallbackPayload is the IPN notification body from the payment gateway.
type CallbackPayload struct {
	PaymentStatus string `json:"payment_status"`
	OrderID       string `json:"order_id"`
	PriceAmount   Amount `json:"price_amount"`
}

// CreditInstruction is a validated, ready-to-apply credit extracted from a
// finished callback.
type CreditInstruction struct {
	PubgID    string
	Amount    float64
	Reference string
}

// ParseCallback validates a callback and decides what it means. It returns
// (nil, nil) for non-finished statuses: acknowledged, no balance effect.
func ParseCallback(p *CallbackPayload) (*CreditInstruction, error) {
	if p.PaymentStatus != StatusFinished {
		return nil, nil
	}

	pubgID, err := ParseOrderID(p.OrderID)
	if err != nil {
		return nil, err
	}
	if p.PriceAmount < 0 {
		return nil, fmt.Errorf("%w: negative price_amount", ErrBadPayload)
	}

	return &CreditInstruction{
		PubgID: pubgID,
		Amount: float64(p.PriceAmount),
		// The full order id is the idempotency key: the gateway resends the
		// identical body on retry.
		Reference: p.OrderID,
	}, nil
}

// Ingestor applies gateway payment notifications to the ledger.
type Ingestor struct {
	db  *sqlx.DB
	cfg *config.Config
}

// NewIngestor constructs a payment ingestor bound to the given store.
func NewIngestor(db *sqlx.DB, cfg *config.Config) *Ingestor {
	return &Ingestor{db: db, cfg: cfg}
}

// Outcome describes what a callback did.
type Outcome struct {
	Credited  bool
	Duplicate bool
}

// HandleCallback processes one gateway notification. A finished payment
// credits the target account exactly once per order reference; replays are
// detected inside the credit transaction and acknowledged without effect.
// Unknown users surface ErrUserUnknown without consuming the reference.
func (i *Ingestor) HandleCallback(ctx context.Context, p *CallbackPayload) (*Outcome, error) {
	i.audit(p)

	instr, err := ParseCallback(p)
	if err != nil {
		return nil, err
	}
	if instr == nil {
		log.Printf("[WEBHOOK] Status %q for order %q: no balance effect", p.PaymentStatus, p.OrderID)
		return &Outcome{}, nil
	}

	opts := database.TxOptions{
		MaxRetries:        i.cfg.TxMaxRetries,
		LockTimeoutMillis: i.cfg.LockTimeoutMillis,
	}

	var outcome Outcome
	err = database.WithTx(ctx, i.db, opts, func(tx *sqlx.Tx) error {
		var nickname string
		err := tx.Get(&nickname, `SELECT nickname FROM users WHERE pubg_id = $1 FOR UPDATE`, instr.PubgID)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrUserUnknown
		}
		if err != nil {
			return err
		}

		applied, err := ledger.CreditWithReference(tx, instr.PubgID, instr.Amount, instr.Reference)
		if err != nil {
			return err
		}
		outcome = Outcome{Credited: applied, Duplicate: !applied}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if outcome.Credited {
		log.Printf("[WEBHOOK] Credited %.2f to %s (reference=%s)", instr.Amount, instr.PubgID, instr.Reference)
		i.markProcessed(instr.Reference)
	} else {
		log.Printf("[WEBHOOK] Duplicate delivery for reference %s ignored", instr.Reference)
	}
	return &outcome, nil
}

// audit records every delivery for the audit trail, best effort.
func (i *Ingestor) audit(p *CallbackPayload) {
	payload, err := json.Marshal(p)
	if err != nil {
		return
	}
	_, err = i.db.Exec(`
		INSERT INTO payment_webhooks (reference, status, payload, processed, created_at)
		VALUES ($1, $2, $3, FALSE, NOW())`,
		p.OrderID, p.PaymentStatus, payload)
	if err != nil {
		log.Printf("[WEBHOOK] Failed to record webhook audit row: %v", err)
	}
}

func (i *Ingestor) markProcessed(reference string) {
	if _, err := i.db.Exec(`UPDATE payment_webhooks SET processed = TRUE WHERE reference = $1`, reference); err != nil {
		log.Printf("[WEBHOOK] Failed to mark webhook processed: %v", err)
	}
}
