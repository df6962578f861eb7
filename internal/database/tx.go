package database

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// ErrTransient marks store contention (serialization failure, deadlock, lock
// timeout) that exhausted its retries. Nothing was committed; the caller may
// safely retry the whole operation.
var ErrTransient = errors.New("transient database error")

// TxOptions controls WithTx retry behaviour.
type TxOptions struct {
	MaxRetries        int
	LockTimeoutMillis int
}

// WithTx runs fn inside a transaction with a bounded lock timeout. Transient
// Postgres failures are retried up to MaxRetries before surfacing ErrTransient.
// Any error from fn rolls the transaction back.
func WithTx(ctx context.Context, db *sqlx.DB, opts TxOptions, fn func(tx *sqlx.Tx) error) error {
	retries := opts.MaxRetries
	if retries < 1 {
		retries = 1
	}

	var lastErr error
	for attempt := 1; attempt <= retries; attempt++ {
		err := runOnce(ctx, db, opts, fn)
		if err == nil {
			return nil
		}
		if !IsTransient(err) {
			return err
		}

		lastErr = err
		log.Printf("[DB] transient failure (attempt %d/%d): %v", attempt, retries, err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt*50) * time.Millisecond):
		}
	}

	return fmt.Errorf("%w: %v", ErrTransient, lastErr)
}

func runOnce(ctx context.Context, db *sqlx.DB, opts TxOptions, fn func(tx *sqlx.Tx) error) (err error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
		if err != nil {
			tx.Rollback()
		}
	}()

	if opts.LockTimeoutMillis > 0 {
		if _, err = tx.ExecContext(ctx, fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", opts.LockTimeoutMillis)); err != nil {
			return err
		}
	}

	if err = fn(tx); err != nil {
		return err
	}

	return tx.Commit()
}

// IsTransient reports whether err is a retryable Postgres failure:
// serialization_failure (40001), deadlock_detected (40P01) or
// lock_not_available (55P03).
func IsTransient(err error) bool {
	if errors.Is(err, ErrTransient) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case "40001", "40P01", "55P03":
			return true
		}
	}
	return false
}

// IsUniqueViolation reports whether err is a Postgres unique_violation (23505).
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == "23505"
	}
	return false
}
