package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
)

func TestIsTransient(t *testing.T) {
	for _, code := range []string{"40001", "40P01", "55P03"} {
		if !IsTransient(&pq.Error{Code: pq.ErrorCode(code)}) {
			t.Errorf("code %s should be transient", code)
		}
	}

	if IsTransient(&pq.Error{Code: "23505"}) {
		t.Error("unique violation must not be transient")
	}
	if IsTransient(errors.New("plain error")) {
		t.Error("plain error must not be transient")
	}
	if IsTransient(nil) {
		t.Error("nil must not be transient")
	}

	wrapped := fmt.Errorf("join failed: %w", &pq.Error{Code: "40P01"})
	if !IsTransient(wrapped) {
		t.Error("wrapped deadlock should be transient")
	}
	if !IsTransient(fmt.Errorf("%w: retries exhausted", ErrTransient)) {
		t.Error("wrapped ErrTransient should be transient")
	}
}

func TestIsUniqueViolation(t *testing.T) {
	if !IsUniqueViolation(&pq.Error{Code: "23505"}) {
		t.Error("23505 should be a unique violation")
	}
	if !IsUniqueViolation(fmt.Errorf("insert: %w", &pq.Error{Code: "23505"})) {
		t.Error("wrapped 23505 should be a unique violation")
	}
	if IsUniqueViolation(&pq.Error{Code: "40001"}) {
		t.Error("serialization failure is not a unique violation")
	}
	if IsUniqueViolation(nil) {
		t.Error("nil is not a unique violation")
	}
}
