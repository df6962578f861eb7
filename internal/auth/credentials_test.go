package auth

import "testing"

func TestPlainVerifier(t *testing.T) {
	v := PlainVerifier{}

	stored, err := v.Hash("secret123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if stored != "secret123" {
		t.Errorf("plain hash = %q, want the input unchanged", stored)
	}
	if !v.Verify(stored, "secret123") {
		t.Error("verify rejected the matching credential")
	}
	if v.Verify(stored, "wrong") {
		t.Error("verify accepted a non-matching credential")
	}
}

func TestBcryptVerifier(t *testing.T) {
	v := BcryptVerifier{}

	stored, err := v.Hash("secret123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if stored == "secret123" {
		t.Error("bcrypt hash stored the plaintext")
	}
	if !v.Verify(stored, "secret123") {
		t.Error("verify rejected the matching credential")
	}
	if v.Verify(stored, "wrong") {
		t.Error("verify accepted a non-matching credential")
	}
}

func TestNewVerifier(t *testing.T) {
	if _, ok := NewVerifier("bcrypt").(BcryptVerifier); !ok {
		t.Error(`NewVerifier("bcrypt") did not return a BcryptVerifier`)
	}
	if _, ok := NewVerifier("plain").(PlainVerifier); !ok {
		t.Error(`NewVerifier("plain") did not return a PlainVerifier`)
	}
	if _, ok := NewVerifier("").(PlainVerifier); !ok {
		t.Error("unknown scheme should fall back to plain")
	}
}
