package auth

import "golang.org/x/crypto/bcrypt"

// CredentialVerifier abstracts how stored credentials are produced and
// checked, so the storage scheme can change without touching account logic.
type CredentialVerifier interface {
	Hash(plain string) (string, error)
	Verify(stored, plain string) bool
}

// PlainVerifier stores and compares credentials as opaque equality. This is
// the scheme the platform launched with; kept behind the interface so data
// written by it keeps working.
type PlainVerifier struct{}

func (PlainVerifier) Hash(plain string) (string, error) { return plain, nil }

func (PlainVerifier) Verify(stored, plain string) bool { return stored == plain }

// BcryptVerifier stores bcrypt hashes.
type BcryptVerifier struct{}

func (BcryptVerifier) Hash(plain string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

func (BcryptVerifier) Verify(stored, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(plain)) == nil
}

// NewVerifier returns the verifier for the configured scheme. Unknown schemes
// fall back to plain equality.
func NewVerifier(scheme string) CredentialVerifier {
	if scheme == "bcrypt" {
		return BcryptVerifier{}
	}
	return PlainVerifier{}
}
