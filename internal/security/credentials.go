package security

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// CredentialStore hashes and verifies PINs and de-identifies client IPs.
// All hashes mix in a server-wide secret that must stay stable across
// restarts.
type CredentialStore struct {
	secret string
	cost   int
}

func NewCredentialStore(secret string, cost int) *CredentialStore {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &CredentialStore{
		secret: secret,
		cost:   cost,
	}
}

// HashPIN generates a bcrypt hash from the PIN combined with the secret.
// The result is never reversible.
func (cs *CredentialStore) HashPIN(pin string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pin+cs.secret), cs.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash PIN: %w", err)
	}
	return string(hash), nil
}

// VerifyPIN checks a PIN against its stored hash. bcrypt comparison is
// constant time for equal-length digests.
func (cs *CredentialStore) VerifyPIN(pin, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin+cs.secret)) == nil
}

// HashIP produces a fast one-way digest of a client IP for storage.
// It preserves equality comparability for view dedup and nothing else;
// it is explicitly NOT an authentication primitive.
func (cs *CredentialStore) HashIP(ip string) string {
	sum := sha256.Sum256([]byte(ip + cs.secret))
	return hex.EncodeToString(sum[:])
}
