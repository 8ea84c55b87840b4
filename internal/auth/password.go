// Package auth — password hashing.
//
// bcrypt is deliberately slow, salts every hash itself, and embeds the salt
// and cost in its output, so the stored string is self-contained: hashes
// produced under an older cost setting still verify. SHA-256 appears here
// only as a pre-digest that lifts bcrypt's 72-byte input limit; the stored
// value is always a bcrypt hash, never a fast digest on its own.
package auth

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// defaultCost is the bcrypt work factor. Cost 12 takes roughly 250ms on
// current server hardware.
const defaultCost = 12

// PasswordService provides bcrypt hashing and verification.
//
// It's a struct rather than free functions so the cost can be injected:
// tests use the minimum cost to avoid paying 250ms per hash.
type PasswordService struct {
	cost int
}

// NewPasswordService creates a PasswordService with the default cost (12).
func NewPasswordService() *PasswordService {
	return &PasswordService{cost: defaultCost}
}

// NewPasswordServiceWithCost creates a PasswordService with a custom bcrypt
// cost. Intended for tests (bcrypt.MinCost); do not lower the cost in
// production.
func NewPasswordServiceWithCost(cost int) *PasswordService {
	return &PasswordService{cost: cost}
}

// digest collapses the plaintext to a fixed 44-byte input for bcrypt.
// bcrypt reads only the first 72 bytes of its input and silently ignores the
// rest; running the plaintext through SHA-256 first makes every character of
// a long password count. The sum is base64-encoded before bcrypt sees it
// because raw digest bytes can contain NUL, which bcrypt treats as a
// terminator.
func digest(plaintext string) []byte {
	sum := sha256.Sum256([]byte(plaintext))
	encoded := make([]byte, base64.StdEncoding.EncodedLen(len(sum)))
	base64.StdEncoding.Encode(encoded, sum[:])
	return encoded
}

// Hash hashes the given plaintext password with bcrypt. The returned string
// embeds the salt and cost and is stored directly in the database. Plaintexts
// of any length are accepted; see digest.
func (p *PasswordService) Hash(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword(digest(plaintext), p.cost)
	if err != nil {
		return "", fmt.Errorf("auth: hashing password: %w", err)
	}

	return string(hashed), nil
}

// Verify reports whether the plaintext matches the stored bcrypt hash.
//
// Any failure — wrong password, empty hash, a stored value that isn't a
// bcrypt hash at all — reports false. A corrupt row must read as "wrong
// password", not take down the login path.
//
// bcrypt.CompareHashAndPassword compares in constant time relative to the
// stored parameters, so this is safe against timing probes.
func (p *PasswordService) Verify(hash, plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), digest(plaintext)) == nil
}
