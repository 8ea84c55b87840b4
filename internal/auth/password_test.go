package auth

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

// newTestPasswordService uses the minimum bcrypt cost so tests don't pay
// ~250ms per hash.
func newTestPasswordService(t *testing.T) *PasswordService {
	t.Helper()
	return NewPasswordServiceWithCost(bcrypt.MinCost)
}

func TestHashAndVerify_RoundTrip(t *testing.T) {
	ps := newTestPasswordService(t)

	hash, err := ps.Hash("securepass123")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	if hash == "securepass123" {
		t.Fatal("Hash() returned the plaintext")
	}
	if !ps.Verify(hash, "securepass123") {
		t.Error("Verify() rejected the correct password")
	}
}

func TestVerify_WrongPassword(t *testing.T) {
	ps := newTestPasswordService(t)

	hash, err := ps.Hash("securepass123")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	if ps.Verify(hash, "wrongpassword") {
		t.Error("Verify() accepted the wrong password")
	}
}

func TestVerify_MalformedHash(t *testing.T) {
	ps := newTestPasswordService(t)

	// A corrupt or empty stored hash must read as a mismatch, not panic or
	// surface a distinct failure mode to the caller.
	for _, hash := range []string{"", "not-a-bcrypt-hash", "$2a$garbage"} {
		if ps.Verify(hash, "securepass123") {
			t.Errorf("Verify() accepted malformed hash %q", hash)
		}
	}
}

func TestHash_SaltedPerCall(t *testing.T) {
	ps := newTestPasswordService(t)

	h1, _ := ps.Hash("securepass123")
	h2, _ := ps.Hash("securepass123")
	if h1 == h2 {
		t.Error("Hash() produced identical hashes for the same password — salt missing")
	}
}

func TestHashAndVerify_LongPasswords(t *testing.T) {
	ps := newTestPasswordService(t)

	// bcrypt on its own reads only the first 72 bytes of its input. Lengths
	// straddling that limit must all hash and verify.
	for _, n := range []int{72, 73, 100} {
		password := strings.Repeat("x", n)
		hash, err := ps.Hash(password)
		if err != nil {
			t.Fatalf("Hash() error for %d-character password: %v", n, err)
		}
		if !ps.Verify(hash, password) {
			t.Errorf("Verify() rejected a %d-character password", n)
		}
	}

	// Characters past the 72nd still count toward the hash.
	hash, err := ps.Hash(strings.Repeat("x", 100))
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if ps.Verify(hash, strings.Repeat("x", 99)+"y") {
		t.Error("Verify() ignored characters beyond the 72nd")
	}
}

func TestVerify_AcceptsOtherCostParameters(t *testing.T) {
	// Hashes written under a different cost setting still verify — the
	// parameters ride inside the stored hash.
	slow := NewPasswordServiceWithCost(bcrypt.MinCost + 2)
	hash, err := slow.Hash("securepass123")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	fast := newTestPasswordService(t)
	if !fast.Verify(hash, "securepass123") {
		t.Error("Verify() rejected a hash produced under a different cost")
	}
}
