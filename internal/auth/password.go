// Package auth provides password hashing and session-token issuance and
// verification for the service.
package auth

import "golang.org/x/crypto/bcrypt"

// Hasher hashes and verifies passwords with bcrypt.
type Hasher struct {
	// cost is the bcrypt work factor.
	cost int
}

// NewHasher returns a Hasher using the given bcrypt cost. Costs outside
// bcrypt's supported range fall back to the library default.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash returns a salted bcrypt hash of the plaintext password. The result
// differs across calls on identical input.
func (h *Hasher) Hash(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), h.cost)
}

// Verify reports whether the plaintext password matches the stored hash.
func (h *Hasher) Verify(password string, hash []byte) bool {
	return bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil
}
