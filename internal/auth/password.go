package auth

import "golang.org/x/crypto/bcrypt"

// Hasher hashes and verifies local account passwords using bcrypt.
type Hasher struct {
	cost int
}

// NewHasher constructs a Hasher with the default bcrypt cost.
func NewHasher() *Hasher {
	return &Hasher{cost: bcrypt.DefaultCost}
}

// Hash produces a salted one-way digest of plaintext. Two calls with
// the same input yield different digests.
func (h *Hasher) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify reports whether plaintext matches the stored digest. A nil or
// empty digest never matches: federation-only accounts have no password
// and must not reach the bcrypt comparison.
func (h *Hasher) Verify(plaintext string, digest *string) bool {
	if digest == nil || *digest == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(*digest), []byte(plaintext)) == nil
}
