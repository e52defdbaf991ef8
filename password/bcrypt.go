package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost keeps a single verification well under 250ms on commodity
// hardware while staying above bcrypt's floor.
const DefaultCost = 10

// maxPassBytes guards bcrypt's 72-byte input ceiling before hashing.
const maxPassBytes = 72

// Config holds hasher tuning parameters. A zero Cost selects DefaultCost.
type Config struct {
	Cost int
}

// Hasher hashes and verifies plaintext credentials. It is stateless and safe
// for concurrent use.
type Hasher struct {
	cost int
}

// NewHasher validates the work factor and returns a Hasher.
func NewHasher(cfg Config) (*Hasher, error) {
	cost := cfg.Cost
	if cost == 0 {
		cost = DefaultCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, errors.New("password: cost outside bcrypt range")
	}
	return &Hasher{cost: cost}, nil
}

// Hash produces a salted, non-deterministic hash of plaintext. Two calls with
// the same input yield different hashes.
func (h *Hasher) Hash(plaintext string) (string, error) {
	if plaintext == "" {
		return "", errors.New("password: empty plaintext")
	}
	if len(plaintext) > maxPassBytes {
		return "", errors.New("password: plaintext exceeds 72 bytes")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify reports whether plaintext matches the stored hash. Malformed hash
// input, including the federated placeholder, returns false and never an
// error.
func (h *Hasher) Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
