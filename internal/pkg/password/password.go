package password

import (
	"errors"
	"fmt"

	"github.com/auth-api-nosql/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// Hasher wraps bcrypt with a tunable work factor. Digests embed their own
// salt, so two hashes of the same plaintext never match byte-for-byte.
type Hasher struct {
	cost int
}

// NewHasher clamps cost into bcrypt's supported range.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

func (h *Hasher) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(digest), nil
}

// Verify reports whether plaintext matches digest. A mismatch is not an
// error; only a malformed digest is, signalled as domain.ErrConfig.
func (h *Hasher) Verify(plaintext, digest string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, fmt.Errorf("malformed password digest: %w", domain.ErrConfig)
}
