package auth

import (
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"gitlab.com/dirk.krummacker/contact-book/internal/apperr"
)

// MaxPasswordLength is the number of bytes bcrypt can hash.
const MaxPasswordLength = 72

// Hasher hashes passwords one way and checks plaintext passwords against stored digests.
type Hasher interface {
	Hash(password string) (string, error)
	Check(password, digest string) bool
}

type bcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a Hasher based on bcrypt. A cost outside bcrypt's valid range falls back
// to bcrypt.DefaultCost.
func NewBcryptHasher(cost int) Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &bcryptHasher{cost: cost}
}

// Hash fails with apperr.ErrPasswordTooLong for passwords bcrypt cannot take.
func (h *bcryptHasher) Hash(password string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", apperr.ErrPasswordTooLong
	}
	return string(digest), err
}

func (h *bcryptHasher) Check(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}
