package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// PasswordCost is the bcrypt work factor used for every stored password.
const PasswordCost = 10

var ErrEmptyPassword = errors.New("password must not be empty")

// Hasher is a one-way salted password transform.
type Hasher struct {
	cost int
}

func NewHasher() *Hasher {
	return &Hasher{cost: PasswordCost}
}

// Hash returns a bcrypt hash of plain. bcrypt draws a new salt per call.
func (h *Hasher) Hash(plain string) (string, error) {
	if plain == "" {
		return "", ErrEmptyPassword
	}
	out, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Verify reports whether plain matches hash.
func (h *Hasher) Verify(plain, hash string) bool {
	if plain == "" || hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
