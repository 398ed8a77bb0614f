package auth

import (
	"errors"
	"time"

	"github.com/99minutos/user-service/internal/core/domain"
)

// CredentialTTL is the fixed validity window of every issued credential.
const CredentialTTL = 30 * 24 * time.Hour

// Issuer mints credentials for users.
type Issuer struct {
	codec *Codec
}

func NewIssuer(codec *Codec) *Issuer {
	return &Issuer{codec: codec}
}

// Issue returns a credential for user that expires CredentialTTL from now.
// Only the user id is embedded; role is resolved again on every request.
func (i *Issuer) Issue(user *domain.User) (string, error) {
	if user == nil || user.ID <= 0 {
		return "", errors.New("issue credential: user has no id")
	}
	now := i.codec.Now()
	return i.codec.Sign(Claims{
		SubjectID: user.ID,
		IssuedAt:  now,
		ExpiresAt: now.Add(CredentialTTL),
	})
}
