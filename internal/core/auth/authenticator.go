package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/99minutos/user-service/internal/core/domain"
)

// UserLookup resolves the current state of a user at request time.
type UserLookup interface {
	FindByID(ctx context.Context, id int64) (*domain.User, error)
}

// Authenticator turns an Authorization header into a Principal.
type Authenticator struct {
	codec *Codec
	users UserLookup
	log   zerolog.Logger
}

func NewAuthenticator(codec *Codec, users UserLookup, log zerolog.Logger) *Authenticator {
	return &Authenticator{codec: codec, users: users, log: log}
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" value.
func BearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", domain.ErrMissingCredential
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return "", domain.ErrMissingCredential
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", domain.ErrMissingCredential
	}
	return token, nil
}

// Authenticate verifies the presented credential and resolves the subject's
// current role. It returns domain.ErrMissingCredential or
// domain.ErrInvalidCredential on rejection; any other error is a lookup
// failure.
func (a *Authenticator) Authenticate(ctx context.Context, header string) (Principal, error) {
	token, err := BearerToken(header)
	if err != nil {
		return Principal{}, err
	}

	claims, err := a.codec.Verify(token)
	if err != nil {
		a.log.Debug().Err(err).Msg("credential rejected")
		return Principal{}, err
	}

	user, err := a.users.FindByID(ctx, claims.SubjectID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			a.log.Debug().Int64("subject_id", claims.SubjectID).Msg("credential subject no longer exists")
			return Principal{}, fmt.Errorf("%w: unknown subject", domain.ErrInvalidCredential)
		}
		return Principal{}, fmt.Errorf("resolve principal: %w", err)
	}
	if !user.Role.Valid() {
		return Principal{}, fmt.Errorf("resolve principal: user %d: %w", user.ID, domain.ErrInvalidRole)
	}

	// A request aborted mid-lookup must not yield a principal.
	if err := ctx.Err(); err != nil {
		return Principal{}, err
	}

	return Principal{subjectID: user.ID, role: user.Role}, nil
}
