package ports

import (
	"context"

	"github.com/99minutos/user-service/internal/core/domain"
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}

// PasswordHasher hashes and checks passwords off the request goroutine.
type PasswordHasher interface {
	Hash(ctx context.Context, plain string) (string, error)
	Verify(ctx context.Context, plain, hash string) (bool, error)
}

// LoginLimiter bounds login attempts per email within a window.
type LoginLimiter interface {
	// Attempt reserves one attempt for email before the password is checked
	// and reports whether it is still within the limit.
	Attempt(ctx context.Context, email string) (bool, error)
	// Reset clears the attempts of email after a successful login.
	Reset(ctx context.Context, email string) error
}

// CredentialIssuer mints a credential for a stored user.
type CredentialIssuer interface {
	Issue(user *domain.User) (string, error)
}
