package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/99minutos/user-service/internal/core/domain"
	"github.com/99minutos/user-service/internal/core/ports"
	"github.com/99minutos/user-service/internal/pkg/metrics"
)

// dummyHash is compared against when the email is unknown so that a miss
// costs about as much as a wrong password.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// AuthService implements email/password login.
type AuthService struct {
	repo    ports.UserRepository
	hasher  ports.PasswordHasher
	issuer  ports.CredentialIssuer
	limiter ports.LoginLimiter
	logger  zerolog.Logger
}

// NewAuthService wires login. limiter may be nil to disable attempt limiting.
func NewAuthService(repo ports.UserRepository, hasher ports.PasswordHasher, issuer ports.CredentialIssuer, limiter ports.LoginLimiter, logger zerolog.Logger) *AuthService {
	return &AuthService{repo: repo, hasher: hasher, issuer: issuer, limiter: limiter, logger: logger}
}

// Login checks email and password and returns a fresh credential.
// Unknown emails and wrong passwords both yield domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		metrics.LoginAttemptsTotal.WithLabelValues("invalid").Inc()
		return "", nil, domain.ErrInvalidCredentials
	}

	// The slot is taken before bcrypt runs so parallel guesses are counted.
	if s.limiter != nil {
		allowed, err := s.limiter.Attempt(ctx, email)
		if err != nil {
			s.logger.Warn().Err(err).Msg("login limiter check failed, continuing")
		} else if !allowed {
			metrics.LoginAttemptsTotal.WithLabelValues("blocked").Inc()
			return "", nil, domain.ErrTooManyAttempts
		}
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return "", nil, fmt.Errorf("login: %w", err)
	}

	hash := dummyHash
	if user != nil {
		hash = user.PasswordHash
	}
	ok, err := s.hasher.Verify(ctx, password, hash)
	if err != nil {
		return "", nil, fmt.Errorf("login: verify password: %w", err)
	}
	if user == nil || !ok {
		metrics.LoginAttemptsTotal.WithLabelValues("failure").Inc()
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.issuer.Issue(user)
	if err != nil {
		return "", nil, fmt.Errorf("login: issue credential: %w", err)
	}

	if s.limiter != nil {
		if err := s.limiter.Reset(ctx, email); err != nil {
			s.logger.Warn().Err(err).Msg("failed to reset login attempts")
		}
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	s.logger.Info().Int64("user_id", user.ID).Msg("user logged in")
	return token, user, nil
}
