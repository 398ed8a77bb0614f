package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/user-service/internal/core/domain"
	"github.com/99minutos/user-service/internal/core/ports"
	"github.com/99minutos/user-service/internal/pkg/metrics"
)

const minPasswordLength = 6

// UserService implements account management on top of a UserRepository.
type UserService struct {
	repo   ports.UserRepository
	hasher ports.PasswordHasher
	issuer ports.CredentialIssuer
	logger zerolog.Logger
}

func NewUserService(repo ports.UserRepository, hasher ports.PasswordHasher, issuer ports.CredentialIssuer, logger zerolog.Logger) *UserService {
	return &UserService{repo: repo, hasher: hasher, issuer: issuer, logger: logger}
}

// CreateUser registers a USER account and mints its first credential.
func (s *UserService) CreateUser(ctx context.Context, in ports.CreateUserInput) (*ports.CreateUserResult, error) {
	return s.create(ctx, in, domain.RoleUser)
}

// EnsureAdmin creates an ADMIN account for email when none exists yet.
// An existing account with that email is left untouched.
func (s *UserService) EnsureAdmin(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
	existing, err := s.repo.FindByEmail(ctx, normalizeEmail(in.Email))
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("ensure admin: %w", err)
	}

	res, err := s.create(ctx, in, domain.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("ensure admin: %w", err)
	}
	return res.User, nil
}

func (s *UserService) create(ctx context.Context, in ports.CreateUserInput, role domain.Role) (*ports.CreateUserResult, error) {
	name := strings.TrimSpace(in.Name)
	email := normalizeEmail(in.Email)
	if name == "" || !validEmail(email) || len(in.Password) < minPasswordLength {
		return nil, domain.ErrInvalidInput
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("create user: %w", err)
	}

	hash, err := s.hasher.Hash(ctx, in.Password)
	if err != nil {
		return nil, fmt.Errorf("create user: hash password: %w", err)
	}

	now := time.Now().UTC()
	created, err := s.repo.Create(ctx, &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	token, err := s.issuer.Issue(created)
	if err != nil {
		return nil, fmt.Errorf("create user: issue credential: %w", err)
	}

	metrics.UsersCreatedTotal.WithLabelValues(string(created.Role)).Inc()
	s.logger.Info().Int64("user_id", created.ID).Str("role", string(created.Role)).Msg("user created")

	return &ports.CreateUserResult{User: created, Token: token}, nil
}

func (s *UserService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *UserService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.repo.List(ctx)
}

// UpdateUser applies the non-nil fields of in. A new password is re-hashed.
func (s *UserService) UpdateUser(ctx context.Context, id int64, in ports.UpdateUserInput) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.ErrInvalidInput
		}
		user.Name = name
	}

	if in.Email != nil {
		email := normalizeEmail(*in.Email)
		if !validEmail(email) {
			return nil, domain.ErrInvalidInput
		}
		if email != user.Email {
			other, err := s.repo.FindByEmail(ctx, email)
			switch {
			case err == nil && other.ID != user.ID:
				return nil, domain.ErrUserExists
			case err != nil && !errors.Is(err, domain.ErrUserNotFound):
				return nil, fmt.Errorf("update user: %w", err)
			}
			user.Email = email
		}
	}

	if in.Password != nil {
		if len(*in.Password) < minPasswordLength {
			return nil, domain.ErrInvalidInput
		}
		hash, err := s.hasher.Hash(ctx, *in.Password)
		if err != nil {
			return nil, fmt.Errorf("update user: hash password: %w", err)
		}
		user.PasswordHash = hash
	}

	user.UpdatedAt = time.Now().UTC()
	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("user_id", id).Msg("user updated")
	return updated, nil
}

// UpdateRole changes the role of user id. The change applies to the user's
// next request because roles are never read from credentials.
func (s *UserService) UpdateRole(ctx context.Context, id int64, role domain.Role) (*domain.User, error) {
	if !role.Valid() {
		return nil, domain.ErrInvalidRole
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.Role == role {
		return user, nil
	}

	previous := user.Role
	user.Role = role
	user.UpdatedAt = time.Now().UTC()
	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("user_id", id).
		Str("from", string(previous)).
		Str("to", string(role)).
		Msg("user role changed")
	return updated, nil
}

func (s *UserService) DeleteUser(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("user_id", id).Msg("user deleted")
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validEmail(email string) bool {
	if email == "" {
		return false
	}
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}
