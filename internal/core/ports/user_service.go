package ports

import (
	"context"

	"github.com/99minutos/user-service/internal/core/domain"
)

// CreateUserInput carries a self-service sign-up.
type CreateUserInput struct {
	Name     string
	Email    string
	Password string
}

// UpdateUserInput carries a partial profile update; nil fields are unchanged.
type UpdateUserInput struct {
	Name     *string
	Email    *string
	Password *string
}

// CreateUserResult is the new account plus its first credential.
type CreateUserResult struct {
	User  *domain.User
	Token string
}

// UserService covers account management. Authorization has already been
// decided by the caller when these methods run.
type UserService interface {
	CreateUser(ctx context.Context, in CreateUserInput) (*CreateUserResult, error)
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	ListUsers(ctx context.Context) ([]*domain.User, error)
	UpdateUser(ctx context.Context, id int64, in UpdateUserInput) (*domain.User, error)
	UpdateRole(ctx context.Context, id int64, role domain.Role) (*domain.User, error)
	DeleteUser(ctx context.Context, id int64) error
}
