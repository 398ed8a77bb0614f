package ports

import (
	"context"

	"github.com/99minutos/user-service/internal/core/domain"
)

// UserRepository defines persistence operations for user accounts.
// Lookups of absent records return domain.ErrUserNotFound.
type UserRepository interface {
	// Create assigns a new ID to user and stores it. A taken email yields
	// domain.ErrUserExists.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	// Update replaces name, email, password hash and role of an existing user.
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
	Delete(ctx context.Context, id int64) error
}
