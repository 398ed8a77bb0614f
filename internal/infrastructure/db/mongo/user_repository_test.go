package mongo

import (
	"testing"
	"time"

	"github.com/99minutos/user-service/internal/core/domain"
)

func TestMongoUserMapping(t *testing.T) {
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	u := &domain.User{
		ID:           42,
		Name:         "Ada",
		Email:        "ada@example.com",
		PasswordHash: "$2a$10$hash",
		Role:         domain.RoleAdmin,
		CreatedAt:    created,
		UpdatedAt:    created.Add(time.Hour),
	}

	doc := toMongoUser(u)
	if doc.ID != 42 || doc.Role != "ADMIN" || doc.CreatedAt != created.Unix() {
		t.Fatalf("unexpected document: %+v", doc)
	}

	back := doc.toDomain()
	if back.ID != u.ID || back.Name != u.Name || back.Email != u.Email ||
		back.PasswordHash != u.PasswordHash || back.Role != u.Role {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", back, u)
	}
	if !back.CreatedAt.Equal(u.CreatedAt) || !back.UpdatedAt.Equal(u.UpdatedAt) {
		t.Fatalf("timestamps changed: %s %s", back.CreatedAt, back.UpdatedAt)
	}
}

func TestUnixToTime_Zero(t *testing.T) {
	if !unixToTime(0).IsZero() {
		t.Fatalf("expected zero time for 0")
	}
}
