package auth

import "github.com/99minutos/user-service/internal/core/domain"

// Principal is a verified caller identity. The zero value is not a valid
// principal; outside this package one can only be obtained from
// Authenticator.Authenticate.
type Principal struct {
	subjectID int64
	role      domain.Role
}

func (p Principal) SubjectID() int64 { return p.subjectID }

func (p Principal) Role() domain.Role { return p.role }

// IsZero reports whether p was never set by a successful authentication.
func (p Principal) IsZero() bool {
	return p.subjectID == 0 && p.role == ""
}
