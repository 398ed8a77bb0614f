package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/99minutos/user-service/internal/core/domain"
)

type stubLookup struct {
	users map[int64]*domain.User
	err   error
	calls int
}

func (s *stubLookup) FindByID(_ context.Context, id int64) (*domain.User, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func newTestAuthenticator(t *testing.T, users ...*domain.User) (*Authenticator, *Issuer, *stubLookup) {
	t.Helper()
	codec, _ := newTestCodec(t)
	lookup := &stubLookup{users: make(map[int64]*domain.User)}
	for _, u := range users {
		lookup.users[u.ID] = u
	}
	return NewAuthenticator(codec, lookup, zerolog.Nop()), NewIssuer(codec), lookup
}

func TestBearerToken(t *testing.T) {
	tok, err := BearerToken("Bearer abc.def.ghi")
	require.NoError(t, err)
	require.Equal(t, "abc.def.ghi", tok)

	tok, err = BearerToken("bearer   xyz ")
	require.NoError(t, err)
	require.Equal(t, "xyz", tok)

	for _, h := range []string{"", "   ", "Bearer", "Bearer ", "Token abc", "Basic dXNlcjpwdw=="} {
		_, err := BearerToken(h)
		require.ErrorIs(t, err, domain.ErrMissingCredential, h)
	}
}

func TestAuthenticate_ValidCredential(t *testing.T) {
	authn, issuer, _ := newTestAuthenticator(t, &domain.User{ID: 7, Role: domain.RoleUser})

	token, err := issuer.Issue(&domain.User{ID: 7})
	require.NoError(t, err)

	p, err := authn.Authenticate(context.Background(), "Bearer "+token)
	require.NoError(t, err)
	require.Equal(t, int64(7), p.SubjectID())
	require.Equal(t, domain.RoleUser, p.Role())
	require.False(t, p.IsZero())
}

func TestAuthenticate_RoleIsResolvedPerRequest(t *testing.T) {
	authn, issuer, lookup := newTestAuthenticator(t, &domain.User{ID: 3, Role: domain.RoleAdmin})

	token, err := issuer.Issue(&domain.User{ID: 3, Role: domain.RoleAdmin})
	require.NoError(t, err)

	p, err := authn.Authenticate(context.Background(), "Bearer "+token)
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, p.Role())

	// Demotion takes effect on the very next request with the same credential.
	lookup.users[3].Role = domain.RoleUser
	p, err = authn.Authenticate(context.Background(), "Bearer "+token)
	require.NoError(t, err)
	require.Equal(t, domain.RoleUser, p.Role())
	require.Equal(t, 2, lookup.calls)
}

func TestAuthenticate_Rejections(t *testing.T) {
	authn, issuer, lookup := newTestAuthenticator(t, &domain.User{ID: 1, Role: domain.RoleUser})

	_, err := authn.Authenticate(context.Background(), "")
	require.ErrorIs(t, err, domain.ErrMissingCredential)

	_, err = authn.Authenticate(context.Background(), "Token abc")
	require.ErrorIs(t, err, domain.ErrMissingCredential)

	_, err = authn.Authenticate(context.Background(), "Bearer not-a-token")
	require.ErrorIs(t, err, domain.ErrInvalidCredential)

	// Credential for a user that has since been deleted.
	ghost, err := issuer.Issue(&domain.User{ID: 99})
	require.NoError(t, err)
	_, err = authn.Authenticate(context.Background(), "Bearer "+ghost)
	require.ErrorIs(t, err, domain.ErrInvalidCredential)

	require.Equal(t, 1, lookup.calls, "lookup must only run for verified credentials")
}

func TestAuthenticate_ExpiredCredential(t *testing.T) {
	codec, clock := newTestCodec(t)
	lookup := &stubLookup{users: map[int64]*domain.User{7: {ID: 7, Role: domain.RoleUser}}}
	authn := NewAuthenticator(codec, lookup, zerolog.Nop())

	token, err := NewIssuer(codec).Issue(&domain.User{ID: 7})
	require.NoError(t, err)

	clock.Advance(CredentialTTL + time.Second)
	_, err = authn.Authenticate(context.Background(), "Bearer "+token)
	require.ErrorIs(t, err, ErrCredentialExpired)
	require.Zero(t, lookup.calls)
}

func TestAuthenticate_LookupFailure(t *testing.T) {
	authn, issuer, lookup := newTestAuthenticator(t)
	lookup.err = errors.New("connection reset")

	token, err := issuer.Issue(&domain.User{ID: 1})
	require.NoError(t, err)

	_, err = authn.Authenticate(context.Background(), "Bearer "+token)
	require.Error(t, err)
	require.NotErrorIs(t, err, domain.ErrInvalidCredential)
	require.NotErrorIs(t, err, domain.ErrMissingCredential)
}

func TestAuthenticate_CancelledRequest(t *testing.T) {
	authn, issuer, _ := newTestAuthenticator(t, &domain.User{ID: 1, Role: domain.RoleUser})
	token, err := issuer.Issue(&domain.User{ID: 1})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p, err := authn.Authenticate(ctx, "Bearer "+token)
	require.ErrorIs(t, err, context.Canceled)
	require.True(t, p.IsZero())
}

func TestAuthenticate_StoredRoleMustBeKnown(t *testing.T) {
	authn, issuer, _ := newTestAuthenticator(t, &domain.User{ID: 4, Role: domain.Role("ROOT")})
	token, err := issuer.Issue(&domain.User{ID: 4})
	require.NoError(t, err)

	_, err = authn.Authenticate(context.Background(), "Bearer "+token)
	require.ErrorIs(t, err, domain.ErrInvalidRole)
}
