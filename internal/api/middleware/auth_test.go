package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/user-service/internal/core/auth"
	"github.com/99minutos/user-service/internal/core/domain"
)

type stubLookup struct {
	users map[int64]*domain.User
}

func (s *stubLookup) FindByID(_ context.Context, id int64) (*domain.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

type fixture struct {
	authn  *auth.Authenticator
	issuer *auth.Issuer
	users  *stubLookup
}

func newFixture(t *testing.T, users ...*domain.User) *fixture {
	t.Helper()
	codec, err := auth.NewCodec([]byte("middleware-test-secret"), nil)
	if err != nil {
		t.Fatalf("new codec: %v", err)
	}
	lookup := &stubLookup{users: make(map[int64]*domain.User)}
	for _, u := range users {
		lookup.users[u.ID] = u
	}
	return &fixture{
		authn:  auth.NewAuthenticator(codec, lookup, zerolog.Nop()),
		issuer: auth.NewIssuer(codec),
		users:  lookup,
	}
}

func (f *fixture) bearer(t *testing.T, id int64) string {
	t.Helper()
	token, err := f.issuer.Issue(&domain.User{ID: id})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	return "Bearer " + token
}

func TestAuthenticate_ValidCredential(t *testing.T) {
	f := newFixture(t, &domain.User{ID: 3, Role: domain.RoleAdmin})
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, f.bearer(t, 3))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	h := Authenticate(f.authn)(func(c echo.Context) error {
		called = true
		p, ok := PrincipalFrom(c)
		if !ok {
			t.Fatalf("principal not set")
		}
		if p.SubjectID() != 3 || p.Role() != domain.RoleAdmin {
			t.Fatalf("unexpected principal: %d %s", p.SubjectID(), p.Role())
		}
		return c.NoContent(http.StatusOK)
	})

	if err := h(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Fatalf("expected next handler to be called")
	}
}

func TestAuthenticate_Rejections(t *testing.T) {
	f := newFixture(t, &domain.User{ID: 3, Role: domain.RoleUser})

	cases := []struct {
		name   string
		header string
		want   error
	}{
		{"missing header", "", domain.ErrMissingCredential},
		{"wrong scheme", "Basic abc", domain.ErrMissingCredential},
		{"garbage token", "Bearer not-a-token", domain.ErrInvalidCredential},
		{"deleted subject", f.bearer(t, 99), domain.ErrInvalidCredential},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tc.header)
			}
			c := e.NewContext(req, httptest.NewRecorder())

			h := Authenticate(f.authn)(func(c echo.Context) error {
				t.Fatalf("next must not run")
				return nil
			})
			if err := h(c); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if _, ok := PrincipalFrom(c); ok {
				t.Fatalf("principal must not be set on rejection")
			}
		})
	}
}

func TestRejectionReason(t *testing.T) {
	cases := map[error]string{
		domain.ErrMissingCredential: "missing_credential",
		auth.ErrCredentialExpired:   "expired",
		domain.ErrInvalidCredential: "invalid_credential",
		errors.New("boom"):          "error",
	}
	for err, want := range cases {
		if got := rejectionReason(err); got != want {
			t.Errorf("rejectionReason(%v) = %q, want %q", err, got, want)
		}
	}
}
