package middleware

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/user-service/internal/core/auth"
	"github.com/99minutos/user-service/internal/core/domain"
	"github.com/99minutos/user-service/internal/pkg/metrics"
)

// principalKey is the echo context key holding the verified auth.Principal.
const principalKey = "principal"

// Authenticate runs the Authentication Guard and stores the resulting
// principal in the echo context. Rejections never reach next.
func Authenticate(authn *auth.Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, err := authn.Authenticate(c.Request().Context(), c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				metrics.AuthenticationsTotal.WithLabelValues("rejected", rejectionReason(err)).Inc()
				return err
			}
			metrics.AuthenticationsTotal.WithLabelValues("authenticated", "ok").Inc()

			c.Set(principalKey, p)
			return next(c)
		}
	}
}

// PrincipalFrom returns the principal stored by Authenticate.
func PrincipalFrom(c echo.Context) (auth.Principal, bool) {
	p, ok := c.Get(principalKey).(auth.Principal)
	if !ok || p.IsZero() {
		return auth.Principal{}, false
	}
	return p, true
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrMissingCredential):
		return "missing_credential"
	case errors.Is(err, auth.ErrCredentialExpired):
		return "expired"
	case errors.Is(err, domain.ErrInvalidCredential):
		return "invalid_credential"
	default:
		return "error"
	}
}
