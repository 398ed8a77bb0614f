package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/user-service/internal/core/auth"
	"github.com/99minutos/user-service/internal/core/domain"
	"github.com/99minutos/user-service/internal/pkg/metrics"
)

// TargetParam is the path parameter naming the addressed user.
const TargetParam = "id"

// Authorize applies policy to the authenticated principal before next runs.
// It must be chained after Authenticate. The target is taken from the :id
// path parameter, so the decision never depends on whether the target
// exists. A malformed id is decided as an empty target and rejected only
// once the caller is allowed, so unauthorized callers always see 403.
func Authorize(operation string, policy auth.AccessPolicy, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := PrincipalFrom(c)
			if !ok {
				return domain.ErrMissingCredential
			}

			target, valid := targetFrom(c)
			d := auth.Decide(p, policy, target)
			metrics.AuthorizationDecisionsTotal.WithLabelValues(operation, d.Effect.String(), string(d.Rule)).Inc()
			if !d.Allowed() {
				log.Info().
					Str("operation", operation).
					Int64("subject_id", p.SubjectID()).
					Int64("target_id", target.ID).
					Str("rule", string(d.Rule)).
					Msg("access denied")
				return domain.ErrForbidden
			}
			if !valid {
				return domain.ErrInvalidInput
			}
			return next(c)
		}
	}
}

// targetFrom reads the :id parameter. Routes without one address no target.
func targetFrom(c echo.Context) (auth.Target, bool) {
	raw := c.Param(TargetParam)
	if raw == "" {
		return auth.Target{}, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return auth.Target{}, false
	}
	return auth.UserTarget(id), true
}
