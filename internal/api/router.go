package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/99minutos/user-service/docs"
	"github.com/99minutos/user-service/internal/api/handler"
	"github.com/99minutos/user-service/internal/api/middleware"
	"github.com/99minutos/user-service/internal/core/auth"
	"github.com/99minutos/user-service/internal/core/domain"
	"github.com/99minutos/user-service/internal/core/ports"
)

// Dependencies are the collaborators the router wires into handlers.
type Dependencies struct {
	Users         ports.UserService
	Auth          ports.AuthService
	Authenticator *auth.Authenticator
	Readiness     map[string]handler.Check
	Logger        zerolog.Logger
	// Registry receives the HTTP metrics and backs /metrics. Nil means the
	// process-wide default registry.
	Registry *prometheus.Registry
}

// operation is one protected route and the policy attached to it.
type operation struct {
	name    string
	method  string
	path    string
	policy  auth.AccessPolicy
	handler echo.HandlerFunc
}

// Policies for the protected user operations.
var (
	PolicyListUsers  = auth.AccessPolicy{RequiredRole: domain.RoleAdmin}
	PolicyGetUser    = auth.AccessPolicy{OwnershipRequired: true}
	PolicyUpdateUser = auth.AccessPolicy{OwnershipRequired: true}
	PolicyUpdateRole = auth.AccessPolicy{RequiredRole: domain.RoleAdmin}
	PolicyDeleteUser = auth.AccessPolicy{RequiredRole: domain.RoleAdmin, ForbidSelfTarget: true}
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Logger))
	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if deps.Registry != nil {
		registerer, gatherer = deps.Registry, deps.Registry
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "users_http",
		Registerer: registerer,
	}))

	// --- Public routes ---
	userHandler := handler.NewUserHandler(deps.Users)
	authHandler := handler.NewAuthHandler(deps.Auth)

	e.POST("/users", userHandler.Create)
	e.POST("/auth/login", authHandler.Login)

	// --- Protected routes: guard, then policy, then handler ---
	authn := middleware.Authenticate(deps.Authenticator)
	for _, op := range []operation{
		{"users.list", http.MethodGet, "/users", PolicyListUsers, userHandler.List},
		{"users.get", http.MethodGet, "/users/:id", PolicyGetUser, userHandler.Get},
		{"users.update", http.MethodPatch, "/users/:id", PolicyUpdateUser, userHandler.Update},
		{"users.update_role", http.MethodPatch, "/users/:id/role", PolicyUpdateRole, userHandler.UpdateRole},
		{"users.delete", http.MethodDelete, "/users/:id", PolicyDeleteUser, userHandler.Delete},
	} {
		e.Add(op.method, op.path, op.handler, authn, middleware.Authorize(op.name, op.policy, deps.Logger))
	}

	// --- Health probes, metrics and docs (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Readiness)

	e.GET("/health", healthHandler.Liveness)          // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger emits one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
