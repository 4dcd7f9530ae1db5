package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/taskforge/task-api/internal/api/metrics"
	"github.com/taskforge/task-api/internal/core/auth"
	"github.com/taskforge/task-api/internal/core/domain"
)

var errNoIdentity = domain.Unauthenticated("missing authentication")

// RequireRoles admits only identities holding one of roles. It must run after
// Authenticate.
func RequireRoles(roles ...domain.Role) echo.MiddlewareFunc {
	guard := auth.NewRoleGuard(roles...)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity := auth.IdentityFromContext(c.Request().Context())
			if identity == nil {
				return errNoIdentity
			}

			decision := guard.Check(identity)
			if !decision.Allow {
				metrics.AuthzDecisionsTotal.WithLabelValues("role", "deny").Inc()
				return domain.Forbidden(decision.Reason)
			}
			metrics.AuthzDecisionsTotal.WithLabelValues("role", "allow").Inc()
			return next(c)
		}
	}
}
