package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/taskforge/task-api/internal/api/metrics"
	"github.com/taskforge/task-api/internal/core/auth"
	"github.com/taskforge/task-api/internal/core/domain"
)

var errMalformedHeader = domain.Unauthenticated("invalid authorization header")

// Authenticator resolves a raw bearer token to an identity.
type Authenticator interface {
	Authenticate(ctx context.Context, rawToken string) (*domain.Identity, error)
}

// Authenticate requires a valid bearer token and stores the resolved
// identity in the request context.
func Authenticate(authenticator Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, err := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				metrics.TokenRejectionsTotal.WithLabelValues("invalid").Inc()
				return err
			}

			identity, err := authenticator.Authenticate(c.Request().Context(), raw)
			if err != nil {
				if reason := rejectionReason(raw, err); reason != "" {
					metrics.TokenRejectionsTotal.WithLabelValues(reason).Inc()
				}
				return err
			}

			c.SetRequest(c.Request().WithContext(auth.WithIdentity(c.Request().Context(), identity)))
			return next(c)
		}
	}
}

// bearerToken extracts the token from an Authorization header. An absent
// header yields an empty token so the authenticator reports it as missing.
func bearerToken(header string) (string, error) {
	if header == "" {
		return "", nil
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", errMalformedHeader
	}
	return strings.TrimSpace(parts[1]), nil
}

func rejectionReason(raw string, err error) string {
	switch {
	case raw == "":
		return "missing"
	case errors.Is(err, domain.ErrTokenExpired):
		return "expired"
	case errors.Is(err, domain.ErrTokenInvalid):
		return "invalid"
	case errors.Is(err, domain.ErrUnauthenticated):
		return "unknown_identity"
	}
	return ""
}
