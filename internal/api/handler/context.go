package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/taskforge/task-api/internal/core/auth"
	"github.com/taskforge/task-api/internal/core/domain"
)

var errNotAuthenticated = domain.Unauthenticated("missing authentication")

// currentIdentity returns the identity placed in the request context by the
// Authenticate middleware. Its absence means the route was wired without it.
func currentIdentity(c echo.Context) (*domain.Identity, error) {
	identity := auth.IdentityFromContext(c.Request().Context())
	if identity == nil {
		return nil, errNotAuthenticated
	}
	return identity, nil
}

// uuidParam reads a path parameter that must be a UUID.
func uuidParam(c echo.Context, name string) (string, error) {
	raw := c.Param(name)
	if _, err := uuid.Parse(raw); err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, name+" must be a valid UUID")
	}
	return raw, nil
}

// bindAndValidate decodes the JSON body into req and runs its validate tags.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
