package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskforge/task-api/internal/core/ports"
)

// IdentityHandler serves identity lookups.
type IdentityHandler struct {
	service ports.IdentityService
}

func NewIdentityHandler(service ports.IdentityService) *IdentityHandler {
	return &IdentityHandler{service: service}
}

// Me handles GET /me.
//
// @Summary      Current identity
// @Tags         identities
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  identityResponse
// @Failure      401  {object}  errorResponse
// @Router       /me [get]
func (h *IdentityHandler) Me(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toIdentityResponse(identity.Summary()))
}

// Get handles GET /admin/identities/:id. Admin only; enforced by the router.
//
// @Summary      Get an identity by id
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Identity id (UUID)"
// @Success      200  {object}  identityResponse
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /admin/identities/{id} [get]
func (h *IdentityHandler) Get(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	summary, err := h.service.GetIdentity(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toIdentityResponse(*summary))
}
