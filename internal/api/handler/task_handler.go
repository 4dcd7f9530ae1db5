package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskforge/task-api/internal/api/metrics"
	"github.com/taskforge/task-api/internal/core/domain"
	"github.com/taskforge/task-api/internal/core/ports"
)

// TaskHandler handles HTTP requests for task operations. Ownership is
// enforced by the service; the handler only supplies the current identity.
type TaskHandler struct {
	service ports.TaskService
}

func NewTaskHandler(service ports.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

// Create handles POST /tasks.
//
// @Summary      Create a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createTaskRequest  true  "Task"
// @Success      201   {object}  taskResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /tasks [post]
func (h *TaskHandler) Create(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}

	var req createTaskRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	task, err := h.service.Create(c.Request().Context(), identity, toCreateTaskInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toTaskResponse(task))
}

// List handles GET /tasks and returns only the caller's tasks.
//
// @Summary      List own tasks
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  taskListResponse
// @Failure      401  {object}  errorResponse
// @Router       /tasks [get]
func (h *TaskHandler) List(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}

	tasks, err := h.service.List(c.Request().Context(), identity)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTaskListResponse(tasks))
}

// Get handles GET /tasks/:id.
//
// @Summary      Get a task
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Task id (UUID)"
// @Success      200  {object}  taskResponse
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /tasks/{id} [get]
func (h *TaskHandler) Get(c echo.Context) error {
	identity, id, err := h.target(c)
	if err != nil {
		return err
	}

	task, err := h.service.Get(c.Request().Context(), identity, id)
	observeDecision("read", err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTaskResponse(task))
}

// Update handles PATCH /tasks/:id. Only the owner may update.
//
// @Summary      Update a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Task id (UUID)"
// @Param        body  body      updateTaskRequest  true  "Fields to change"
// @Success      200   {object}  taskResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /tasks/{id} [patch]
func (h *TaskHandler) Update(c echo.Context) error {
	identity, id, err := h.target(c)
	if err != nil {
		return err
	}

	var req updateTaskRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	task, err := h.service.Update(c.Request().Context(), identity, id, toTaskPatch(req))
	observeDecision("update", err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTaskResponse(task))
}

// Delete handles DELETE /tasks/:id. Owners and admins may delete.
//
// @Summary      Delete a task
// @Tags         tasks
// @Security     BearerAuth
// @Param        id   path  string  true  "Task id (UUID)"
// @Success      204
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /tasks/{id} [delete]
func (h *TaskHandler) Delete(c echo.Context) error {
	identity, id, err := h.target(c)
	if err != nil {
		return err
	}

	err = h.service.Delete(c.Request().Context(), identity, id)
	observeDecision("delete", err)
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *TaskHandler) target(c echo.Context) (*domain.Identity, string, error) {
	identity, err := currentIdentity(c)
	if err != nil {
		return nil, "", err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return nil, "", err
	}
	return identity, id, nil
}

// observeDecision records the outcome of an ownership check.
func observeDecision(op string, err error) {
	result := "allow"
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrForbidden):
		result = "deny"
	case errors.Is(err, domain.ErrNotFound):
		result = "not_found"
	default:
		return
	}
	metrics.AuthzDecisionsTotal.WithLabelValues(op, result).Inc()
}
