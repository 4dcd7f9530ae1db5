package ports

import (
	"context"

	"github.com/taskforge/task-api/internal/core/domain"
)

// CreateTaskInput carries the data needed to create a task.
type CreateTaskInput struct {
	Title       string
	Description string
}

// TaskService defines use-case operations for tasks. Every method receives
// the already authenticated identity; ownership is checked inside.
type TaskService interface {
	Create(ctx context.Context, identity *domain.Identity, input CreateTaskInput) (*domain.Task, error)
	List(ctx context.Context, identity *domain.Identity) ([]*domain.Task, error)
	Get(ctx context.Context, identity *domain.Identity, id string) (*domain.Task, error)
	Update(ctx context.Context, identity *domain.Identity, id string, patch domain.TaskPatch) (*domain.Task, error)
	Delete(ctx context.Context, identity *domain.Identity, id string) error
}

// IdentityService exposes identity lookups for administrative routes.
type IdentityService interface {
	GetIdentity(ctx context.Context, id string) (*domain.IdentitySummary, error)
}
