package ports

import (
	"context"

	"github.com/taskforge/task-api/internal/core/domain"
)

// TaskStore defines persistence operations for tasks.
type TaskStore interface {
	// FindByID returns domain.ErrTaskNotFound when the task does not exist.
	FindByID(ctx context.Context, id string) (*domain.Task, error)
	// ListByOwner returns the owner's tasks, newest first.
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Task, error)
	Create(ctx context.Context, t *domain.Task) error
	Save(ctx context.Context, t *domain.Task) error
	Delete(ctx context.Context, id string) error
}
