package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/taskforge/task-api/internal/core/auth"
	"github.com/taskforge/task-api/internal/core/domain"
	"github.com/taskforge/task-api/internal/core/ports"
)

// TaskService implements task use cases. Every operation on an existing task
// loads it fresh and runs the ownership policy before touching the store.
type TaskService struct {
	repo   ports.TaskStore
	policy auth.OwnershipPolicy
	audit  ports.AuditRecorder
	logger zerolog.Logger
	now    func() time.Time
}

func NewTaskService(repo ports.TaskStore, audit ports.AuditRecorder, logger zerolog.Logger) *TaskService {
	return &TaskService{repo: repo, audit: audit, logger: logger, now: time.Now}
}

// Create stores a new task owned by identity.
func (s *TaskService) Create(ctx context.Context, identity *domain.Identity, input ports.CreateTaskInput) (*domain.Task, error) {
	now := s.now().UTC()
	task := &domain.Task{
		ID:          uuid.NewString(),
		Title:       input.Title,
		Description: input.Description,
		Status:      domain.TaskOpen,
		OwnerID:     identity.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, task); err != nil {
		s.logger.Error().Err(err).Msg("failed to create task")
		return nil, fmt.Errorf("create task: %w", err)
	}

	s.logger.Info().Str("task_id", task.ID).Str("owner_id", task.OwnerID).Msg("task created")
	return task, nil
}

// List returns the identity's own tasks, newest first.
func (s *TaskService) List(ctx context.Context, identity *domain.Identity) ([]*domain.Task, error) {
	tasks, err := s.repo.ListByOwner(ctx, identity.ID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

func (s *TaskService) Get(ctx context.Context, identity *domain.Identity, id string) (*domain.Task, error) {
	return s.authorized(ctx, identity, auth.OpRead, id)
}

// Update applies patch to a task the identity owns.
func (s *TaskService) Update(ctx context.Context, identity *domain.Identity, id string, patch domain.TaskPatch) (*domain.Task, error) {
	task, err := s.authorized(ctx, identity, auth.OpUpdate, id)
	if err != nil {
		return nil, err
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, domain.Invalid(fmt.Sprintf("unknown status %q", *patch.Status))
	}

	patch.Apply(task, s.now().UTC())
	if err := s.repo.Save(ctx, task); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}

	s.logger.Info().Str("task_id", task.ID).Str("identity_id", identity.ID).Msg("task updated")
	return task, nil
}

// Delete removes a task owned by identity, or any task when identity is an admin.
func (s *TaskService) Delete(ctx context.Context, identity *domain.Identity, id string) error {
	if _, err := s.authorized(ctx, identity, auth.OpDelete, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			return domain.NotFound(`task with id "` + id + `" not found`)
		}
		return fmt.Errorf("delete task: %w", err)
	}

	s.logger.Info().Str("task_id", id).Str("identity_id", identity.ID).Msg("task deleted")
	return nil
}

// authorized loads the task and returns it only when op is permitted.
// A missing task is reported before ownership is considered.
func (s *TaskService) authorized(ctx context.Context, identity *domain.Identity, op auth.Operation, id string) (*domain.Task, error) {
	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if !errors.Is(err, domain.ErrTaskNotFound) {
			return nil, fmt.Errorf("%s task: %w", op, err)
		}
		task = nil
	}

	if err := s.policy.Authorize(identity, op, id, task); err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			s.logger.Debug().Str("task_id", id).Str("identity_id", identity.ID).Str("op", string(op)).Msg("task access denied")
			if s.audit != nil {
				s.audit.Record(domain.AuditEvent{
					Kind:       domain.AuditAccessDenied,
					IdentityID: identity.ID,
					Resource:   "task:" + id,
					Reason:     string(op),
					At:         s.now().UTC(),
				})
			}
		}
		return nil, err
	}
	return task, nil
}
