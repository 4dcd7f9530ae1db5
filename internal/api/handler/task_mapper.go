package handler

import (
	"github.com/taskforge/task-api/internal/core/domain"
	"github.com/taskforge/task-api/internal/core/ports"
)

// --- Request → Service input ---

func toCreateTaskInput(req createTaskRequest) ports.CreateTaskInput {
	return ports.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
	}
}

func toTaskPatch(req updateTaskRequest) domain.TaskPatch {
	patch := domain.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
	}
	if req.Status != nil {
		s := domain.TaskStatus(*req.Status)
		patch.Status = &s
	}
	return patch
}

// --- Service result → HTTP response ---

func toTaskResponse(t *domain.Task) taskResponse {
	return taskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		OwnerID:     t.OwnerID,
		CreatedAt:   t.CreatedAt.UTC(),
		UpdatedAt:   t.UpdatedAt.UTC(),
		Links:       taskLinks{Self: "/tasks/" + t.ID},
	}
}

func toTaskListResponse(tasks []*domain.Task) taskListResponse {
	out := make([]taskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toTaskResponse(t))
	}
	return taskListResponse{Tasks: out, Count: len(out)}
}

func toIdentityResponse(s domain.IdentitySummary) identityResponse {
	return identityResponse{
		ID:        s.ID,
		Email:     s.Email,
		Role:      string(s.Role),
		CreatedAt: s.CreatedAt.UTC(),
	}
}
