package ports

import (
	"context"

	"github.com/taskforge/task-api/internal/core/domain"
)

// AuditRepository persists audit events.
type AuditRepository interface {
	InsertAudit(ctx context.Context, event *domain.AuditEvent) error
}

// AuditRecorder accepts audit events without blocking the caller.
type AuditRecorder interface {
	Record(event domain.AuditEvent)
}
