package auth

import (
	"github.com/taskforge/task-api/internal/core/domain"
)

// Operation is the kind of access requested on a task.
type Operation string

const (
	OpRead   Operation = "read"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// OwnershipPolicy decides task access from ownership and role. Only delete
// has an admin override: admins moderate other tasks, they do not edit them.
type OwnershipPolicy struct{}

// Decide evaluates op on a task that is known to exist.
func (OwnershipPolicy) Decide(identity *domain.Identity, op Operation, task *domain.Task) Decision {
	if identity == nil {
		return deny("no identity")
	}
	if task.OwnerID == identity.ID {
		return allow()
	}

	switch op {
	case OpDelete:
		if identity.IsAdmin() {
			return allow()
		}
		return deny("you can only delete your own tasks")
	case OpRead, OpUpdate:
		return deny("you can only " + string(op) + " your own tasks")
	default:
		return deny("unknown operation " + string(op))
	}
}

// Authorize returns NotFound for a missing task before any ownership check
// runs. A denial is returned as Forbidden.
func (p OwnershipPolicy) Authorize(identity *domain.Identity, op Operation, taskID string, task *domain.Task) error {
	if task == nil {
		return domain.NotFound(`task with id "` + taskID + `" not found`)
	}
	if d := p.Decide(identity, op, task); !d.Allow {
		return domain.Forbidden(d.Reason)
	}
	return nil
}
