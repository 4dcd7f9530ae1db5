package ports

import (
	"context"

	"github.com/taskforge/task-api/internal/core/domain"
)

// IdentityStore defines persistence for identities. Implementations enforce
// email uniqueness and report a duplicate as domain.ErrEmailTaken.
type IdentityStore interface {
	// FindByEmail returns domain.ErrIdentityNotFound when no identity matches.
	// CredentialHash is only populated when includeCredential is true.
	FindByEmail(ctx context.Context, email string, includeCredential bool) (*domain.Identity, error)
	FindByID(ctx context.Context, id string) (*domain.Identity, error)
	Create(ctx context.Context, email, credentialHash string, role domain.Role) (*domain.Identity, error)
}
