package service

import (
	"context"
	"fmt"

	"github.com/taskforge/task-api/internal/core/domain"
	"github.com/taskforge/task-api/internal/core/ports"
)

// IdentityService serves identity lookups for administrative routes. Callers
// are expected to have passed a RoleGuard first.
type IdentityService struct {
	identities ports.IdentityStore
}

func NewIdentityService(identities ports.IdentityStore) *IdentityService {
	return &IdentityService{identities: identities}
}

// GetIdentity returns the summary of the identity with the given id.
func (s *IdentityService) GetIdentity(ctx context.Context, id string) (*domain.IdentitySummary, error) {
	identity, err := s.identities.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get identity: %w", err)
	}
	summary := identity.Summary()
	return &summary, nil
}
