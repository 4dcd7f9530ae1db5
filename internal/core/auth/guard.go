package auth

import "github.com/taskforge/task-api/internal/core/domain"

// RoleGuard restricts an operation to a set of roles. The zero value allows
// everyone.
type RoleGuard struct {
	required map[domain.Role]struct{}
}

// NewRoleGuard builds a guard for the given roles.
func NewRoleGuard(roles ...domain.Role) RoleGuard {
	g := RoleGuard{required: make(map[domain.Role]struct{}, len(roles))}
	for _, r := range roles {
		g.required[r] = struct{}{}
	}
	return g
}

// Check allows when no role is required, otherwise iff the identity's role is
// in the required set.
func (g RoleGuard) Check(identity *domain.Identity) Decision {
	if len(g.required) == 0 {
		return allow()
	}
	if identity == nil {
		return deny("no identity")
	}
	if _, ok := g.required[identity.Role]; !ok {
		return deny("role " + string(identity.Role) + " is not permitted")
	}
	return allow()
}

// CheckRoles is the functional form of RoleGuard.Check.
func CheckRoles(required []domain.Role, identity *domain.Identity) bool {
	return NewRoleGuard(required...).Check(identity).Allow
}
