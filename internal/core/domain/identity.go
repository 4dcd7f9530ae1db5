package domain

import (
	"fmt"
	"strings"
	"time"
)

// Role is a coarse permission class. The set is closed: RoleGuard and the
// ownership policy both switch on it, so adding a role means revisiting both.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// ParseRole converts raw input into a Role. An empty string yields RoleUser.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if r == "" {
		return RoleUser, nil
	}
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// Identity is a user account. CredentialHash is only populated when the store
// was explicitly asked for it.
type Identity struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	CredentialHash string    `json:"-"`
	Role           Role      `json:"role"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// IdentitySummary is the only identity shape handed to callers.
type IdentitySummary struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// Summary projects the identity without its credential hash.
func (i *Identity) Summary() IdentitySummary {
	return IdentitySummary{
		ID:        i.ID,
		Email:     i.Email,
		Role:      i.Role,
		CreatedAt: i.CreatedAt,
	}
}

// IsAdmin reports whether the identity holds the admin role.
func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == RoleAdmin
}

// NormalizeEmail is applied to every email before it reaches a store.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
