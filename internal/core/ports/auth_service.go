package ports

import (
	"context"

	"github.com/taskforge/task-api/internal/core/domain"
)

// AuthResult is returned by signup and login.
type AuthResult struct {
	Token    string
	Identity domain.IdentitySummary
}

// AuthService establishes identities and issues tokens.
type AuthService interface {
	Signup(ctx context.Context, email, password string, role domain.Role) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
}
