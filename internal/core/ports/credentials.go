package ports

import (
	"context"
	"time"

	"github.com/taskforge/task-api/internal/core/domain"
)

// CredentialHasher hashes and verifies passwords. Verify never fails: a
// malformed digest simply does not match.
type CredentialHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}

// TokenCodec issues and verifies bearer tokens. Verify returns an error
// wrapping domain.ErrTokenInvalid or domain.ErrTokenExpired.
type TokenCodec interface {
	Issue(subjectID, email string) (string, error)
	Verify(token string) (*domain.TokenClaims, error)
}

// LoginThrottle limits repeated failed logins per key.
type LoginThrottle interface {
	// Allow reports whether another attempt is permitted and, if not, how
	// long the caller should wait.
	Allow(ctx context.Context, key string) (bool, time.Duration, error)
	Fail(ctx context.Context, key string) error
	Reset(ctx context.Context, key string) error
}
