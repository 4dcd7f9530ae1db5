package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/taskforge/task-api/internal/core/domain"
)

func (s *Store) Create(ctx context.Context, email, credentialHash string, role domain.Role) (*domain.Identity, error) {
	now := time.Now().UTC()
	identity := &domain.Identity{
		ID:        uuid.NewString(),
		Email:     email,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO identities (id, email, password_hash, role, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		identity.ID, email, credentialHash, string(role), toUnix(now), toUnix(now),
	)
	if err != nil {
		if isConstraintViolation(err) {
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("insert identity: %w", err)
	}

	s.log.Debug().Str("identity_id", identity.ID).Msg("identity created")
	return identity, nil
}

func (s *Store) FindByEmail(ctx context.Context, email string, includeCredential bool) (*domain.Identity, error) {
	return s.findIdentity(ctx, "email", email, includeCredential)
}

func (s *Store) FindByID(ctx context.Context, id string) (*domain.Identity, error) {
	return s.findIdentity(ctx, "id", id, false)
}

// findIdentity only selects password_hash when asked to.
func (s *Store) findIdentity(ctx context.Context, column, value string, includeCredential bool) (*domain.Identity, error) {
	hashColumn := "''"
	if includeCredential {
		hashColumn = "password_hash"
	}
	query := fmt.Sprintf(`
		SELECT id, email, %s, role, created_at, updated_at
		FROM identities WHERE %s = ?`, hashColumn, column)

	var (
		identity           domain.Identity
		role               string
		created, updatedAt int64
	)
	err := s.db.QueryRowContext(ctx, query, value).Scan(
		&identity.ID, &identity.Email, &identity.CredentialHash, &role, &created, &updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrIdentityNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query identity: %w", err)
	}

	identity.Role = domain.Role(role)
	identity.CreatedAt = fromUnix(created)
	identity.UpdatedAt = fromUnix(updatedAt)
	return &identity, nil
}
