package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/taskforge/task-api/internal/core/domain"
)

func (s *Store) InsertAudit(ctx context.Context, event *domain.AuditEvent) error {
	if event.At.IsZero() {
		event.At = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_events (kind, identity_id, email, resource, reason, at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		string(event.Kind),
		nullString(event.IdentityID),
		nullString(event.Email),
		nullString(event.Resource),
		nullString(event.Reason),
		toUnix(event.At),
	)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}
