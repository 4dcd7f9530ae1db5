package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskforge/task-api/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func countAudit(t *testing.T, s *Store, kind domain.AuditKind) int {
	t.Helper()
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM audit_events WHERE kind = ?`, string(kind)).Scan(&n)
	require.NoError(t, err)
	return n
}

func TestOpen_CreatesNestedDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "tasks.db")
	s, err := Open(path, zerolog.Nop())
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(path)
	assert.NoError(t, err)
	assert.NoError(t, s.Ping(context.Background()))
}

func TestOpen_ForeignKeysOnEveryConnection(t *testing.T) {
	s := newTestStore(t)
	// Force each query onto a freshly opened connection.
	s.db.SetMaxIdleConns(0)

	for i := 0; i < 2; i++ {
		var on int
		require.NoError(t, s.db.QueryRow(`PRAGMA foreign_keys`).Scan(&on))
		assert.Equal(t, 1, on)
	}

	err := s.Tasks().Create(context.Background(), &domain.Task{
		ID: "orphan", Title: "t", Description: "d", Status: domain.TaskOpen,
		OwnerID: "no-such-identity", CreatedAt: time.Now(), UpdatedAt: time.Now(),
	})
	assert.Error(t, err)
}

func TestIdentities_CreateAndFind(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.Create(ctx, "a@x.com", "$2a$10$hash", domain.RoleAdmin)
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Empty(t, created.CredentialHash)

	withHash, err := s.FindByEmail(ctx, "a@x.com", true)
	require.NoError(t, err)
	assert.Equal(t, "$2a$10$hash", withHash.CredentialHash)
	assert.Equal(t, domain.RoleAdmin, withHash.Role)

	withoutHash, err := s.FindByEmail(ctx, "a@x.com", false)
	require.NoError(t, err)
	assert.Empty(t, withoutHash.CredentialHash)

	byID, err := s.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", byID.Email)
	assert.Empty(t, byID.CredentialHash)
}

func TestIdentities_DuplicateEmail(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Create(ctx, "dup@x.com", "h1", domain.RoleUser)
	require.NoError(t, err)

	_, err = s.Create(ctx, "dup@x.com", "h2", domain.RoleUser)
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestIdentities_NotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.FindByEmail(ctx, "ghost@x.com", true)
	assert.ErrorIs(t, err, domain.ErrIdentityNotFound)

	_, err = s.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTasks_Lifecycle(t *testing.T) {
	s := newTestStore(t)
	tasks := s.Tasks()
	ctx := context.Background()

	owner, err := s.Create(ctx, "owner@x.com", "h", domain.RoleUser)
	require.NoError(t, err)

	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	for i, title := range []string{"first", "second", "third"} {
		at := base.Add(time.Duration(i) * time.Second)
		require.NoError(t, tasks.Create(ctx, &domain.Task{
			ID: title, Title: title, Description: "d", Status: domain.TaskOpen,
			OwnerID: owner.ID, CreatedAt: at, UpdatedAt: at,
		}))
	}

	list, err := tasks.ListByOwner(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "third", list[0].Title)
	assert.Equal(t, "first", list[2].Title)

	got, err := tasks.FindByID(ctx, "second")
	require.NoError(t, err)
	got.Status = domain.TaskDone
	got.UpdatedAt = base.Add(time.Hour)
	require.NoError(t, tasks.Save(ctx, got))

	reloaded, err := tasks.FindByID(ctx, "second")
	require.NoError(t, err)
	assert.Equal(t, domain.TaskDone, reloaded.Status)
	assert.Equal(t, owner.ID, reloaded.OwnerID)
	assert.True(t, reloaded.CreatedAt.Equal(base.Add(time.Second)))

	require.NoError(t, tasks.Delete(ctx, "second"))
	_, err = tasks.FindByID(ctx, "second")
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestTasks_MissingRows(t *testing.T) {
	s := newTestStore(t)
	tasks := s.Tasks()
	ctx := context.Background()

	assert.ErrorIs(t, tasks.Delete(ctx, "nope"), domain.ErrTaskNotFound)
	assert.ErrorIs(t, tasks.Save(ctx, &domain.Task{ID: "nope"}), domain.ErrTaskNotFound)

	list, err := tasks.ListByOwner(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestInsertAudit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.InsertAudit(ctx, &domain.AuditEvent{Kind: domain.AuditLoginFailed, Email: "a@x.com"}))
	require.NoError(t, s.InsertAudit(ctx, &domain.AuditEvent{Kind: domain.AuditLoginFailed}))
	require.NoError(t, s.InsertAudit(ctx, &domain.AuditEvent{Kind: domain.AuditSignup, IdentityID: "id"}))

	assert.Equal(t, 2, countAudit(t, s, domain.AuditLoginFailed))
	assert.Equal(t, 1, countAudit(t, s, domain.AuditSignup))
}
