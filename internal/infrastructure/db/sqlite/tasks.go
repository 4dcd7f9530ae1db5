package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/taskforge/task-api/internal/core/domain"
)

// TaskStore adapts Store to ports.TaskStore. The method sets of the identity
// and task ports share names, so tasks get their own receiver.
type TaskStore struct {
	*Store
}

// Tasks returns the task view of the store.
func (s *Store) Tasks() *TaskStore { return &TaskStore{Store: s} }

const taskColumns = `id, title, description, status, owner_id, created_at, updated_at`

func (s *TaskStore) Create(ctx context.Context, t *domain.Task) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tasks (`+taskColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Title, t.Description, string(t.Status), t.OwnerID, toUnix(t.CreatedAt), toUnix(t.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

func (s *TaskStore) FindByID(ctx context.Context, id string) (*domain.Task, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query task: %w", err)
	}
	return t, nil
}

func (s *TaskStore) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Task, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+taskColumns+` FROM tasks
		WHERE owner_id = ?
		ORDER BY created_at DESC, id`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]*domain.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (s *TaskStore) Save(ctx context.Context, t *domain.Task) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE tasks SET title = ?, description = ?, status = ?, updated_at = ?
		WHERE id = ?`,
		t.Title, t.Description, string(t.Status), toUnix(t.UpdatedAt), t.ID,
	)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	return affectedOne(res)
}

func (s *TaskStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return affectedOne(res)
}

func affectedOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(row scanner) (*domain.Task, error) {
	var (
		t                  domain.Task
		status             string
		created, updatedAt int64
	)
	if err := row.Scan(&t.ID, &t.Title, &t.Description, &status, &t.OwnerID, &created, &updatedAt); err != nil {
		return nil, err
	}
	t.Status = domain.TaskStatus(status)
	t.CreatedAt = fromUnix(created)
	t.UpdatedAt = fromUnix(updatedAt)
	return &t, nil
}
