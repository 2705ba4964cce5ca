package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/MohammadTashkandi/task-manager-app/internal/model"
)

// TaskFilter narrows and orders a task listing. Completed applies only when
// non-nil. SortBy must be one of the allow-listed columns; anything else is
// ignored and the default ordering (created_at ascending) is used.
type TaskFilter struct {
	Completed *bool
	SortBy    string
	SortDesc  bool
	Limit     int
	Skip      int
}

var sortableTaskColumns = map[string]bool{
	"description": true,
	"completed":   true,
	"created_at":  true,
	"updated_at":  true,
}

type TaskRepository interface {
	Create(ctx context.Context, task *model.Task) (uuid.UUID, error)
	FindByOwner(ctx context.Context, owner uuid.UUID, filter TaskFilter) ([]model.Task, error)
	FindByIDAndOwner(ctx context.Context, id, owner uuid.UUID) (*model.Task, error)
	Update(ctx context.Context, task *model.Task) error
	DeleteByIDAndOwner(ctx context.Context, id, owner uuid.UUID) (*model.Task, error)
}

type postgresTaskRepository struct {
	db *sqlx.DB
}

func NewPostgresTaskRepository(db *sqlx.DB) TaskRepository {
	return &postgresTaskRepository{db: db}
}

func (r *postgresTaskRepository) Create(ctx context.Context, task *model.Task) (uuid.UUID, error) {
	query := `INSERT INTO tasks (description, completed, owner) VALUES ($1, $2, $3) RETURNING id`
	var newID uuid.UUID
	err := r.db.QueryRowxContext(ctx, query, task.Description, task.Completed, task.Owner).Scan(&newID)

	if err != nil {
		return uuid.Nil, err
	}

	return newID, nil
}

func (r *postgresTaskRepository) FindByOwner(ctx context.Context, owner uuid.UUID, filter TaskFilter) ([]model.Task, error) {
	query := `SELECT id, description, completed, owner, created_at, updated_at FROM tasks WHERE owner = $1`
	args := []interface{}{owner}

	if filter.Completed != nil {
		args = append(args, *filter.Completed)
		query += fmt.Sprintf(" AND completed = $%d", len(args))
	}

	orderBy := "created_at"
	if sortableTaskColumns[filter.SortBy] {
		orderBy = filter.SortBy
	}
	direction := "ASC"
	if filter.SortDesc {
		direction = "DESC"
	}
	query += fmt.Sprintf(" ORDER BY %s %s", orderBy, direction)

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Skip > 0 {
		args = append(args, filter.Skip)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	tasks := []model.Task{}
	if err := r.db.SelectContext(ctx, &tasks, query, args...); err != nil {
		return nil, err
	}

	return tasks, nil
}

func (r *postgresTaskRepository) FindByIDAndOwner(ctx context.Context, id, owner uuid.UUID) (*model.Task, error) {
	var task model.Task
	query := `SELECT id, description, completed, owner, created_at, updated_at FROM tasks WHERE id = $1 AND owner = $2`
	err := r.db.GetContext(ctx, &task, query, id, owner)

	if err != nil {
		return nil, err
	}

	return &task, nil
}

func (r *postgresTaskRepository) Update(ctx context.Context, task *model.Task) error {
	query := `UPDATE tasks SET description = $1, completed = $2, updated_at = now() WHERE id = $3 AND owner = $4`
	_, err := r.db.ExecContext(ctx, query, task.Description, task.Completed, task.ID, task.Owner)
	return err
}

func (r *postgresTaskRepository) DeleteByIDAndOwner(ctx context.Context, id, owner uuid.UUID) (*model.Task, error) {
	var task model.Task
	query := `DELETE FROM tasks WHERE id = $1 AND owner = $2 RETURNING id, description, completed, owner, created_at, updated_at`
	err := r.db.GetContext(ctx, &task, query, id, owner)

	if err != nil {
		return nil, err
	}

	return &task, nil
}
