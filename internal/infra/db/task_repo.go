package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/small-engineer/go-web-serv/tasks/internal/domain"
)

const taskCols = "id, user_id, title, description, due_date, completed, created_at"

type TaskRepo struct {
	db *sql.DB
}

func NewTaskRepo(db *sql.DB) *TaskRepo {
	return &TaskRepo{
		db: db,
	}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner) (*domain.Task, error) {
	var t domain.Task
	var due sql.NullTime
	err := s.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &due, &t.Completed, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	if due.Valid {
		d := due.Time
		t.DueDate = &d
	}
	return &t, nil
}

func nullTime(t *domain.Task) sql.NullTime {
	if t.DueDate == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t.DueDate, Valid: true}
}

func (r *TaskRepo) Create(ctx context.Context, t *domain.Task) error {
	_, err := r.db.ExecContext(ctx, "INSERT INTO tasks ("+taskCols+") VALUES (?, ?, ?, ?, ?, ?, ?)",
		t.ID, t.UserID, t.Title, t.Description, nullTime(t), t.Completed, t.CreatedAt)
	return err
}

func (r *TaskRepo) FindByUser(ctx context.Context, uid domain.UserID) ([]*domain.Task, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+taskCols+" FROM tasks WHERE user_id = ? ORDER BY seq", uid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// lockTask reads a task inside tx and holds its row lock until commit.
func lockTask(ctx context.Context, tx *sql.Tx, id domain.TaskID) (*domain.Task, error) {
	row := tx.QueryRowContext(ctx, "SELECT "+taskCols+" FROM tasks WHERE id = ? FOR UPDATE", id)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return t, err
}

func (r *TaskRepo) Update(ctx context.Context, id domain.TaskID, p domain.TaskPatch) (*domain.Task, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	t, err := lockTask(ctx, tx, id)
	if err != nil || t == nil {
		return nil, err
	}
	p.Apply(t)

	_, err = tx.ExecContext(ctx,
		"UPDATE tasks SET title = ?, description = ?, due_date = ?, completed = ? WHERE id = ?",
		t.Title, t.Description, nullTime(t), t.Completed, t.ID)
	if err != nil {
		return nil, fmt.Errorf("update: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return t, nil
}

func (r *TaskRepo) Delete(ctx context.Context, id domain.TaskID) (*domain.Task, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	t, err := lockTask(ctx, tx, id)
	if err != nil || t == nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id); err != nil {
		return nil, fmt.Errorf("delete: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return t, nil
}

func (r *TaskRepo) DeleteByUser(ctx context.Context, uid domain.UserID) (int, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM tasks WHERE user_id = ?", uid)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}
