// Package task implements the task store: creation, per-user listing with
// status/search filtering, partial updates and deletion.
package task

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/small-engineer/go-web-serv/tasks/internal/domain"
)

var (
	ErrUserNotFound = domain.NotFound("user not found")
	ErrTaskNotFound = domain.NotFound("task not found")
)

// Repo stores tasks. Lookups return (nil, nil) when nothing matches.
type Repo interface {
	Create(ctx context.Context, t *domain.Task) error
	// FindByUser returns the user's tasks in insertion order.
	FindByUser(ctx context.Context, uid domain.UserID) ([]*domain.Task, error)
	// Update applies p atomically and returns the updated task.
	Update(ctx context.Context, id domain.TaskID, p domain.TaskPatch) (*domain.Task, error)
	Delete(ctx context.Context, id domain.TaskID) (*domain.Task, error)
	DeleteByUser(ctx context.Context, uid domain.UserID) (int, error)
}

type UserFinder interface {
	FindByID(ctx context.Context, id domain.UserID) (*domain.User, error)
}

type Service struct {
	tasks Repo
	users UserFinder
	now   func() time.Time
}

func NewService(t Repo, u UserFinder) *Service {
	return &Service{
		tasks: t,
		users: u,
		now:   time.Now,
	}
}

type CreateInput struct {
	UserID      domain.UserID
	Title       string
	Description string
	DueDate     *time.Time
}

func (s *Service) requireUser(ctx context.Context, uid domain.UserID) error {
	u, err := s.users.FindByID(ctx, uid)
	if err != nil {
		return fmt.Errorf("find user: %w", err)
	}
	if u == nil {
		return ErrUserNotFound
	}
	return nil
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.Task, error) {
	if in.UserID == "" || in.Title == "" {
		return nil, domain.Validation("userId and title are required")
	}
	if err := s.requireUser(ctx, in.UserID); err != nil {
		return nil, err
	}

	t := &domain.Task{
		ID:          domain.TaskID(uuid.NewString()),
		UserID:      in.UserID,
		Title:       in.Title,
		Description: in.Description,
		DueDate:     in.DueDate,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.tasks.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return t, nil
}

// ListByUser returns the user's tasks that match f, most recent first.
func (s *Service) ListByUser(ctx context.Context, uid domain.UserID, f domain.TaskFilter) ([]*domain.Task, error) {
	if err := s.requireUser(ctx, uid); err != nil {
		return nil, err
	}
	all, err := s.tasks.FindByUser(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	out := make([]*domain.Task, 0, len(all))
	for _, t := range all {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Update overwrites only the fields set in p. The title is not checked for
// emptiness here, unlike Create.
func (s *Service) Update(ctx context.Context, id domain.TaskID, p domain.TaskPatch) (*domain.Task, error) {
	t, err := s.tasks.Update(ctx, id, p)
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	if t == nil {
		return nil, ErrTaskNotFound
	}
	return t, nil
}

func (s *Service) SetCompleted(ctx context.Context, id domain.TaskID, completed *bool) (*domain.Task, error) {
	if completed == nil {
		return nil, domain.Validation(`field "completed" is required and must be a boolean`)
	}
	return s.Update(ctx, id, domain.TaskPatch{Completed: completed})
}

func (s *Service) Delete(ctx context.Context, id domain.TaskID) (*domain.Task, error) {
	t, err := s.tasks.Delete(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("delete task: %w", err)
	}
	if t == nil {
		return nil, ErrTaskNotFound
	}
	return t, nil
}

func (s *Service) DeleteAllByUser(ctx context.Context, uid domain.UserID) (int, error) {
	if err := s.requireUser(ctx, uid); err != nil {
		return 0, err
	}
	n, err := s.tasks.DeleteByUser(ctx, uid)
	if err != nil {
		return 0, fmt.Errorf("delete tasks: %w", err)
	}
	return n, nil
}
