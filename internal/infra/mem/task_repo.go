package mem

import (
	"context"
	"sync"

	"github.com/small-engineer/go-web-serv/tasks/internal/domain"
)

// TaskRepo keeps tasks in a slice so listings come back in insertion order.
type TaskRepo struct {
	mu sync.Mutex
	ts []*domain.Task
}

func NewTaskRepo() *TaskRepo {
	return &TaskRepo{}
}

func clone(t *domain.Task) *domain.Task {
	c := *t
	if t.DueDate != nil {
		d := *t.DueDate
		c.DueDate = &d
	}
	return &c
}

func (r *TaskRepo) indexOf(id domain.TaskID) int {
	for i, t := range r.ts {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (r *TaskRepo) Create(ctx context.Context, t *domain.Task) error {
	r.mu.Lock()
	r.ts = append(r.ts, clone(t))
	r.mu.Unlock()
	return nil
}

func (r *TaskRepo) FindByUser(ctx context.Context, uid domain.UserID) ([]*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Task
	for _, t := range r.ts {
		if t.UserID == uid {
			out = append(out, clone(t))
		}
	}
	return out, nil
}

func (r *TaskRepo) Update(ctx context.Context, id domain.TaskID, p domain.TaskPatch) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(id)
	if i < 0 {
		return nil, nil
	}
	p.Apply(r.ts[i])
	return clone(r.ts[i]), nil
}

func (r *TaskRepo) Delete(ctx context.Context, id domain.TaskID) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(id)
	if i < 0 {
		return nil, nil
	}
	t := clone(r.ts[i])
	r.ts = append(r.ts[:i], r.ts[i+1:]...)
	return t, nil
}

func (r *TaskRepo) DeleteByUser(ctx context.Context, uid domain.UserID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.ts[:0]
	n := 0
	for _, t := range r.ts {
		if t.UserID == uid {
			n++
			continue
		}
		kept = append(kept, t)
	}
	for i := len(kept); i < len(r.ts); i++ {
		r.ts[i] = nil
	}
	r.ts = kept
	return n, nil
}
