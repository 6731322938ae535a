package mem

import (
	"context"
	"sync"

	"github.com/small-engineer/go-web-serv/tasks/internal/domain"
)

type UserRepo struct {
	mu      sync.Mutex
	m       map[domain.UserID]*domain.User
	byEmail map[string]domain.UserID
}

func NewUserRepo() *UserRepo {
	return &UserRepo{
		m:       make(map[domain.UserID]*domain.User),
		byEmail: make(map[string]domain.UserID),
	}
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byEmail[email]
	if !ok {
		return nil, nil
	}
	u := *r.m[id]
	return &u, nil
}

func (r *UserRepo) FindByID(ctx context.Context, id domain.UserID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.m[id]
	if !ok {
		return nil, nil
	}
	c := *u
	return &c, nil
}

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[u.Email]; ok {
		return domain.Conflict("email already exists")
	}
	c := *u
	r.m[u.ID] = &c
	r.byEmail[u.Email] = u.ID
	return nil
}
