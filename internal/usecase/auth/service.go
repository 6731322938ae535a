package auth

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/small-engineer/go-web-serv/tasks/internal/domain"
)

const (
	DefaultCost    = 10
	MinPasswordLen = 6
)

var (
	// ErrInvalidCred is returned for an unknown email and for a wrong
	// password alike.
	ErrInvalidCred = domain.Unauthorized("invalid email or password")
	ErrEmailExists = domain.Conflict("a user with this email already exists")
)

type UserRepo interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id domain.UserID) (*domain.User, error)
	// Create stores u. It returns an error wrapping domain.ErrConflict when
	// the email is already taken.
	Create(ctx context.Context, u *domain.User) error
}

type Service struct {
	users UserRepo
	cost  int
	dummy []byte
	now   func() time.Time
}

func NewService(u UserRepo, cost int) (*Service, error) {
	if cost == 0 {
		cost = DefaultCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d out of range", cost)
	}
	// compared against when the email is unknown so both failure paths cost
	// one hash comparison
	dummy, err := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), cost)
	if err != nil {
		return nil, err
	}
	return &Service{
		users: u,
		cost:  cost,
		dummy: dummy,
		now:   time.Now,
	}, nil
}

func (s *Service) hashPass(pw string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(pw), s.cost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

func verifyPass(pw, enc string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(enc), []byte(pw))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Service) Login(ctx context.Context, email, pass string) (*domain.User, error) {
	if email == "" || pass == "" {
		return nil, domain.Validation("email and password are required")
	}
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if u == nil {
		_ = bcrypt.CompareHashAndPassword(s.dummy, []byte(pass))
		return nil, ErrInvalidCred
	}
	ok, err := verifyPass(pass, u.PasswordHash)
	if err != nil || !ok {
		return nil, ErrInvalidCred
	}
	return u, nil
}

func (s *Service) Register(ctx context.Context, name, email, pass string) (*domain.User, error) {
	if name == "" || email == "" || pass == "" {
		return nil, domain.Validation("name, email and password are required")
	}
	if utf8.RuneCountInString(pass) < MinPasswordLen {
		return nil, domain.Validation(fmt.Sprintf("password must be at least %d characters long", MinPasswordLen))
	}

	ex, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if ex != nil {
		return nil, ErrEmailExists
	}

	h, err := s.hashPass(pass)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, domain.Validation("password must be at most 72 bytes long")
	}
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &domain.User{
		ID:           domain.UserID(uuid.NewString()),
		Name:         name,
		Email:        email,
		PasswordHash: h,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.users.Create(ctx, u); err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, domain.ErrConflict) {
			return nil, ErrEmailExists
		}
		return nil, err
	}
	return u, nil
}

func (s *Service) GetByID(ctx context.Context, id domain.UserID) (*domain.User, error) {
	return s.users.FindByID(ctx, id)
}
