package mem

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/small-engineer/go-web-serv/tasks/internal/domain"
)

func TestUserRepo(t *testing.T) {
	r := NewUserRepo()
	ctx := context.Background()

	u := &domain.User{ID: "1", Name: "Maria", Email: "maria@x.com"}
	require.NoError(t, r.Create(ctx, u))

	got, err := r.FindByEmail(ctx, "maria@x.com")
	require.NoError(t, err)
	assert.Equal(t, u, got)

	got, err = r.FindByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, u, got)

	got, err = r.FindByEmail(ctx, "Maria@x.com")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = r.FindByID(ctx, "2")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUserRepo_DuplicateEmail(t *testing.T) {
	r := NewUserRepo()
	ctx := context.Background()

	require.NoError(t, r.Create(ctx, &domain.User{ID: "1", Email: "a@x.com"}))
	err := r.Create(ctx, &domain.User{ID: "2", Email: "a@x.com"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	got, err := r.FindByID(ctx, "2")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUserRepo_ReturnsCopies(t *testing.T) {
	r := NewUserRepo()
	ctx := context.Background()

	u := &domain.User{ID: "1", Name: "Maria", Email: "a@x.com"}
	require.NoError(t, r.Create(ctx, u))
	u.Name = "changed"

	got, err := r.FindByID(ctx, "1")
	require.NoError(t, err)
	got.Name = "changed again"

	again, err := r.FindByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "Maria", again.Name)
}
