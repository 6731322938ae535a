package mem

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/small-engineer/go-web-serv/tasks/internal/domain"
)

func seed(t *testing.T, r *TaskRepo, tasks ...*domain.Task) {
	t.Helper()
	for _, tk := range tasks {
		require.NoError(t, r.Create(context.Background(), tk))
	}
}

func TestTaskRepo_FindByUserKeepsInsertionOrder(t *testing.T) {
	r := NewTaskRepo()
	seed(t, r,
		&domain.Task{ID: "a", UserID: "u1"},
		&domain.Task{ID: "b", UserID: "u2"},
		&domain.Task{ID: "c", UserID: "u1"},
	)

	ts, err := r.FindByUser(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, ts, 2)
	assert.Equal(t, domain.TaskID("a"), ts[0].ID)
	assert.Equal(t, domain.TaskID("c"), ts[1].ID)

	ts, err = r.FindByUser(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, ts)
}

func TestTaskRepo_Update(t *testing.T) {
	r := NewTaskRepo()
	due := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	seed(t, r, &domain.Task{ID: "a", UserID: "u1", Title: "old", DueDate: &due})
	ctx := context.Background()

	title := "new"
	got, err := r.Update(ctx, "a", domain.TaskPatch{Title: &title, ClearDueDate: true})
	require.NoError(t, err)
	assert.Equal(t, "new", got.Title)
	assert.Nil(t, got.DueDate)

	// the returned task is a copy
	got.Title = "mutated"
	ts, err := r.FindByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "new", ts[0].Title)

	got, err = r.Update(ctx, "missing", domain.TaskPatch{Title: &title})
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestTaskRepo_Delete(t *testing.T) {
	r := NewTaskRepo()
	seed(t, r,
		&domain.Task{ID: "a", UserID: "u1"},
		&domain.Task{ID: "b", UserID: "u1"},
	)
	ctx := context.Background()
	stored := r.ts[0]

	got, err := r.Delete(ctx, "a")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, domain.TaskID("a"), got.ID)
	assert.NotSame(t, stored, got)

	got, err = r.Delete(ctx, "a")
	require.NoError(t, err)
	assert.Nil(t, got)

	ts, err := r.FindByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, ts, 1)
	assert.Equal(t, domain.TaskID("b"), ts[0].ID)
}

func TestTaskRepo_DeleteByUser(t *testing.T) {
	r := NewTaskRepo()
	seed(t, r,
		&domain.Task{ID: "a", UserID: "u1"},
		&domain.Task{ID: "b", UserID: "u2"},
		&domain.Task{ID: "c", UserID: "u1"},
		&domain.Task{ID: "d", UserID: "u2"},
	)
	ctx := context.Background()

	n, err := r.DeleteByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = r.DeleteByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	ts, err := r.FindByUser(ctx, "u2")
	require.NoError(t, err)
	require.Len(t, ts, 2)
	assert.Equal(t, domain.TaskID("b"), ts[0].ID)
	assert.Equal(t, domain.TaskID("d"), ts[1].ID)
}

func TestTaskRepo_ConcurrentCreate(t *testing.T) {
	r := NewTaskRepo()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = r.Create(ctx, &domain.Task{ID: domain.TaskID(fmt.Sprint(i)), UserID: "u1"})
		}(i)
	}
	wg.Wait()

	ts, err := r.FindByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, ts, 50)
}
