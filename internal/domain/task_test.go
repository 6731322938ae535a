package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTaskFilter_Match(t *testing.T) {
	open := &Task{Title: "Buy Milk"}
	done := &Task{Title: "Walk the dog", Completed: true}

	tests := []struct {
		name   string
		f      TaskFilter
		open   bool
		closed bool
	}{
		{name: "no filter", f: TaskFilter{}, open: true, closed: true},
		{name: "pending", f: TaskFilter{Status: StatusPending}, open: true, closed: false},
		{name: "completed", f: TaskFilter{Status: StatusCompleted}, open: false, closed: true},
		{name: "unknown status", f: TaskFilter{Status: "archived"}, open: true, closed: true},
		{name: "search case-insensitive", f: TaskFilter{Search: "milk"}, open: true, closed: false},
		{name: "search upper", f: TaskFilter{Search: "DOG"}, open: false, closed: true},
		{name: "search and status", f: TaskFilter{Status: StatusPending, Search: "dog"}, open: false, closed: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.open, tt.f.Match(open))
			assert.Equal(t, tt.closed, tt.f.Match(done))
		})
	}
}

func TestTaskPatch_Apply(t *testing.T) {
	due := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	base := func() *Task {
		return &Task{Title: "a", Description: "b", DueDate: &due}
	}

	t.Run("empty patch keeps everything", func(t *testing.T) {
		tk := base()
		TaskPatch{}.Apply(tk)
		assert.Equal(t, base(), tk)
	})

	t.Run("only present fields change", func(t *testing.T) {
		tk := base()
		title := "new"
		done := true
		TaskPatch{Title: &title, Completed: &done}.Apply(tk)
		assert.Equal(t, "new", tk.Title)
		assert.Equal(t, "b", tk.Description)
		assert.True(t, tk.Completed)
		assert.Equal(t, due, *tk.DueDate)
	})

	t.Run("empty title is accepted", func(t *testing.T) {
		tk := base()
		empty := ""
		TaskPatch{Title: &empty}.Apply(tk)
		assert.Equal(t, "", tk.Title)
	})

	t.Run("clear due date", func(t *testing.T) {
		tk := base()
		TaskPatch{ClearDueDate: true}.Apply(tk)
		assert.Nil(t, tk.DueDate)
	})

	t.Run("due date is copied", func(t *testing.T) {
		tk := &Task{}
		d := due
		TaskPatch{DueDate: &d}.Apply(tk)
		d = d.Add(time.Hour)
		assert.Equal(t, due, *tk.DueDate)
	})
}
