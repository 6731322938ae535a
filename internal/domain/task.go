package domain

import (
	"strings"
	"time"
)

type TaskID string

type Task struct {
	ID          TaskID     `json:"id"`
	UserID      UserID     `json:"userId"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"dueDate"`
	Completed   bool       `json:"completed"`
	CreatedAt   time.Time  `json:"createdAt"`
}

const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
)

// TaskFilter narrows a task listing. Unknown Status values and an empty
// Search match everything.
type TaskFilter struct {
	Status string
	Search string
}

func (f TaskFilter) Match(t *Task) bool {
	switch f.Status {
	case StatusCompleted:
		if !t.Completed {
			return false
		}
	case StatusPending:
		if t.Completed {
			return false
		}
	}
	if f.Search != "" {
		return strings.Contains(strings.ToLower(t.Title), strings.ToLower(f.Search))
	}
	return true
}

// TaskPatch holds the fields of an update. A nil field is left untouched.
// ClearDueDate distinguishes an explicit null from an absent dueDate.
type TaskPatch struct {
	Title        *string
	Description  *string
	Completed    *bool
	DueDate      *time.Time
	ClearDueDate bool
}

func (p TaskPatch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	if p.ClearDueDate {
		t.DueDate = nil
	} else if p.DueDate != nil {
		d := *p.DueDate
		t.DueDate = &d
	}
}
