package httpadapter

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/small-engineer/go-web-serv/tasks/internal/domain"
	"github.com/small-engineer/go-web-serv/tasks/internal/usecase/task"
)

type taskResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Task    *domain.Task `json:"task"`
}

type taskListResponse struct {
	Success bool           `json:"success"`
	Tasks   []*domain.Task `json:"tasks"`
}

type deleteAllResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	DeletedCount int    `json:"deletedCount"`
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) error {
	var req struct {
		UserID      string  `json:"userId"`
		Title       string  `json:"title"`
		Description string  `json:"description"`
		DueDate     *string `json:"dueDate"`
	}
	if err := decodeJSON(r, &req); err != nil {
		return err
	}

	in := task.CreateInput{
		UserID:      domain.UserID(req.UserID),
		Title:       req.Title,
		Description: req.Description,
	}
	if req.DueDate != nil {
		d, err := parseDueDate(*req.DueDate)
		if err != nil {
			return err
		}
		in.DueDate = d
	}

	t, err := s.tasks.Create(r.Context(), in)
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusCreated, taskResponse{
		Success: true,
		Message: "task created successfully",
		Task:    t,
	})
	return nil
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) error {
	uid := domain.UserID(chi.URLParam(r, "id"))
	q := r.URL.Query()
	f := domain.TaskFilter{
		Status: q.Get("status"),
		Search: q.Get("search"),
	}

	ts, err := s.tasks.ListByUser(r.Context(), uid, f)
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, taskListResponse{
		Success: true,
		Tasks:   ts,
	})
	return nil
}

func isNull(raw json.RawMessage) bool {
	return strings.TrimSpace(string(raw)) == "null"
}

// optString decodes a present, non-null field into a string.
func optString(body map[string]json.RawMessage, key string) (*string, error) {
	raw, ok := body[key]
	if !ok || isNull(raw) {
		return nil, nil
	}
	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, domain.Validation(fmt.Sprintf("%s must be a string", key))
	}
	return &v, nil
}

// decodePatch reads a partial update. Absent or null fields stay untouched,
// except dueDate where null clears the date.
func decodePatch(r *http.Request) (domain.TaskPatch, error) {
	var p domain.TaskPatch
	var body map[string]json.RawMessage
	if err := decodeJSON(r, &body); err != nil {
		return p, err
	}

	var err error
	if p.Title, err = optString(body, "title"); err != nil {
		return p, err
	}
	if p.Description, err = optString(body, "description"); err != nil {
		return p, err
	}

	if raw, ok := body["completed"]; ok && !isNull(raw) {
		var c bool
		if err := json.Unmarshal(raw, &c); err != nil {
			return p, domain.Validation("completed must be a boolean")
		}
		p.Completed = &c
	}

	if raw, ok := body["dueDate"]; ok {
		if isNull(raw) {
			p.ClearDueDate = true
			return p, nil
		}
		var v string
		if err := json.Unmarshal(raw, &v); err != nil {
			return p, domain.Validation("dueDate must be a string or null")
		}
		d, err := parseDueDate(v)
		if err != nil {
			return p, err
		}
		p.DueDate = d
		p.ClearDueDate = d == nil
	}
	return p, nil
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) error {
	id := domain.TaskID(chi.URLParam(r, "id"))
	p, err := decodePatch(r)
	if err != nil {
		return err
	}

	t, err := s.tasks.Update(r.Context(), id, p)
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, taskResponse{
		Success: true,
		Message: "task updated successfully",
		Task:    t,
	})
	return nil
}

func (s *Server) handleSetCompleted(w http.ResponseWriter, r *http.Request) error {
	id := domain.TaskID(chi.URLParam(r, "id"))
	var req struct {
		Completed any `json:"completed"`
	}
	if err := decodeJSON(r, &req); err != nil {
		return err
	}

	var completed *bool
	if b, ok := req.Completed.(bool); ok {
		completed = &b
	}

	t, err := s.tasks.SetCompleted(r.Context(), id, completed)
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, taskResponse{
		Success: true,
		Message: "task status updated successfully",
		Task:    t,
	})
	return nil
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) error {
	id := domain.TaskID(chi.URLParam(r, "id"))

	t, err := s.tasks.Delete(r.Context(), id)
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, taskResponse{
		Success: true,
		Message: "task deleted successfully",
		Task:    t,
	})
	return nil
}

func (s *Server) handleDeleteUserTasks(w http.ResponseWriter, r *http.Request) error {
	uid := domain.UserID(chi.URLParam(r, "userId"))

	n, err := s.tasks.DeleteAllByUser(r.Context(), uid)
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, deleteAllResponse{
		Success:      true,
		Message:      fmt.Sprintf("%d tasks deleted successfully", n),
		DeletedCount: n,
	})
	return nil
}
