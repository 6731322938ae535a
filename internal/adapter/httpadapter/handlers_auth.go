package httpadapter

import (
	"net/http"

	"github.com/small-engineer/go-web-serv/tasks/internal/domain"
)

type userResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	User    domain.PublicUser `json:"user"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) error {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		return err
	}

	u, err := s.auth.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusCreated, userResponse{
		Success: true,
		Message: "user registered successfully",
		User:    u.Public(),
	})
	return nil
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		return err
	}

	u, err := s.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, userResponse{
		Success: true,
		Message: "login successful",
		User:    u.Public(),
	})
	return nil
}
