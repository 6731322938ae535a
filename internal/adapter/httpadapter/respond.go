package httpadapter

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/small-engineer/go-web-serv/tasks/internal/domain"
)

const msgInternal = "internal server error"

// apiHandler writes its own success response and returns any failure.
type apiHandler func(w http.ResponseWriter, r *http.Request) error

func (s *Server) handle(h apiHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := h(w, r)
		if err == nil {
			return
		}

		code, msg := statusOf(err)
		lvl := slog.LevelWarn
		if code >= http.StatusInternalServerError {
			lvl = slog.LevelError
		}
		s.log.Log(r.Context(), lvl, "request failed",
			"code", code,
			"msg", msg,
			"err", err,
			"path", r.URL.Path,
			"method", r.Method,
			"req_id", middleware.GetReqID(r.Context()),
		)
		writeError(w, code, msg)
	}
}

// statusOf maps an error to a status code and a message for the client.
// Errors without a domain kind never reveal their text.
func statusOf(err error) (int, string) {
	var de *domain.Error
	if !errors.As(err, &de) {
		return http.StatusInternalServerError, msgInternal
	}
	switch {
	case errors.Is(de, domain.ErrValidation), errors.Is(de, domain.ErrConflict):
		return http.StatusBadRequest, de.Msg
	case errors.Is(de, domain.ErrUnauthorized):
		return http.StatusUnauthorized, de.Msg
	case errors.Is(de, domain.ErrNotFound):
		return http.StatusNotFound, de.Msg
	}
	return http.StatusInternalServerError, msgInternal
}

type errorBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, errorBody{Success: false, Message: msg})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"success":false,"message":"` + msgInternal + `"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(b)
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return domain.Validation("invalid JSON body")
	}
	return nil
}
