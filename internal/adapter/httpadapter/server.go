package httpadapter

import (
	"embed"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/small-engineer/go-web-serv/tasks/internal/usecase/auth"
	"github.com/small-engineer/go-web-serv/tasks/internal/usecase/task"
)

var (
	//go:embed static
	staticFS embed.FS
	//go:embed docs
	docsFS embed.FS
)

const (
	apiBasePath    = "/api"
	docsPath       = "/api-docs"
	requestTimeout = 30 * time.Second
)

type Server struct {
	auth    *auth.Service
	tasks   *task.Service
	log     *slog.Logger
	origins []string
}

func NewServer(a *auth.Service, t *task.Service, l *slog.Logger, origins []string) *Server {
	if l == nil {
		l = slog.Default()
	}
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return &Server{
		auth:    a,
		tasks:   t,
		log:     l,
		origins: origins,
	}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(cors.New(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
		},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler)

	r.Route(apiBasePath, func(r chi.Router) {
		r.Post("/register", s.handle(s.handleRegister))
		r.Post("/login", s.handle(s.handleLogin))

		r.Route("/tasks", func(r chi.Router) {
			r.Post("/", s.handle(s.handleCreateTask))
			// {id} is a user id for GET and a task id for the rest
			r.Get("/{id}", s.handle(s.handleListTasks))
			r.Put("/{id}", s.handle(s.handleUpdateTask))
			r.Patch("/{id}", s.handle(s.handleSetCompleted))
			r.Delete("/{id}", s.handle(s.handleDeleteTask))
			r.Delete("/user/{userId}", s.handle(s.handleDeleteUserTasks))
		})

		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			writeError(w, http.StatusNotFound, "route not found")
		})
		r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		})
	})

	r.Get("/healthz", handleHealthCheck)

	// OpenAPI document and its browser UI
	r.Get(docsPath, http.RedirectHandler(docsPath+"/", http.StatusMovedPermanently).ServeHTTP)
	r.Handle(docsPath+"/*", http.StripPrefix(docsPath, http.FileServer(http.FS(mustSub(docsFS, "docs")))))

	r.Handle("/*", http.FileServer(http.FS(mustSub(staticFS, "static"))))

	return r
}

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}

func handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// logRequests logs one line per request once the response is written.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.InfoContext(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"dur", time.Since(start),
			"req_id", middleware.GetReqID(r.Context()),
		)
	})
}
