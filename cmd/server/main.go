package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/small-engineer/go-web-serv/tasks/internal/adapter/httpadapter"
	"github.com/small-engineer/go-web-serv/tasks/internal/config"
	infra "github.com/small-engineer/go-web-serv/tasks/internal/infra/db"
	"github.com/small-engineer/go-web-serv/tasks/internal/infra/mem"
	"github.com/small-engineer/go-web-serv/tasks/internal/usecase/auth"
	"github.com/small-engineer/go-web-serv/tasks/internal/usecase/task"

	_ "github.com/go-sql-driver/mysql"
)

const (
	devEnvFile    = ".env.dev"
	dbPingTimeout = 5 * time.Second
)

func newDB(ctx context.Context, dsn string) (*sql.DB, error) {
	dsn, err := infra.NormalizeDSN(dsn)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, dbPingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	if err := infra.EnsureSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// repos picks the MySQL stores when a DSN is configured and the in-memory
// ones otherwise. The returned closer is never nil.
func repos(ctx context.Context, cfg *config.Config, log *slog.Logger) (auth.UserRepo, task.Repo, func() error, error) {
	if cfg.DatabaseDSN == "" {
		log.Info("using in-memory stores")
		return mem.NewUserRepo(), mem.NewTaskRepo(), func() error { return nil }, nil
	}
	db, err := newDB(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("db init: %w", err)
	}
	log.Info("using mysql stores")
	return infra.NewUserRepo(db), infra.NewTaskRepo(db), db.Close, nil
}

func run(ctx context.Context, log *slog.Logger) error {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		return err
	}

	ur, tr, closeDB, err := repos(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeDB()

	as, err := auth.NewService(ur, cfg.BcryptCost)
	if err != nil {
		return err
	}
	ts := task.NewService(tr, ur)
	s := httpadapter.NewServer(as, ts, log, cfg.AllowedOrigins)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info("start server", "addr", cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(sctx)
}

func main() {
	// a missing dev file is fine; real env vars win over it
	_ = godotenv.Load(devEnvFile)

	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, log); err != nil {
		log.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
