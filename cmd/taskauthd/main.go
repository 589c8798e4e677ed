// Command taskauthd serves the task tracker API over HTTP with cookie
// sessions backed by Redis or PostgreSQL, selected by STORE_URL.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MrEthical07/taskauth"
	"github.com/MrEthical07/taskauth/internal/config"
	"github.com/MrEthical07/taskauth/internal/httpapi"
	"github.com/MrEthical07/taskauth/metrics/export/prometheus"
	"github.com/MrEthical07/taskauth/session"
	"github.com/MrEthical07/taskauth/storage/gormstore"
	"github.com/MrEthical07/taskauth/task"
	"github.com/MrEthical07/taskauth/user"
	"github.com/go-logr/logr"
	"github.com/redis/go-redis/v9"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "taskauthd: %v\n", err)
		os.Exit(1)
	}
}

type backend struct {
	sessions session.Store
	users    user.Store
	tasks    task.Store
	ping     func(context.Context) (time.Duration, error)
	close    func() error
}

func openBackend(cfg *config.Config) (*backend, error) {
	kind, err := cfg.Store()
	if err != nil {
		return nil, err
	}
	switch kind {
	case config.StoreRedis:
		opts, err := redis.ParseURL(cfg.StoreURL)
		if err != nil {
			return nil, fmt.Errorf("parse STORE_URL: %w", err)
		}
		client := redis.NewClient(opts)
		sessions := session.NewRedisStore(client, session.DefaultPrefix)
		return &backend{
			sessions: sessions,
			users:    user.NewRedisStore(client, user.DefaultPrefix),
			tasks:    task.NewRedisStore(client, task.DefaultPrefix),
			ping:     sessions.Ping,
			close:    client.Close,
		}, nil
	case config.StorePostgres:
		db := gormstore.NewPostgres(cfg.StoreURL)
		return &backend{
			sessions: db.Sessions(),
			users:    db.Users(),
			tasks:    db.Tasks(),
			ping:     db.Ping,
			close:    db.Close,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported store %q", kind)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logr.FromSlogHandler(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))

	store, err := openBackend(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.close(); err != nil {
			log.Error(err, "store close failed")
		}
	}()

	builder := taskauth.New().
		WithConfig(cfg.Engine()).
		WithSessionStore(store.sessions).
		WithUserStore(store.users).
		WithLogger(log)
	if cfg.AuditEnabled {
		builder = builder.WithAuditSink(taskauth.NewLogSink(log))
	}
	engine, err := builder.Build()
	if err != nil {
		return fmt.Errorf("build engine: %w", err)
	}
	defer engine.Close()

	report := engine.SecurityReport()
	log.Info("engine ready",
		"algorithm", report.SigningAlgorithm,
		"sessionLifetime", report.SessionLifetime.String(),
		"bcryptCost", report.BcryptCost,
		"cookieHardened", report.CookieHardened,
	)
	for _, w := range report.Warnings {
		log.Info("security warning", "warning", w)
	}

	srv := &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: httpapi.NewRouter(httpapi.Deps{
			Engine:  engine,
			Tasks:   task.NewService(store.tasks),
			Metrics: prometheus.NewPrometheusExporter(engine).Handler(),
			Ping:    store.ping,
			Log:     log,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
