package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/MrEthical07/taskauth"
	"github.com/MrEthical07/taskauth/middleware"
	"github.com/MrEthical07/taskauth/task"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-logr/logr"
)

// Deps are the collaborators of the router. Metrics and Ping are optional.
type Deps struct {
	Engine  *taskauth.Engine
	Tasks   *task.Service
	Metrics http.Handler
	Ping    func(ctx context.Context) (time.Duration, error)
	Log     logr.Logger
}

type api struct {
	engine *taskauth.Engine
	tasks  *task.Service
	ping   func(ctx context.Context) (time.Duration, error)
	log    logr.Logger
}

// NewRouter returns the HTTP handler for the whole API.
func NewRouter(d Deps) http.Handler {
	a := &api{
		engine: d.Engine,
		tasks:  d.Tasks,
		ping:   d.Ping,
		log:    d.Log.WithName("http"),
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.ClientIP)
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", a.healthz)
	if d.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", d.Metrics)
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/signup", a.signup)
		r.Post("/login", a.login)
		r.Post("/logout", a.logout)
		r.Get("/me", a.me)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireUser(d.Engine))
			r.Get("/tasks", a.listTasks)
			r.Post("/tasks", a.addTask)
			r.Post("/tasks/{id}/complete", a.completeTask)
			r.Delete("/tasks/{id}", a.deleteTask)
		})
	})

	return r
}
