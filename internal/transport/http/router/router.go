package router

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type HealthHandler interface {
	Root(w http.ResponseWriter, r *http.Request)
	Health(w http.ResponseWriter, r *http.Request)
	Ready(w http.ResponseWriter, r *http.Request)
}

type AccountHandler interface {
	CreateAnonymous(w http.ResponseWriter, r *http.Request)
	Register(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
	Me(w http.ResponseWriter, r *http.Request)

	// Superuser only; the role check happens in the handler.
	CreateUser(w http.ResponseWriter, r *http.Request)
	DeleteUser(w http.ResponseWriter, r *http.Request)
}

type Deps struct {
	Health  HealthHandler
	Account AccountHandler

	RequestIDMW func(http.Handler) http.Handler
	RecoverMW   func(http.Handler) http.Handler
	AuthMW      func(http.Handler) http.Handler

	// MetricsMW is optional; when set, /metrics is exposed as well.
	MetricsMW func(http.Handler) http.Handler
}

func New(deps Deps) (http.Handler, error) {
	if deps.Health == nil {
		return nil, fmt.Errorf("nil Health handler")
	}
	if deps.Account == nil {
		return nil, fmt.Errorf("nil Account handler")
	}
	if deps.RequestIDMW == nil {
		return nil, fmt.Errorf("nil RequestID middleware")
	}
	if deps.RecoverMW == nil {
		return nil, fmt.Errorf("nil Recover middleware")
	}
	if deps.AuthMW == nil {
		return nil, fmt.Errorf("nil Auth middleware")
	}

	r := chi.NewRouter()
	r.Use(deps.RequestIDMW)
	r.Use(deps.RecoverMW)
	if deps.MetricsMW != nil {
		r.Use(deps.MetricsMW)
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Get("/", deps.Health.Root)
	r.Get("/health", deps.Health.Health)
	r.Get("/ready", deps.Health.Ready)

	r.Route("/api/users", func(r chi.Router) {
		r.Post("/", deps.Account.CreateAnonymous)
		r.Post("/login", deps.Account.Login)

		r.Group(func(r chi.Router) {
			r.Use(deps.AuthMW)

			r.Post("/register", deps.Account.Register)
			r.Get("/me", deps.Account.Me)
			r.Post("/create-user", deps.Account.CreateUser)
			r.Delete("/delete-user", deps.Account.DeleteUser)
		})
	})

	return r, nil
}
