package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/campstats/internal/httpserver/deps"
	"github.com/MrSnakeDoc/campstats/internal/httpserver/handlers"
)

func init() { Register(registerHealthz, InfraOnly) }

func registerHealthz(r chi.Router, d deps.Deps) {
	r.Get("/healthz", handlers.Healthz(d))
}
