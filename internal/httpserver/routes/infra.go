package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/campstats/internal/httpserver/deps"
	"github.com/MrSnakeDoc/campstats/internal/httpserver/handlers"
)

func init() { Register(registerInfra, InfraOnly) }

func registerInfra(r chi.Router, d deps.Deps) {
	r.Get("/infra", handlers.Infra(d))
}
