package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/campstats/internal/httpserver/deps"
	"github.com/MrSnakeDoc/campstats/internal/httpserver/handlers"
)

func init() { Register(registerSummary, KnownHosts) }

func registerSummary(r chi.Router, d deps.Deps) {
	r.Get("/api/summary", handlers.Summary(d))
}
