package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/campstats/internal/httpserver/deps"
	"github.com/MrSnakeDoc/campstats/internal/httpserver/handlers"
)

func init() { Register(registerPages, KnownHosts, PageRateLimit) }

func registerPages(r chi.Router, d deps.Deps) {
	r.Get("/*", handlers.Page(d))
}
