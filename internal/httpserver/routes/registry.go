package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/campstats/internal/httpserver/deps"
	"github.com/MrSnakeDoc/campstats/internal/httpserver/mw"
)

type (
	Registrar  func(r chi.Router, d deps.Deps)
	Middleware = func(http.Handler) http.Handler

	// Guard builds a middleware once the deps are known. Registrars are
	// collected from init(), before any config exists.
	Guard func(d deps.Deps) Middleware
)

type group struct {
	reg    Registrar
	guards []Guard
}

var registry []group

// Register adds a route group. Guards wrap every route the registrar mounts, in order.
func Register(reg Registrar, guards ...Guard) {
	registry = append(registry, group{reg: reg, guards: guards})
}

// RegisterAll mounts every registered group on r. Called once from httpserver.NewRouter.
func RegisterAll(r chi.Router, d deps.Deps) {
	for _, g := range registry {
		if len(g.guards) == 0 {
			g.reg(r, d)
			continue
		}
		mws := make([]Middleware, 0, len(g.guards))
		for _, guard := range g.guards {
			mws = append(mws, guard(d))
		}
		g.reg(r.With(mws...), d)
	}
}

// InfraOnly restricts a group to AllowedCIDRS.
func InfraOnly(d deps.Deps) Middleware {
	return mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger)
}

// KnownHosts restricts a group to AllowedHosts.
func KnownHosts(d deps.Deps) Middleware {
	return mw.EnforceHost(d.AllowedHosts, d.Logger)
}

// PageRateLimit applies the per-client page budget. Every page render may fetch metadata.
func PageRateLimit(d deps.Deps) Middleware {
	return mw.RateLimit(mw.RateLimitConfig{
		Burst:             d.RateLimitBurst,
		RefillPerIPPerMin: d.RateLimitPerMinute,
		MaxEntries:        10000,
		TrustProxy:        d.TrustProxy,
	})
}
