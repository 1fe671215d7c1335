package mw

import (
	"net/http"

	"github.com/MrSnakeDoc/campstats/internal/logger"
	"github.com/MrSnakeDoc/campstats/internal/utils"
)

// AllowOnlyCIDRS guards the infra endpoints (healthz, readyz, infra) so that only
// clients inside one of the allowed IPs or CIDRs reach them. An empty list disables the guard.
// trustProxy resolves the client from proxy headers, as for the page rate limit.
func AllowOnlyCIDRS(allowed []string, trustProxy bool, log logger.Logger) func(http.Handler) http.Handler {
	m := utils.NewIPMatcher(allowed)
	if m.IsEmpty() {
		return func(next http.Handler) http.Handler { return next }
	}

	log = log.With(logger.String("guard", "cidr"), logger.Int("rules", len(allowed)))
	log.Debug("infra endpoints restricted", logger.Bool("trust_proxy", trustProxy))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := utils.ClientIP(r, trustProxy)
			if m.Allow(ip) {
				next.ServeHTTP(w, r)
				return
			}

			log.Warn("infra request rejected",
				logger.String("ip", ip),
				logger.String("remote_addr", r.RemoteAddr),
				logger.String("path", r.URL.Path),
			)
			http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		})
	}
}
