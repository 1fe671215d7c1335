package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/MrSnakeDoc/campstats/internal/domain"
	"github.com/MrSnakeDoc/campstats/internal/httpserver/deps"
	"github.com/MrSnakeDoc/campstats/internal/logger"
)

type errorResponse struct {
	Error string `json:"error"`
}

// Summary fetches the metadata and returns every derived figure as JSON.
func Summary(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")

		m, err := d.Provider.Fetch(r.Context())
		if err != nil {
			d.Logger.Error("failed to fetch metadata for summary", logger.Error(err))
			w.WriteHeader(http.StatusBadGateway)
			_ = json.NewEncoder(w).Encode(errorResponse{Error: "metadata unavailable"})
			return
		}

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(domain.Summarize(m))
	}
}
