package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/campstats/internal/httpserver/deps"
)

type componentStatus struct {
	OK             bool   `json:"ok"`
	Source         string `json:"source,omitempty"`
	Generation     uint64 `json:"generation,omitempty"`
	PagesLoaded    *int   `json:"pages_loaded,omitempty"`
	LastFetch      string `json:"last_fetch,omitempty"`
	Fetches        uint64 `json:"fetches"`
	Failures       uint64 `json:"failures"`
	StaleDiscarded uint64 `json:"stale_discarded"`
	Mode           string `json:"mode,omitempty"`
	Impact         string `json:"impact,omitempty"`
	Error          string `json:"error,omitempty"`
}

type infraResponse struct {
	Mode       string                     `json:"mode"`
	Components map[string]componentStatus `json:"components"`
}

// Infra reports on the last navigation's metadata fetch and on redis.
func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		components := map[string]componentStatus{
			"metadata": metadataStatus(d),
		}
		if d.RedisClient != nil {
			components["redis"] = checkRedis(r.Context(), d)
		}

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(infraResponse{
			Mode:       determineMode(components),
			Components: components,
		})
	}
}

func metadataStatus(d deps.Deps) componentStatus {
	stats := d.Tracker.Stats()

	lastFetch := "never"
	if !stats.LastFetch.IsZero() {
		lastFetch = stats.LastFetch.Format("2006-01-02 15:04:05")
	}

	status := componentStatus{
		OK:             stats.Generation > 0 && stats.LastError == nil,
		Source:         d.MetadataSource,
		Generation:     stats.Generation,
		PagesLoaded:    &stats.Pages,
		LastFetch:      lastFetch,
		Fetches:        stats.Fetches,
		Failures:       stats.Failures,
		StaleDiscarded: stats.StaleDiscarded,
	}
	if stats.LastError != nil {
		status.Impact = "pages-rendered-without-figures"
		status.Error = stats.LastError.Error()
	}
	return status
}

// determineMode is "idle" until a navigation committed, "degraded" when
// something failed and "optimal" otherwise.
func determineMode(components map[string]componentStatus) string {
	if md, exists := components["metadata"]; exists && md.Generation == 0 && md.Error == "" {
		return "idle"
	}
	for _, c := range components {
		if !c.OK {
			return "degraded"
		}
	}
	return "optimal"
}

func checkRedis(ctx context.Context, d deps.Deps) componentStatus {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := d.RedisClient.Ping(ctx).Err(); err != nil {
		return componentStatus{
			OK:     false,
			Mode:   "degraded",
			Impact: "metadata-unavailable",
			Error:  err.Error(),
		}
	}

	return componentStatus{
		OK:   true,
		Mode: "optimal",
	}
}
