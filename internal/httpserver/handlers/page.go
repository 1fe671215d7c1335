package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/MrSnakeDoc/campstats/internal/domain"
	"github.com/MrSnakeDoc/campstats/internal/httpserver/deps"
	"github.com/MrSnakeDoc/campstats/internal/logger"
	"github.com/MrSnakeDoc/campstats/internal/site"
)

// Page serves one docs page as a navigation: fetch the metadata, render the
// markdown, then let the route's renderer fill the placeholders.
func Page(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		path := r.URL.Path
		log := d.Logger.With(
			logger.String("path", path),
			logger.String("request_id", middleware.GetReqID(ctx)))

		markdown, err := d.Site.Load(path)
		if err != nil {
			if errors.Is(err, site.ErrPageNotFound) {
				log.Debug("page not found", logger.Error(err))
				http.NotFound(w, r)
				return
			}
			log.Error("failed to load page", logger.Error(err))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		nav := d.Hook.BeforeEach(ctx, markdown)
		log = log.With(logger.String("navigation_id", nav.ID))

		doc, err := d.Site.Render(nav.Markdown)
		if err != nil {
			log.Error("failed to render page", logger.Error(err))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		route := domain.ParseRoute(path)
		if err := d.Hook.DoneEach(ctx, nav, route, doc); err != nil {
			log.Error("failed to fill page placeholders",
				logger.String("route", route.String()),
				logger.Error(err))
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		html, err := doc.HTML()
		if err != nil {
			log.Error("failed to serialize page", logger.Error(err))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(html))
	}
}
