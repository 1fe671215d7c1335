// Package lifecycle runs the two phases of a page navigation: fetching the
// bootcamp metadata before the page is rendered, and filling the rendered page
// with charts and figures afterwards.
package lifecycle

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/MrSnakeDoc/campstats/internal/config"
	"github.com/MrSnakeDoc/campstats/internal/domain"
	"github.com/MrSnakeDoc/campstats/internal/logger"
	"github.com/MrSnakeDoc/campstats/internal/page"
	"github.com/MrSnakeDoc/campstats/internal/render"
	"github.com/MrSnakeDoc/campstats/internal/snapshot"
	"github.com/MrSnakeDoc/campstats/internal/sources/metadata"
)

const tracerName = "github.com/MrSnakeDoc/campstats/internal/lifecycle"

// Options selects what the renderers draw.
type Options struct {
	CategoryCanvasID string              // canvas of the home page doughnut
	ShareBasis       string              // config.ShareBasisCategorized or config.ShareBasisAll
	TechCloudTarget  string              // empty disables the experimental technology cloud
	Cloud            render.CloudOptions // bounds of the technology cloud

	// TracerProvider receives the navigation spans. nil means the global provider.
	TracerProvider trace.TracerProvider
}

// OptionsFromConfig maps the service configuration onto hook options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		CategoryCanvasID: cfg.CategoryCanvasID,
		ShareBasis:       cfg.ShareBasis,
		TechCloudTarget:  cfg.TechCloudTarget,
		Cloud:            render.CloudOptions{MaxWords: cfg.TechCloudMaxWords},
	}
}

// Navigation is the state of one page load. It is created by BeforeEach and
// handed explicitly to DoneEach.
type Navigation struct {
	ID         string
	Generation uint64
	Markdown   string
	Metadata   domain.Metadata // nil when the fetch failed
	FetchErr   error
}

// Hook glues the metadata provider to the renderers.
type Hook struct {
	provider metadata.Provider
	tracker  *snapshot.Tracker
	logger   logger.Logger
	opts     Options
	tracer   trace.Tracer
}

// New creates a hook. tracker may be nil when nobody reports on snapshots.
func New(provider metadata.Provider, tracker *snapshot.Tracker, log logger.Logger, opts Options) *Hook {
	if opts.CategoryCanvasID == "" {
		opts.CategoryCanvasID = "category-doughnut-canvas"
	}
	if opts.ShareBasis == "" {
		opts.ShareBasis = config.ShareBasisCategorized
	}
	if tracker == nil {
		tracker = snapshot.New()
	}
	tp := opts.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return &Hook{
		provider: provider,
		tracker:  tracker,
		logger:   log,
		opts:     opts,
		tracer:   tp.Tracer(tracerName),
	}
}

// BeforeEach fetches the metadata for a new navigation. It never fails: a fetch
// error is logged and the navigation continues without metadata.
func (h *Hook) BeforeEach(ctx context.Context, markdown string) *Navigation {
	nav := &Navigation{
		ID:         uuid.NewString(),
		Generation: h.tracker.Begin(),
		Markdown:   markdown,
	}

	ctx, span := h.tracer.Start(ctx, "lifecycle.BeforeEach", trace.WithAttributes(
		attribute.String("navigation.id", nav.ID),
		attribute.Int64("navigation.generation", int64(nav.Generation)),
	))
	defer span.End()

	m, err := h.provider.Fetch(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "metadata fetch failed")
		h.logger.Error("failed to fetch bootcamp metadata, rendering without it",
			logger.String("navigation_id", nav.ID),
			logger.Error(err))
		nav.FetchErr = err
	} else {
		nav.Metadata = m
		span.SetAttributes(attribute.Int("metadata.pages", len(m)))
	}

	if !h.tracker.Commit(nav.Generation, nav.Metadata, err) {
		h.logger.Debug("discarding metadata of a superseded navigation",
			logger.String("navigation_id", nav.ID),
			logger.Uint64("generation", nav.Generation))
	}

	return nav
}

// DoneEach draws on the rendered page whatever the route needs. A missing
// placeholder is returned as an error (wrapping page.ErrElementNotFound).
func (h *Hook) DoneEach(ctx context.Context, nav *Navigation, route domain.Route, doc *page.Document) error {
	_, span := h.tracer.Start(ctx, "lifecycle.DoneEach", trace.WithAttributes(
		attribute.String("navigation.id", nav.ID),
		attribute.String("route", route.String()),
	))
	defer span.End()

	if nav.Metadata == nil {
		if route != domain.RouteOther {
			h.logger.Warn("no bootcamp metadata, skipping page figures",
				logger.String("navigation_id", nav.ID),
				logger.String("route", route.String()))
		}
		return nil
	}

	var err error
	switch route {
	case domain.RouteHome:
		err = h.renderHome(nav.Metadata, doc)
	case domain.RouteStats:
		err = h.renderStats(nav.Metadata, doc)
	case domain.RouteOther:
	default:
		err = fmt.Errorf("unhandled route %v", route)
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "render failed")
		return fmt.Errorf("failed to render %s page: %w", route, err)
	}
	return nil
}

func (h *Hook) renderHome(m domain.Metadata, doc *page.Document) error {
	totals := domain.CategoryTotals(m)

	total := domain.CategorizedMinutes(totals)
	if h.opts.ShareBasis == config.ShareBasisAll {
		total = domain.GrandTotalMinutes(m)
	}

	return render.CategoryBreakdown(doc, h.opts.CategoryCanvasID, totals, total)
}

func (h *Hook) renderStats(m domain.Metadata, doc *page.Document) error {
	if err := render.ChapterHours(doc, domain.ChapterTotals(m)); err != nil {
		return err
	}

	hours := domain.MinutesToHours(domain.GrandTotalMinutes(m))
	weeks := domain.HoursToWeeks(hours)
	if err := render.BootcampSummary(doc, hours, weeks, domain.StatusForWeeks(weeks)); err != nil {
		return err
	}

	if h.opts.TechCloudTarget != "" {
		return render.TechnologyCloud(doc, h.opts.TechCloudTarget, domain.TechnologyCounts(m), h.opts.Cloud)
	}
	return nil
}
