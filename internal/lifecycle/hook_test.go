package lifecycle

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/MrSnakeDoc/campstats/internal/config"
	"github.com/MrSnakeDoc/campstats/internal/domain"
	"github.com/MrSnakeDoc/campstats/internal/logger"
	"github.com/MrSnakeDoc/campstats/internal/page"
	"github.com/MrSnakeDoc/campstats/internal/snapshot"
	"github.com/MrSnakeDoc/campstats/internal/sources/metadata"
)

const homeHTML = `<html><body><canvas id="category-doughnut-canvas"></canvas></body></html>`

const statsHTML = `<html><body>
<span id="ch1"></span><span id="ch1-weeks"></span>
<span id="total-hours"></span><span id="total-weeks"></span>
<div id="tech-cloud"></div>
</body></html>`

func sample() domain.Metadata {
	return domain.Metadata{
		"docs/ch1/a.md": {
			Category:          domain.Ptr("X"),
			EstReadingMinutes: domain.Ptr(10.0),
			Exercises: []domain.Exercise{
				{EstMinutes: domain.Ptr(30.0), Technologies: []string{"js"}},
			},
		},
		"docs/ch1/b.md": {
			Category:          domain.Ptr("Y"),
			EstReadingMinutes: domain.Ptr(20.0),
			Exercises: []domain.Exercise{
				{Technologies: []string{"js", "py"}},
			},
		},
	}
}

func staticProvider(m domain.Metadata) metadata.Provider {
	return metadata.ProviderFunc(func(context.Context) (domain.Metadata, error) { return m, nil })
}

func failingProvider(err error) metadata.Provider {
	return metadata.ProviderFunc(func(context.Context) (domain.Metadata, error) { return nil, err })
}

func parse(t *testing.T, html string) *page.Document {
	t.Helper()
	doc, err := page.ParseString(html)
	require.NoError(t, err)
	return doc
}

func TestBeforeEachCarriesMetadata(t *testing.T) {
	tracker := snapshot.New()
	h := New(staticProvider(sample()), tracker, logger.NewNop(), Options{})

	nav := h.BeforeEach(context.Background(), "# hello")

	require.NotNil(t, nav)
	assert.NotEmpty(t, nav.ID)
	assert.Equal(t, uint64(1), nav.Generation)
	assert.Equal(t, "# hello", nav.Markdown)
	assert.Len(t, nav.Metadata, 2)
	assert.NoError(t, nav.FetchErr)

	m, gen := tracker.Metadata()
	assert.Equal(t, uint64(1), gen)
	assert.Len(t, m, 2)
}

func TestBeforeEachSurvivesFetchFailure(t *testing.T) {
	boom := errors.New("network down")
	tracker := snapshot.New()
	h := New(failingProvider(boom), tracker, logger.NewNop(), Options{})

	nav := h.BeforeEach(context.Background(), "")

	assert.Nil(t, nav.Metadata)
	assert.ErrorIs(t, nav.FetchErr, boom)
	assert.Equal(t, uint64(1), tracker.Stats().Failures)

	// the page still renders, without figures
	doc := parse(t, homeHTML)
	require.NoError(t, h.DoneEach(context.Background(), nav, domain.RouteHome, doc))
	assert.Equal(t, 0, doc.Find("script[data-chart-for]").Length())
}

func TestNavigationIDsAreUnique(t *testing.T) {
	h := New(staticProvider(sample()), nil, logger.NewNop(), Options{})

	a := h.BeforeEach(context.Background(), "")
	b := h.BeforeEach(context.Background(), "")

	assert.NotEqual(t, a.ID, b.ID)
	assert.Less(t, a.Generation, b.Generation)
}

func TestStaleFetchIsDiscarded(t *testing.T) {
	old := domain.Metadata{"docs/old/a.md": {}}
	fresh := sample()

	release := make(chan struct{})
	started := make(chan struct{})
	var calls atomic.Int32

	provider := metadata.ProviderFunc(func(context.Context) (domain.Metadata, error) {
		if calls.Add(1) == 1 {
			close(started)
			<-release
			return old, nil
		}
		return fresh, nil
	})

	tracker := snapshot.New()
	h := New(provider, tracker, logger.NewNop(), Options{})

	done := make(chan *Navigation)
	go func() { done <- h.BeforeEach(context.Background(), "") }()
	<-started

	second := h.BeforeEach(context.Background(), "")
	close(release)
	first := <-done

	// each navigation keeps what it fetched
	assert.Equal(t, old, first.Metadata)
	assert.Equal(t, fresh, second.Metadata)

	m, gen := tracker.Metadata()
	assert.Equal(t, second.Generation, gen)
	assert.Equal(t, fresh, m)
	assert.Equal(t, uint64(1), tracker.Stats().StaleDiscarded)
}

func TestDoneEachHome(t *testing.T) {
	h := New(staticProvider(sample()), nil, logger.NewNop(), Options{})
	nav := h.BeforeEach(context.Background(), "")
	doc := parse(t, homeHTML)

	require.NoError(t, h.DoneEach(context.Background(), nav, domain.RouteHome, doc))

	cfg := doc.Find(`script[data-chart-for="category-doughnut-canvas"]`)
	require.Equal(t, 1, cfg.Length())
	assert.Contains(t, cfg.Text(), `"doughnut"`)
	assert.Contains(t, cfg.Text(), "X: 66%")
	assert.Contains(t, cfg.Text(), "Y: 33%")
}

func TestDoneEachHomeShareBasisAll(t *testing.T) {
	m := sample()
	m["docs/ch2/uncategorized.md"] = domain.PageRecord{EstReadingMinutes: domain.Ptr(60.0)}

	h := New(staticProvider(m), nil, logger.NewNop(), Options{ShareBasis: config.ShareBasisAll})
	nav := h.BeforeEach(context.Background(), "")
	doc := parse(t, homeHTML)

	require.NoError(t, h.DoneEach(context.Background(), nav, domain.RouteHome, doc))

	text := doc.Find(`script[data-chart-for="category-doughnut-canvas"]`).Text()
	assert.Contains(t, text, "X: 33%")
	assert.Contains(t, text, "Y: 16%")
}

func TestDoneEachStats(t *testing.T) {
	h := New(staticProvider(sample()), nil, logger.NewNop(), Options{})
	nav := h.BeforeEach(context.Background(), "")
	doc := parse(t, statsHTML)

	require.NoError(t, h.DoneEach(context.Background(), nav, domain.RouteStats, doc))

	for id, want := range map[string]string{
		"ch1":         "1",
		"ch1-weeks":   "1",
		"total-hours": "1",
		"total-weeks": "1",
	} {
		got, err := doc.Text(id)
		require.NoError(t, err)
		assert.Equal(t, want, got, id)
	}

	color, err := doc.Style("total-hours", "color")
	require.NoError(t, err)
	assert.Equal(t, "green", color)

	// the cloud is off unless configured
	html, err := doc.HTML()
	require.NoError(t, err)
	assert.NotContains(t, html, "js</span>")
}

func TestDoneEachStatsWithCloud(t *testing.T) {
	h := New(staticProvider(sample()), nil, logger.NewNop(), Options{TechCloudTarget: "tech-cloud"})
	nav := h.BeforeEach(context.Background(), "")
	doc := parse(t, statsHTML)

	require.NoError(t, h.DoneEach(context.Background(), nav, domain.RouteStats, doc))

	words := doc.Find(`[id="tech-cloud"] span`)
	assert.Equal(t, 2, words.Length())
}

func TestDoneEachStatsMissingPlaceholder(t *testing.T) {
	h := New(staticProvider(sample()), nil, logger.NewNop(), Options{})
	nav := h.BeforeEach(context.Background(), "")
	doc := parse(t, `<html><body><span id="total-hours"></span></body></html>`)

	err := h.DoneEach(context.Background(), nav, domain.RouteStats, doc)

	require.Error(t, err)
	assert.ErrorIs(t, err, page.ErrElementNotFound)
	assert.True(t, strings.Contains(err.Error(), "ch1"))
}

func TestDoneEachOtherRouteIsNoop(t *testing.T) {
	h := New(staticProvider(sample()), nil, logger.NewNop(), Options{})
	nav := h.BeforeEach(context.Background(), "")
	doc := parse(t, homeHTML)
	before, err := doc.HTML()
	require.NoError(t, err)

	require.NoError(t, h.DoneEach(context.Background(), nav, domain.RouteOther, doc))

	after, err := doc.HTML()
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestDoneEachHomeDoesNotRenderStats(t *testing.T) {
	h := New(staticProvider(sample()), nil, logger.NewNop(), Options{})
	nav := h.BeforeEach(context.Background(), "")
	doc := parse(t, statsHTML+homeHTML)

	require.NoError(t, h.DoneEach(context.Background(), nav, domain.RouteHome, doc))

	got, err := doc.Text("total-hours")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func recordSpans(t *testing.T) (*tracetest.SpanRecorder, Options) {
	t.Helper()
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return rec, Options{TracerProvider: tp}
}

func spanAttr(span sdktrace.ReadOnlySpan, key attribute.Key) (attribute.Value, bool) {
	for _, kv := range span.Attributes() {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestNavigationIsTraced(t *testing.T) {
	rec, opts := recordSpans(t)
	h := New(staticProvider(sample()), nil, logger.NewNop(), opts)

	nav := h.BeforeEach(context.Background(), "")
	require.NoError(t, h.DoneEach(context.Background(), nav, domain.RouteHome, parse(t, homeHTML)))

	spans := rec.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "lifecycle.BeforeEach", spans[0].Name())
	assert.Equal(t, "lifecycle.DoneEach", spans[1].Name())

	for _, span := range spans {
		id, ok := spanAttr(span, "navigation.id")
		require.True(t, ok, "%s has no navigation.id", span.Name())
		assert.Equal(t, nav.ID, id.AsString())
		assert.Equal(t, tracerName, span.InstrumentationScope().Name)
	}

	gen, ok := spanAttr(spans[0], "navigation.generation")
	require.True(t, ok)
	assert.Equal(t, int64(nav.Generation), gen.AsInt64())

	pages, ok := spanAttr(spans[0], "metadata.pages")
	require.True(t, ok)
	assert.Equal(t, int64(2), pages.AsInt64())

	route, ok := spanAttr(spans[1], "route")
	require.True(t, ok)
	assert.Equal(t, domain.RouteHome.String(), route.AsString())
}

func TestFetchFailureMarksSpan(t *testing.T) {
	rec, opts := recordSpans(t)
	h := New(failingProvider(errors.New("network down")), nil, logger.NewNop(), opts)

	h.BeforeEach(context.Background(), "")

	spans := rec.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	require.NotEmpty(t, spans[0].Events(), "error was not recorded")
	assert.Equal(t, "exception", spans[0].Events()[0].Name)
}
