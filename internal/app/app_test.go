package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/MrSnakeDoc/campstats/internal/config"
	"github.com/MrSnakeDoc/campstats/internal/logger"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		ListenPort:        ":0",
		DocsDir:           t.TempDir(),
		MetadataSource:    config.SourceFile,
		MetadataLocation:  "metadata.yaml",
		CategoryCanvasID:  "category-doughnut-canvas",
		ShareBasis:        config.ShareBasisCategorized,
		TechCloudMaxWords: 50,
		Trace:             config.TraceNone,
	}
}

func TestNewInstallsTracerProvider(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	cfg := testConfig(t)
	cfg.Trace = config.TraceStdout

	a, err := New(cfg, logger.NewNop())
	require.NoError(t, err)

	assert.IsType(t, &sdktrace.TracerProvider{}, otel.GetTracerProvider())
	assert.NoError(t, a.stopTracing(context.Background()))
}

func TestNewRejectsUnknownTraceExporter(t *testing.T) {
	cfg := testConfig(t)
	cfg.Trace = "zipkin"

	_, err := New(cfg, logger.NewNop())
	assert.ErrorContains(t, err, "zipkin")
}
