package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("TRACING_ENABLED", "true")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "collector:4317")
	t.Setenv("OTEL_SAMPLE_RATE", "0.25")
	t.Setenv("ENVIRONMENT", "staging")

	config := ConfigFromEnv("inventory-core")
	assert.True(t, config.Enabled)
	assert.Equal(t, "collector:4317", config.OTLPEndpoint)
	assert.Equal(t, 0.25, config.SampleRate)
	assert.Equal(t, "staging", config.Environment)
}

func TestInitialize_Disabled(t *testing.T) {
	tp, err := Initialize(context.Background(), DefaultConfig("inventory-core"))
	require.NoError(t, err)
	assert.NotNil(t, tp.Tracer())
	assert.NoError(t, tp.Shutdown(context.Background()))
}

func TestTracedOperation(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := Install(sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter)), "test")
	defer func() { _ = tp.Shutdown(context.Background()) }()

	var seenTrace string
	n, err := TracedOperation(context.Background(), tp.Tracer(), "audit.create", func(ctx context.Context) (int, error) {
		seenTrace = GetTraceID(ctx)
		return 2, nil
	}, attribute.Int("rows", 2))
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.NotEmpty(t, seenTrace)

	_, err = TracedOperation(context.Background(), tp.Tracer(), "audit.apply", func(context.Context) (int, error) {
		return 0, assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)

	spans := exporter.GetSpans()
	require.Len(t, spans, 2)
	assert.Equal(t, "audit.create", spans[0].Name)
	assert.Equal(t, codes.Ok, spans[0].Status.Code)
	assert.Equal(t, codes.Error, spans[1].Status.Code)
	assert.Empty(t, GetTraceID(context.Background()))
}
