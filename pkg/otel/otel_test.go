package otel

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"orderms/pkg/logger"
)

func TestAddSpanUsesInjectedTracer(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	ctx := InjectTracing(context.Background(), tp.Tracer("test"))

	ctx, span := AddSpan(ctx, "work")
	assert.NotEmpty(t, GetTraceID(ctx))
	span.End()

	ended := rec.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "work", ended[0].Name())
}

func TestGetTraceIDWithoutSpan(t *testing.T) {
	assert.Empty(t, GetTraceID(context.Background()))
}

func TestInitTracingWithoutHostIsNoop(t *testing.T) {
	tp, shutdown, err := InitTracing(logger.NewNop(), Config{ServiceName: "orderms"})
	require.NoError(t, err)
	require.NotNil(t, tp)
	assert.NoError(t, shutdown(context.Background()))
}

func TestExtractHTTP(t *testing.T) {
	_, _, err := InitTracing(logger.NewNop(), Config{ServiceName: "orderms"})
	require.NoError(t, err)

	h := http.Header{}
	h.Set("traceparent", "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01")
	ctx := ExtractHTTP(context.Background(), h)
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", GetTraceID(ctx))
}

func TestAddSpanSetsAttributesAtStart(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	ctx := InjectTracing(context.Background(), tp.Tracer("test"))

	_, span := AddSpan(ctx, "work", semconv.URLPath("/v1/orders"))
	span.End()

	require.Len(t, rec.Ended(), 1)
	assert.Contains(t, rec.Ended()[0].Attributes(), semconv.URLPath("/v1/orders"))
}

func excludingTracer(rec *tracetest.SpanRecorder) context.Context {
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.ParentBased(newEndpointExcluder(map[string]struct{}{"/health": {}}, 1))),
		sdktrace.WithSpanProcessor(rec),
	)
	return InjectTracing(context.Background(), tp.Tracer("test"))
}

func TestEndpointExcluder(t *testing.T) {
	t.Run("excluded route is dropped with its children", func(t *testing.T) {
		rec := tracetest.NewSpanRecorder()
		ctx := excludingTracer(rec)

		hctx, span := AddSpan(ctx, "GET /health", semconv.URLPath("/health"))
		assert.False(t, span.SpanContext().IsSampled())
		_, child := AddSpan(hctx, "child")
		assert.False(t, child.SpanContext().IsSampled())
		child.End()
		span.End()

		assert.Empty(t, rec.Ended())
	})

	t.Run("other routes are sampled", func(t *testing.T) {
		rec := tracetest.NewSpanRecorder()
		ctx := excludingTracer(rec)

		_, span := AddSpan(ctx, "GET /v1/orders/{id}", semconv.URLPath("/v1/orders/abc"))
		assert.True(t, span.SpanContext().IsSampled())
		span.End()

		require.Len(t, rec.Ended(), 1)
	})

	t.Run("legacy http.target is honoured", func(t *testing.T) {
		ctx := excludingTracer(tracetest.NewSpanRecorder())
		_, span := AddSpan(ctx, "GET /health", attribute.String("http.target", "/health"))
		defer span.End()
		assert.False(t, span.SpanContext().IsSampled())
	})

	t.Run("zero probability drops everything", func(t *testing.T) {
		s := newEndpointExcluder(nil, 0)
		res := s.ShouldSample(sdktrace.SamplingParameters{
			ParentContext: context.Background(),
			TraceID:       trace.TraceID{1},
			Name:          "x",
		})
		assert.Equal(t, sdktrace.Drop, res.Decision)
	})
}
