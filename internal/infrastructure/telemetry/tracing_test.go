package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func installRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})
	return recorder
}

func TestStartServiceSpan(t *testing.T) {
	recorder := installRecorder(t)

	ctx, span := StartServiceSpan(context.Background(), "lease_reconciler", "expire_overdue",
		WithAttribute(SpanAttrDryRun, true))
	assert.NotEmpty(t, GetTraceID(ctx))
	SetAttributes(span, SpanAttrPropertyID, "p-1", 42, "ignored", "expired", 3)
	AddEvent(span, "lease_expired", SpanAttrLeaseID, "l-1")
	RecordError(span, errors.New("boom"))
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	s := ended[0]
	assert.Equal(t, "lease_reconciler.expire_overdue", s.Name())
	assert.Equal(t, trace.SpanKindInternal, s.SpanKind())
	assert.Equal(t, codes.Error, s.Status().Code)
	assert.Contains(t, s.Attributes(), attribute.Bool(SpanAttrDryRun, true))
	assert.Contains(t, s.Attributes(), attribute.String(SpanAttrPropertyID, "p-1"))
	assert.Contains(t, s.Attributes(), attribute.Int("expired", 3))

	names := make([]string, 0, len(s.Events()))
	for _, e := range s.Events() {
		names = append(names, e.Name)
	}
	assert.Contains(t, names, "lease_expired")
}

func TestSpanHelpers_NilSafe(t *testing.T) {
	assert.NotPanics(t, func() {
		SetAttributes(nil, "k", "v")
		AddEvent(nil, "e")
		RecordError(nil, errors.New("x"))
	})
	assert.Empty(t, GetTraceID(context.Background()))
}

func TestToAttribute(t *testing.T) {
	assert.Equal(t, attribute.String("k", "v"), toAttribute("k", "v"))
	assert.Equal(t, attribute.Int64("k", 5), toAttribute("k", int64(5)))
	assert.Equal(t, attribute.Float64("k", 1.5), toAttribute("k", 1.5))
	assert.Equal(t, attribute.StringSlice("k", []string{"a"}), toAttribute("k", []string{"a"}))
	assert.Equal(t, attribute.String("k", "{1}"), toAttribute("k", struct{ N int }{1}))
}

func TestSampler(t *testing.T) {
	assert.Contains(t, sampler(1).Description(), "AlwaysOnSampler")
	assert.Contains(t, sampler(0).Description(), "AlwaysOffSampler")
	assert.Contains(t, sampler(0.25).Description(), "TraceIDRatioBased")
}
