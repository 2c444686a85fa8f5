package tracer_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"tosgate/internal/platform/tracer"
)

func TestNoopTracer(t *testing.T) {
	ctx := context.Background()
	newCtx, span := tracer.NewNoop().Start(ctx, tracer.SpanAcceptTerms, tracer.String(tracer.AttrTermsID, "tos_v1"))

	assert.Equal(t, ctx, newCtx)
	require.NotNil(t, span)
	span.SetAttributes(tracer.Bool("flag", true))
	span.AddEvent(tracer.EventCASConflict, tracer.Int(tracer.AttrAttempt, 1))
	span.End(errors.New("ignored"))
}

func TestOTelTracerRecordsSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	tr := tracer.NewOTel(tracer.WithOTelTracer(provider.Tracer("test")))

	_, span := tr.Start(context.Background(), tracer.SpanLedgerUpsert,
		tracer.String(tracer.AttrTermsID, "tos_v1"),
		tracer.Int(tracer.AttrAttempt, 2),
	)
	span.AddEvent(tracer.EventCASConflict)
	span.End(errors.New("conflict"))

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	got := ended[0]
	assert.Equal(t, tracer.SpanLedgerUpsert, got.Name())
	assert.Equal(t, codes.Error, got.Status().Code)
	assert.Contains(t, got.Attributes(), attribute.String(tracer.AttrTermsID, "tos_v1"))
	assert.Contains(t, got.Attributes(), attribute.Int64(tracer.AttrAttempt, 2))
	require.Len(t, got.Events(), 2, "AddEvent plus the recorded error")
	assert.Equal(t, tracer.EventCASConflict, got.Events()[0].Name)
}

func TestHashUserID(t *testing.T) {
	assert.Empty(t, tracer.HashUserID(""))
	h := tracer.HashUserID("user-1")
	assert.Len(t, h, 16)
	assert.Equal(t, h, tracer.HashUserID("user-1"))
	assert.NotEqual(t, h, tracer.HashUserID("user-2"))
}
