package otel_test

import (
	"context"
	"errors"
	"net/http"
	"slotwise/infras/otel"
	"slotwise/infras/otel/mocks"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	otelGlobal "go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	oteltrace "go.opentelemetry.io/otel/trace"
)

func failing(o otel.Otel) (err error) {
	_, scope := o.NewScope(context.Background(), "service", "service.failing")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	return errors.New("slot taken")
}

func TestScope_TraceIfErrorSeesReturnedError(t *testing.T) {
	o, recorder := mocks.NewRecordingOtel()

	require.Error(t, failing(o))

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "service.failing", spans[0].Name())
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "slot taken", spans[0].Status().Description)
}

func TestScope_SetAttributes(t *testing.T) {
	o, recorder := mocks.NewRecordingOtel()

	_, scope := o.NewScope(context.Background(), "engine", "engine.Slots")
	scope.SetAttributes(map[string]any{
		"tenant":   "T1",
		"slots":    4,
		"fallback": true,
		"staff":    []string{"S1", "S2"},
		"window":   90 * time.Minute,
	})
	scope.TraceIfError(nil)
	scope.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Unset, spans[0].Status().Code)
	assert.ElementsMatch(t, []attribute.KeyValue{
		attribute.String("tenant", "T1"),
		attribute.Int("slots", 4),
		attribute.Bool("fallback", true),
		attribute.StringSlice("staff", []string{"S1", "S2"}),
		attribute.String("window", "1h30m0s"),
	}, spans[0].Attributes())
}

func TestExtract(t *testing.T) {
	otelGlobal.SetTextMapPropagator(propagation.TraceContext{})

	header := http.Header{}
	header.Set("traceparent", "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01")

	remote := oteltrace.SpanContextFromContext(otel.Extract(context.Background(), header))
	require.True(t, remote.IsValid())
	assert.True(t, remote.IsRemote())
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", remote.TraceID().String())

	assert.False(t, oteltrace.SpanContextFromContext(otel.Extract(context.Background(), http.Header{})).IsValid())
}
