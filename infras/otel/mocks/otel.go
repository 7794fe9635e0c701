package mocks

import (
	"slotwise/infras/otel"

	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace/noop"
)

// NewOtel returns an Otel whose spans are dropped.
func NewOtel() otel.Otel {
	return otel.NewWithProvider(noop.NewTracerProvider())
}

// NewRecordingOtel returns an Otel that keeps every ended span in the recorder.
func NewRecordingOtel() (otel.Otel, *tracetest.SpanRecorder) {
	recorder := tracetest.NewSpanRecorder()

	return otel.NewWithProvider(trace.NewTracerProvider(trace.WithSpanProcessor(recorder))), recorder
}
