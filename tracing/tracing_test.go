package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestStartTracing(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "http://127.0.0.1:4318")

	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	tp, err := StartTracing(context.Background(), "connections-test")
	require.NoError(t, err)
	assert.Equal(t, tp, otel.GetTracerProvider())

	assert.NoError(t, tp.Shutdown(context.Background()))
}
