package tracing

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceIDRoundTrip(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetTraceID(ctx))

	ctx = WithTraceID(ctx, "abc123")
	assert.Equal(t, "abc123", GetTraceID(ctx))
}

func TestStartSpan_CarriesTraceID(t *testing.T) {
	require.NoError(t, Init("cortex-test"))

	ctx, span := StartSpan(context.Background(), "test.tracer", "test.span")
	defer span.End()

	assert.NotEmpty(t, GetTraceID(ctx))
}

func TestStartSpan_NilContext(t *testing.T) {
	ctx, span := StartSpan(nil, "test.tracer", "test.span")
	defer span.End()
	assert.NotNil(t, ctx)
}

func TestLoggerFromContext(t *testing.T) {
	t.Run("without trace id", func(t *testing.T) {
		var buf bytes.Buffer
		logger := zerolog.New(&buf)

		ctxLogger := LoggerFromContext(context.Background(), logger)
		ctxLogger.Info().Msg("hello")
		assert.NotContains(t, buf.String(), "trace_id")
	})

	t.Run("with trace id", func(t *testing.T) {
		var buf bytes.Buffer
		logger := zerolog.New(&buf)

		ctx := WithTraceID(context.Background(), "abc123")
		ctxLogger := LoggerFromContext(ctx, logger)
		ctxLogger.Info().Msg("hello")
		assert.Contains(t, buf.String(), `"trace_id":"abc123"`)
	})
}
