package infrastructure

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"insarmap/internal/config"
	"insarmap/internal/shared/testutil"
)

func TestInitializeOTel_Disabled(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)

	providers, err := InitializeOTel(context.Background(), OTelConfigFrom(config.TelemetryConfig{}), logger)
	require.NoError(t, err)

	assert.Nil(t, providers.TracerProvider)
	assert.Nil(t, providers.MeterProvider)
	require.NotNil(t, providers.Tracer)
	require.NotNil(t, providers.Meter)

	_, span := providers.Tracer.Start(context.Background(), "noop")
	assert.False(t, span.IsRecording())
	span.End()

	assert.NoError(t, providers.Shutdown(context.Background()))
}

func TestInitializeOTel_Files(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	dir := t.TempDir()
	traceFile := filepath.Join(dir, "trace.jsonl")
	metricsFile := filepath.Join(dir, "metrics", "insarmap.prom")

	providers, err := InitializeOTel(context.Background(), OTelConfigFrom(config.TelemetryConfig{
		TraceFile:   traceFile,
		MetricsFile: metricsFile,
	}), logger)
	require.NoError(t, err)
	require.NotNil(t, providers.TracerProvider)
	require.NotNil(t, providers.MeterProvider)
	assert.True(t, logs.ContainsMessage("OpenTelemetry initialization complete"))

	ctx, span := providers.Tracer.Start(context.Background(), "load")
	assert.True(t, span.IsRecording())
	span.End()

	counter, err := providers.Meter.Int64Counter("insar_filter_rows_kept")
	require.NoError(t, err)
	counter.Add(ctx, 3, metric.WithAttributes(attribute.String("filter", "Country filter")))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, providers.Shutdown(shutdownCtx))
	assert.NoError(t, providers.Shutdown(shutdownCtx), "second shutdown is a no-op")

	traces, err := os.ReadFile(traceFile)
	require.NoError(t, err)
	assert.Contains(t, string(traces), `"Name":"load"`)

	metrics, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	text := string(metrics)
	assert.Contains(t, text, "insar_filter_rows_kept")
	assert.True(t, strings.Contains(text, `filter="Country filter"`), text)
}

func TestInitializeOTel_BadTracePath(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	_, err := InitializeOTel(context.Background(), &OTelConfig{
		ServiceName: "test",
		TraceFile:   filepath.Join(blocker, "trace.jsonl"),
		SampleRatio: 1,
	}, logger)
	assert.Error(t, err)
}
