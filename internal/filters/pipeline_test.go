package filters

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"insarmap/internal/dataprocessing"
	apperrors "insarmap/internal/errors"
	"insarmap/internal/shared/testutil"
)

func TestNewStats(t *testing.T) {
	tests := []struct {
		name        string
		before      int
		after       int
		wantRemoved int
		wantPct     float64
	}{
		{name: "half kept", before: 4, after: 2, wantRemoved: 2, wantPct: 50},
		{name: "all kept", before: 3, after: 3, wantRemoved: 0, wantPct: 100},
		{name: "empty input", before: 0, after: 0, wantRemoved: 0, wantPct: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStats("Country filter", tt.before, tt.after)
			assert.Equal(t, tt.wantRemoved, s.Removed)
			assert.InDelta(t, tt.wantPct, s.PercentKept, 1e-9)
		})
	}
}

func TestStats_String(t *testing.T) {
	s := NewStats("Country filter", 6, 3)
	assert.Equal(t, "Country filter: kept 3/6 rows (50.0%), removed 3", s.String())
}

func TestRun_EmptyTable(t *testing.T) {
	empty := dataprocessing.FromStrings(testutil.TargetHeader, nil)

	out, stats, err := FilterActive(empty)
	require.NoError(t, err)
	assert.Equal(t, 0, out.Len())
	assert.Equal(t, 0.0, stats.PercentKept)
	assert.Equal(t, "Active targets filter", stats.Filter)
}

func TestPipeline_Run(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	p := NewPipeline(WithLogger(logger), WithTracer(provider.Tracer("test"))).
		Add(CountryFilter{Countries: []string{"NLD", "BEL"}}).
		Add(ValidFilter{}).
		Add(ActiveFilter{}).
		Add(InstrumentClassFilter{Types: []string{"CR", "IGRS", "TR"}})
	require.Equal(t, 4, p.Len())

	out, stats, err := p.Run(context.Background(), targets())
	require.NoError(t, err)

	assert.Equal(t, []string{"HENGELO", "DELFT01", "ZEGVELD"}, sites(t, out))
	require.Len(t, stats, 4)
	assert.Equal(t, "Country filter", stats[0].Filter)
	assert.Equal(t, 6, stats[0].Before)
	assert.Equal(t, 1, stats[0].Removed)
	assert.InDelta(t, 83.33, stats[0].PercentKept, 0.01)
	assert.Equal(t, 5, stats[1].Before)
	assert.Equal(t, 4, stats[1].After)
	assert.Equal(t, 3, stats[2].After)
	assert.Equal(t, 3, stats[3].After)
	for i := 1; i < len(stats); i++ {
		assert.Equal(t, stats[i-1].After, stats[i].Before, "steps chain")
	}

	assert.True(t, logs.ContainsMessage("Valid filter: kept 4/5 rows (80.0%), removed 1"))
	assert.True(t, logs.ContainsAttr("filter", "Active targets filter"))
	testutil.AssertNoErrors(t, logs)

	spans := recorder.Ended()
	require.Len(t, spans, 4)
	assert.Equal(t, "filter", spans[0].Name())
}

func TestPipeline_StopsOnFailure(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	p := NewPipeline(WithLogger(logger), WithTracer(provider.Tracer("test"))).
		Add(ValidFilter{}).
		Add(OwnerFilter{Owners: []string{"TUD"}, Column: "operator"}).
		Add(ActiveFilter{})

	out, stats, err := p.Run(context.Background(), targets())
	require.Error(t, err)
	assert.Nil(t, out)
	assert.Len(t, stats, 1, "stats of completed steps are returned")
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeMissingColumn))
	testutil.AssertLogContains(t, logs, slog.LevelError, "Filter failed")

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, codes.Error, spans[1].Status().Code)
}

func TestPipeline_Empty(t *testing.T) {
	input := targets()
	out, stats, err := NewPipeline().Run(context.Background(), input)
	require.NoError(t, err)
	assert.Empty(t, stats)
	assert.Equal(t, input.Rows(), out.Rows())
}

func TestPipeline_AddIgnoresNil(t *testing.T) {
	assert.Equal(t, 0, NewPipeline().Add(nil).Len())
}
