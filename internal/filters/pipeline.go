package filters

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"insarmap/internal/dataprocessing"
)

// Pipeline applies an ordered list of filters, logging and recording the
// row counts of every step.
type Pipeline struct {
	filters []Filter
	logger  *slog.Logger
	tracer  trace.Tracer
	kept    metric.Int64Counter
	removed metric.Int64Counter
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger used for per-step statistics.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithTracer records one span per filter step.
func WithTracer(tracer trace.Tracer) Option {
	return func(p *Pipeline) {
		if tracer != nil {
			p.tracer = tracer
		}
	}
}

// WithMeter records kept/removed row counters per filter.
func WithMeter(meter metric.Meter) Option {
	return func(p *Pipeline) {
		if meter != nil {
			p.kept, p.removed = newCounters(meter)
		}
	}
}

// NewPipeline creates an empty pipeline.
func NewPipeline(opts ...Option) *Pipeline {
	p := &Pipeline{
		logger: slog.Default(),
		tracer: tracenoop.NewTracerProvider().Tracer(""),
	}
	p.kept, p.removed = newCounters(metricnoop.NewMeterProvider().Meter(""))
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func newCounters(meter metric.Meter) (kept, removed metric.Int64Counter) {
	var err error
	kept, err = meter.Int64Counter("insar_filter_rows_kept",
		metric.WithDescription("Rows kept by a filter step"))
	if err != nil {
		kept, _ = metricnoop.NewMeterProvider().Meter("").Int64Counter("insar_filter_rows_kept")
	}
	removed, err = meter.Int64Counter("insar_filter_rows_removed",
		metric.WithDescription("Rows removed by a filter step"))
	if err != nil {
		removed, _ = metricnoop.NewMeterProvider().Meter("").Int64Counter("insar_filter_rows_removed")
	}
	return kept, removed
}

// Add appends a filter step.
func (p *Pipeline) Add(f Filter) *Pipeline {
	if f != nil {
		p.filters = append(p.filters, f)
	}
	return p
}

// Len returns the number of steps.
func (p *Pipeline) Len() int {
	return len(p.filters)
}

// Run applies every step in order. The first failing step aborts the run.
func (p *Pipeline) Run(ctx context.Context, t *dataprocessing.Table) (*dataprocessing.Table, []Stats, error) {
	all := make([]Stats, 0, len(p.filters))
	current := t

	for _, f := range p.filters {
		ctx, span := p.tracer.Start(ctx, "filter",
			trace.WithAttributes(
				attribute.String("filter.name", f.Name()),
				attribute.String("filter.params", f.Describe()),
			))

		p.logger.InfoContext(ctx, "Applying filter",
			slog.String("filter", f.Name()),
			slog.String("params", f.Describe()))

		next, stats, err := Run(f, current)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			span.End()
			p.logger.ErrorContext(ctx, "Filter failed",
				slog.String("filter", f.Name()),
				slog.String("error", err.Error()))
			return nil, all, err
		}

		span.SetAttributes(
			attribute.Int("rows.before", stats.Before),
			attribute.Int("rows.after", stats.After),
		)
		span.End()

		attrs := metric.WithAttributes(attribute.String("filter", f.Name()))
		p.kept.Add(ctx, int64(stats.After), attrs)
		p.removed.Add(ctx, int64(stats.Removed), attrs)

		p.logger.InfoContext(ctx, stats.String(),
			slog.String("filter", stats.Filter),
			slog.Int("before", stats.Before),
			slog.Int("after", stats.After),
			slog.Int("removed", stats.Removed),
			slog.Float64("percent_kept", stats.PercentKept))

		all = append(all, stats)
		current = next
	}

	return current, all, nil
}
