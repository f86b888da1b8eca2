package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	metricRecordsTotal  = "semverpop.records.total"
	metricRemovedTotal  = "semverpop.dedup.removed.total"
	metricStageDuration = "semverpop.stage.duration.seconds"
	metricErrorsTotal   = "semverpop.errors.total"

	attrInput    = "input"
	attrCategory = "category"
	attrStage    = "stage"
)

// durationBucketBoundaries covers 1ms to 600s, from small fixtures to a
// full corpus popularity scan.
var durationBucketBoundaries = []float64{0.001, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300, 600}

// RunMetrics holds the OTel instruments for one pipeline run.
type RunMetrics struct {
	records  metric.Int64Counter
	removed  metric.Int64Counter
	duration metric.Float64Histogram
	errors   metric.Int64Counter
}

// NewRunMetrics creates run metric instruments from the given meter.
func NewRunMetrics(mt metric.Meter) (*RunMetrics, error) {
	records, err := mt.Int64Counter(metricRecordsTotal,
		metric.WithDescription("Records parsed per input file"),
		metric.WithUnit("{record}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricRecordsTotal, err)
	}

	removed, err := mt.Int64Counter(metricRemovedTotal,
		metric.WithDescription("Extension callables removed as duplicates of breaking changes"),
		metric.WithUnit("{callable}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricRemovedTotal, err)
	}

	duration, err := mt.Float64Histogram(metricStageDuration,
		metric.WithDescription("Pipeline stage duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBucketBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricStageDuration, err)
	}

	errs, err := mt.Int64Counter(metricErrorsTotal,
		metric.WithDescription("Failed pipeline stages"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricErrorsTotal, err)
	}

	return &RunMetrics{records: records, removed: removed, duration: duration, errors: errs}, nil
}

// RecordParsed counts records read from one input.
// Safe to call on a nil receiver (no-op).
func (rm *RunMetrics) RecordParsed(ctx context.Context, input string, n int) {
	if rm == nil {
		return
	}

	rm.records.Add(ctx, int64(n), metric.WithAttributes(attribute.String(attrInput, input)))
}

// RecordRemoved counts callables removed under one duplicate category.
// Safe to call on a nil receiver (no-op).
func (rm *RunMetrics) RecordRemoved(ctx context.Context, category string, n int) {
	if rm == nil {
		return
	}

	rm.removed.Add(ctx, int64(n), metric.WithAttributes(attribute.String(attrCategory, category)))
}

// RecordStage records a finished stage and counts it as an error when err is non-nil.
// Safe to call on a nil receiver (no-op).
func (rm *RunMetrics) RecordStage(ctx context.Context, stage string, elapsed time.Duration, err error) {
	if rm == nil {
		return
	}

	attrs := metric.WithAttributes(attribute.String(attrStage, stage))
	rm.duration.Record(ctx, elapsed.Seconds(), attrs)

	if err != nil {
		rm.errors.Add(ctx, 1, attrs)
	}
}

// StartStage opens a span for a pipeline stage. The returned function ends
// the span, marks it failed when err is non-nil, and records the stage metrics.
func StartStage(
	ctx context.Context, tracer trace.Tracer, rm *RunMetrics, stage string,
) (context.Context, func(err error)) {
	ctx, span := tracer.Start(ctx, "semverpop."+stage,
		trace.WithAttributes(attribute.String(attrStage, stage)),
	)
	start := time.Now()

	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}

		span.End()
		rm.RecordStage(ctx, stage, time.Since(start), err)
	}
}
