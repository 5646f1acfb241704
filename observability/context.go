package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Run holds observability context for one collector run.
type Run struct {
	ID        string
	Source    string
	StartTime time.Time
	Metrics   *Metrics
}

// NewRun creates a run context. If metrics is nil, metric recording is
// silently skipped.
func NewRun(id, source string, metrics *Metrics) *Run {
	return &Run{
		ID:        id,
		Source:    source,
		StartTime: time.Now(),
		Metrics:   metrics,
	}
}

// runContextKey is the context key for Run.
type runContextKey struct{}

// WithRun stores a Run in the context.
func WithRun(ctx context.Context, r *Run) context.Context {
	return context.WithValue(ctx, runContextKey{}, r)
}

// RunFromContext retrieves the Run from context, or nil.
func RunFromContext(ctx context.Context) *Run {
	if r, ok := ctx.Value(runContextKey{}).(*Run); ok {
		return r
	}
	return nil
}

// StartSpan starts a span tagged with the run ID and source.
func (r *Run) StartSpan(ctx context.Context, spanName string) (context.Context, trace.Span) {
	ctx, span := StartSpan(WithRun(ctx, r), spanName)
	span.SetAttributes(
		attribute.String(AttrRunID, r.ID),
		attribute.String(AttrSource, r.Source),
	)
	return ctx, span
}

// End ends the span and records the run duration.
func (r *Run) End(ctx context.Context, span trace.Span, status string, err error) {
	duration := time.Since(r.StartTime)

	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.String(AttrErrorMessage, err.Error()))
	}

	span.SetAttributes(
		attribute.String(AttrStatus, status),
		attribute.Int64(AttrDurationMs, duration.Milliseconds()),
	)
	span.End()

	r.Metrics.RecordCollection(ctx, r.Source, status, duration)
}

// Duration returns the elapsed time since the run started.
func (r *Run) Duration() time.Duration {
	return time.Since(r.StartTime)
}
