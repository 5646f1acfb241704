// Package observability wires OpenTelemetry tracing and metrics into the
// feed.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("itemfeed"))
//	defer tp.Shutdown(ctx)
//
// Metrics:
//
//	mp, err := observability.InitMeter(ctx, &cfg)
//	defer mp.Shutdown(ctx)
//
//	metrics, err := observability.NewMetrics(observability.Meter("itemfeed"))
//	metrics.RecordItems(ctx, "pipe", 128)
//
// A nil *Metrics is valid and records nothing, so components take metrics
// as an optional dependency.
package observability
