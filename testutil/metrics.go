package testutil

import (
	"context"
	"testing"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/kbukum/itemfeed/observability"
)

// MetricReader collects metrics recorded during a test.
type MetricReader struct {
	t      testing.TB
	reader *sdkmetric.ManualReader
}

// NewMetrics returns feed metrics backed by a manual reader.
func NewMetrics(t testing.TB) (*observability.Metrics, *MetricReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	m, err := observability.NewMetrics(mp.Meter("itemfeed-test"))
	if err != nil {
		t.Fatalf("creating metrics: %v", err)
	}
	return m, &MetricReader{t: t, reader: reader}
}

// Sum returns the total of an int64 counter across all attribute sets.
// Missing metrics read as zero.
func (r *MetricReader) Sum(name string) int64 {
	r.t.Helper()
	var rm metricdata.ResourceMetrics
	if err := r.reader.Collect(context.Background(), &rm); err != nil {
		r.t.Fatalf("collecting metrics: %v", err)
	}
	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				r.t.Fatalf("metric %s is %T, not an int64 sum", name, m.Data)
			}
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
		}
	}
	return total
}
