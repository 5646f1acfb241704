// Package testutil holds helpers shared by itemfeed package tests.
//
//	func TestSource(t *testing.T) {
//	    testutil.T(t).Setup(source) // stopped when the test ends
//	    metrics, reader := testutil.NewMetrics(t)
//	    ...
//	    if n := reader.Sum(observability.MetricItemsIngested); n != 3 { ... }
//	}
//
// Process helpers use gopsutil to assert that spawned children were reaped.
package testutil
