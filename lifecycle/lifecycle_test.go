package lifecycle

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/kbukum/itemfeed/logger"
	"github.com/kbukum/itemfeed/observability"
	"github.com/kbukum/itemfeed/testutil"
)

func TestGoRegistersBeforeReturning(t *testing.T) {
	tr := NewTracker(WithLogger(logger.Nop()))
	release := make(chan struct{})

	h := tr.Go("ingest", func() { <-release })
	if got := tr.Active(); got != 1 {
		t.Fatalf("Active = %d right after Go, want 1", got)
	}
	if tr.Idle() {
		t.Fatal("tracker should not be idle")
	}

	close(release)
	h.Wait()
	if got := tr.Active(); got != 0 {
		t.Errorf("Active = %d after Wait, want 0", got)
	}
	if h.Name() != "ingest" {
		t.Errorf("Name = %q", h.Name())
	}
}

func TestWaitBlocksUntilAllDone(t *testing.T) {
	tr := NewTracker(WithLogger(logger.Nop()))
	release := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		tr.Go("worker", func() {
			defer wg.Done()
			<-release
		})
	}
	if got := tr.Active(); got != 5 {
		t.Fatalf("Active = %d, want 5", got)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	if err := tr.Wait(ctx); err == nil {
		t.Fatal("Wait returned while goroutines were running")
	}

	close(release)
	if err := tr.Wait(testutil.Context(t, 5*time.Second)); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	wg.Wait()
	if !tr.Idle() {
		t.Error("expected idle tracker")
	}
}

func TestWaitOnIdleTracker(t *testing.T) {
	tr := NewTracker()
	if err := tr.Wait(testutil.Context(t, time.Second)); err != nil {
		t.Fatalf("Wait on a fresh tracker: %v", err)
	}
}

func TestTrackerReusableAcrossGenerations(t *testing.T) {
	tr := NewTracker(WithLogger(logger.Nop()))
	for round := 0; round < 3; round++ {
		h := tr.Go("reload", func() { time.Sleep(5 * time.Millisecond) })
		if err := tr.Wait(testutil.Context(t, 5*time.Second)); err != nil {
			t.Fatalf("round %d: %v", round, err)
		}
		select {
		case <-h.Done():
		default:
			t.Fatalf("round %d: handle not done after tracker went idle", round)
		}
	}
}

func TestPanicStillDeregisters(t *testing.T) {
	tr := NewTracker(WithLogger(logger.Nop()))
	recovered := make(chan any, 1)
	h := tr.Go("panicky", func() {
		defer func() { recovered <- recover() }()
		panic("boom")
	})
	h.Wait()
	if <-recovered == nil {
		t.Fatal("expected the panic to reach the deferred recover")
	}
	if !tr.Idle() {
		t.Error("tracker should be idle after a recovered panic")
	}
}

func TestMetricsMirrorCounter(t *testing.T) {
	metrics, reader := testutil.NewMetrics(t)
	tr := NewTracker(WithMetrics(metrics), WithLogger(logger.Nop()))

	release := make(chan struct{})
	h1 := tr.Go("ingest", func() { <-release })
	h2 := tr.Go("watcher", func() { <-release })
	if got := reader.Sum(observability.MetricComponentsActive); got != 2 {
		t.Errorf("active gauge = %d, want 2", got)
	}

	close(release)
	h1.Wait()
	h2.Wait()
	if got := reader.Sum(observability.MetricComponentsActive); got != 0 {
		t.Errorf("active gauge = %d after stop, want 0", got)
	}
}
