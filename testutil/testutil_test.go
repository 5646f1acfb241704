package testutil

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/kbukum/itemfeed/component"
	"github.com/kbukum/itemfeed/observability"
)

type countingComponent struct {
	starts, stops int
}

func (c *countingComponent) Name() string                    { return "counting" }
func (c *countingComponent) Start(ctx context.Context) error { c.starts++; return nil }
func (c *countingComponent) Stop(ctx context.Context) error  { c.stops++; return nil }
func (c *countingComponent) Health(ctx context.Context) component.Health {
	return component.Health{Name: "counting", Status: component.StatusHealthy}
}

func TestSetupStopsOnCleanup(t *testing.T) {
	c := &countingComponent{}
	t.Run("inner", func(t *testing.T) {
		T(t).Setup(c)
		if c.starts != 1 {
			t.Fatalf("expected start, got %d", c.starts)
		}
	})
	if c.stops != 1 {
		t.Errorf("expected stop after subtest, got %d", c.stops)
	}
}

func TestMetricReaderSum(t *testing.T) {
	m, reader := NewMetrics(t)
	if got := reader.Sum(observability.MetricItemsIngested); got != 0 {
		t.Errorf("expected 0 before recording, got %d", got)
	}
	m.RecordItems(context.Background(), "pipe", 4)
	m.RecordItems(context.Background(), "command", 1)
	if got := reader.Sum(observability.MetricItemsIngested); got != 5 {
		t.Errorf("expected 5, got %d", got)
	}
}

func TestAssertReaped(t *testing.T) {
	cmd := exec.Command("sh", "-c", "exit 0")
	if err := cmd.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	pid := cmd.Process.Pid
	_ = cmd.Wait()
	AssertReaped(t, pid, 5*time.Second)
}

func TestZombieIsNotGone(t *testing.T) {
	cmd := exec.Command("sh", "-c", "exit 0")
	if err := cmd.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	pid := cmd.Process.Pid
	time.Sleep(100 * time.Millisecond)
	if ProcessGone(pid) {
		t.Error("an exited but unwaited child should still be visible")
	}
	_ = cmd.Wait()
	AssertReaped(t, pid, 5*time.Second)
}
