package testutil

import (
	"os"
	"testing"
	"time"

	"github.com/shirou/gopsutil/v3/process"
)

// ProcessGone reports whether pid no longer names a live or zombie
// process of ours.
func ProcessGone(pid int) bool {
	exists, err := process.PidExists(int32(pid))
	if err != nil || !exists {
		return true
	}
	p, err := process.NewProcess(int32(pid))
	if err != nil {
		return true
	}
	ppid, err := p.Ppid()
	if err != nil {
		return true
	}
	// The pid was recycled by an unrelated process.
	return int(ppid) != os.Getpid()
}

// AssertReaped fails the test unless pid disappears within timeout. A
// zombie still has an entry, so this only passes once the child was
// waited for.
func AssertReaped(t testing.TB, pid int, timeout time.Duration) {
	t.Helper()
	Eventually(t, timeout, func() bool { return ProcessGone(pid) }, "child process was not reaped")
}

// Children returns the pids of this test binary's child processes.
func Children(t testing.TB) []int {
	t.Helper()
	self, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		t.Fatalf("inspecting test process: %v", err)
	}
	kids, err := self.Children()
	if err != nil {
		// gopsutil reports ErrorNoChildren when there are none.
		return nil
	}
	pids := make([]int, 0, len(kids))
	for _, k := range kids {
		pids = append(pids, int(k.Pid))
	}
	return pids
}
