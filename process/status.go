package process

import (
	"fmt"
	"time"
)

// Status describes how a reaped process ended.
type Status struct {
	// ExitCode is the exit code, or -1 if the process was killed by a signal.
	ExitCode int
	// Success is true for exit code 0.
	Success bool
	// Signaled is true when a signal terminated the process.
	Signaled bool
	// Signal names the terminating signal when Signaled.
	Signal string
	// Duration is how long the process ran.
	Duration time.Duration
}

// Failed reports a non-zero exit or death by signal.
func (s Status) Failed() bool { return !s.Success }

func (s Status) String() string {
	switch {
	case s.Signaled:
		return "signal: " + s.Signal
	case s.Success:
		return "exit status 0"
	default:
		return fmt.Sprintf("exit status %d", s.ExitCode)
	}
}
