package process

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"

	apperrors "github.com/kbukum/itemfeed/errors"
)

// Child is a running shell command.
type Child struct {
	cmd    *exec.Cmd
	stdout io.ReadCloser
	stderr bytes.Buffer
	start  time.Time

	waitOnce sync.Once
	status   Status
	done     chan struct{}
}

// Start spawns cmd. Stdout is exposed as a pipe and stderr is captured in
// memory. If ctx is cancelled the process group gets SIGTERM, then SIGKILL
// after the grace period. A spawn failure leaves nothing running and is
// reported as SPAWN_FAILED.
func Start(ctx context.Context, cmd Command) (*Child, error) {
	argv := cmd.ShellArgv()
	args := append(argv[1:len(argv):len(argv)], "-c", cmd.Line)

	gracePeriod := cmd.GracePeriod
	if gracePeriod == 0 {
		gracePeriod = DefaultGracePeriod
	}

	c := exec.CommandContext(ctx, argv[0], args...) //nolint:gosec // running user commands is the purpose of this package
	c.Dir = cmd.Dir
	c.Env = mergeEnv(cmd.Env)
	c.Stdin = cmd.Stdin

	child := &Child{cmd: c, done: make(chan struct{})}
	c.Stderr = &child.stderr

	stdout, err := c.StdoutPipe()
	if err != nil {
		return nil, apperrors.SpawnFailed(argv[0], cmd.Line, err)
	}
	child.stdout = stdout

	// Use process group so we can kill the entire tree
	c.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	// Don't let exec.CommandContext kill with SIGKILL immediately
	c.Cancel = func() error {
		if c.Process == nil {
			return nil
		}
		return syscall.Kill(-c.Process.Pid, syscall.SIGTERM)
	}
	c.WaitDelay = gracePeriod

	child.start = time.Now()
	if err := c.Start(); err != nil {
		return nil, apperrors.SpawnFailed(argv[0], cmd.Line, err)
	}
	return child, nil
}

// PID returns the process ID, which is also the process group ID.
func (c *Child) PID() int { return c.cmd.Process.Pid }

// Stdout is the read end of the child's standard output. Reads fail once
// Wait has returned.
func (c *Child) Stdout() io.Reader { return c.stdout }

// Kill sends SIGKILL to the whole process group. A group that is already
// gone is not an error.
func (c *Child) Kill() error {
	select {
	case <-c.done:
		return nil
	default:
	}
	err := syscall.Kill(-c.cmd.Process.Pid, syscall.SIGKILL)
	if errors.Is(err, syscall.ESRCH) {
		return nil
	}
	return err
}

// Wait reaps the process and returns its status. It may be called any
// number of times; only the first call waits.
func (c *Child) Wait() Status {
	c.waitOnce.Do(func() {
		_ = c.cmd.Wait()
		c.status = statusOf(c.cmd.ProcessState, time.Since(c.start))
		close(c.done)
	})
	<-c.done
	return c.status
}

// Done is closed once the process has been reaped.
func (c *Child) Done() <-chan struct{} { return c.done }

// Stderr returns everything the process wrote to stderr. It is only
// complete after Wait.
func (c *Child) Stderr() []byte {
	select {
	case <-c.done:
		return c.stderr.Bytes()
	default:
		return nil
	}
}

func statusOf(ps *os.ProcessState, d time.Duration) Status {
	st := Status{ExitCode: ps.ExitCode(), Success: ps.Success(), Duration: d}
	if ws, ok := ps.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		st.Signaled = true
		st.Signal = ws.Signal().String()
	}
	return st
}
