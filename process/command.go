package process

import (
	"io"
	"os"
	"time"

	"github.com/kballard/go-shellquote"
)

// DefaultShell runs commands when neither Command.Shell nor $SHELL is set.
const DefaultShell = "sh"

// DefaultGracePeriod bounds how long Wait drains pipes after the process
// exited or was signalled.
const DefaultGracePeriod = 5 * time.Second

// Command configures a shell command to execute.
type Command struct {
	// Line is passed to the shell after -c.
	Line string
	// Shell overrides $SHELL. It may carry arguments, e.g. "bash --norc".
	Shell string
	// Dir is the working directory. If empty, uses the current directory.
	Dir string
	// Env is additional environment variables (key=value). Merged with os.Environ.
	Env []string
	// Stdin provides input to the process. Nil reads from the null device.
	Stdin io.Reader
	// GracePeriod is how long to wait after SIGTERM before SIGKILL when
	// the start context is cancelled. Defaults to DefaultGracePeriod.
	GracePeriod time.Duration
}

// ShellArgv returns the shell program and its leading arguments.
func (c Command) ShellArgv() []string {
	return resolveShell(c.Shell, os.Getenv("SHELL"))
}

func resolveShell(explicit, env string) []string {
	for _, candidate := range []string{explicit, env} {
		if candidate == "" {
			continue
		}
		words, err := shellquote.Split(candidate)
		if err == nil && len(words) > 0 {
			return words
		}
	}
	return []string{DefaultShell}
}

// mergeEnv merges additional env vars with the current environment.
func mergeEnv(extra []string) []string {
	if len(extra) == 0 {
		return nil // inherit parent env
	}
	env := os.Environ()
	return append(env, extra...)
}
