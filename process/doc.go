// Package process spawns shell commands whose stdout feeds the item
// stream.
//
// Each command runs as `<shell> -c <line>` in its own process group so a
// single Kill reaches every descendant. The shell is taken from
// Command.Shell, then $SHELL, then "sh"; the value is split with shell
// quoting rules, so SHELL="bash --norc" works.
package process
