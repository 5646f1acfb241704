// Package collector starts the goroutines that feed items from a pipe or
// from the stdout of a shell command.
//
// Every goroutine is registered with a lifecycle.Tracker before it does any
// work and leaves it only after its cleanup, including reaping the child
// process, has finished. A command run can be cancelled mid-stream through
// the Interrupt returned by Collect.
package collector
