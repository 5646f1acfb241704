// Package errors provides the structured error type shared by the feed packages.
//
// Errors carry a machine-readable code and a retryable flag. The taxonomy is
// small on purpose: a shell that cannot be spawned, a source that stops being
// valid UTF-8, an interrupted read, a rejected configuration and the catch-all
// internal error. End of input and a consumer that went away are normal
// termination and never produce an error value.
package errors
