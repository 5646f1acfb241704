package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Setup errors
const (
	// ErrCodeSpawnFailed indicates the shell or command could not be started.
	ErrCodeSpawnFailed ErrorCode = "SPAWN_FAILED"
	// ErrCodeInvalidConfig indicates a configuration value was rejected.
	ErrCodeInvalidConfig ErrorCode = "INVALID_CONFIG"
)

// Stream errors
const (
	// ErrCodeInvalidEncoding indicates the source produced bytes that are not valid UTF-8.
	ErrCodeInvalidEncoding ErrorCode = "INVALID_ENCODING"
	// ErrCodeInterrupted indicates a read was interrupted by a signal and may be retried.
	ErrCodeInterrupted ErrorCode = "INTERRUPTED"
)

// Render errors
const (
	// ErrCodeScreenTooSmall indicates the area given to a renderer cannot hold its content.
	ErrCodeScreenTooSmall ErrorCode = "SCREEN_TOO_SMALL"
)

// Internal errors
const (
	// ErrCodeInternal indicates an unexpected internal failure.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeInterrupted:     true,
	ErrCodeSpawnFailed:     false,
	ErrCodeInvalidEncoding: false,
	ErrCodeInvalidConfig:   false,
	ErrCodeScreenTooSmall:  false,
	ErrCodeInternal:        false,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
