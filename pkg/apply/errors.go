package apply

import "fmt"

// Error codes for apply operations
const (
	// ErrCodeBackupFailed indicates the one-time backup could not be written
	ErrCodeBackupFailed = "APPLY_BACKUP_FAILED"

	// ErrCodeWriteFailed indicates the interfaces file could not be replaced
	ErrCodeWriteFailed = "APPLY_WRITE_FAILED"

	// ErrCodeCommandFailed indicates an ifupdown command failed
	ErrCodeCommandFailed = "APPLY_COMMAND_FAILED"

	// ErrCodeRollbackFailed indicates restoring the previous file failed
	ErrCodeRollbackFailed = "APPLY_ROLLBACK_FAILED"

	// ErrCodeToolNotFound indicates a required command is not installed
	ErrCodeToolNotFound = "APPLY_TOOL_NOT_FOUND"

	// ErrCodePermissionDenied indicates a file operation was not permitted
	ErrCodePermissionDenied = "APPLY_PERMISSION_DENIED"
)

// Error represents an apply-specific error.
type Error struct {
	// Code is the error code
	Code string

	// Message is the human-readable error message
	Message string

	// Err is the underlying error
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a new apply error.
func NewError(code, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NewBackupError creates an error for backup failure.
func NewBackupError(message string, err error) *Error {
	return NewError(ErrCodeBackupFailed, message, err)
}

// NewWriteError creates an error for a failed file replacement.
func NewWriteError(message string, err error) *Error {
	return NewError(ErrCodeWriteFailed, message, err)
}

// NewCommandError creates an error for a failed command, including its output.
func NewCommandError(command string, output []byte, err error) *Error {
	return NewError(ErrCodeCommandFailed, fmt.Sprintf("%s failed: %s", command, output), err)
}

// NewRollbackError creates an error for rollback failure.
func NewRollbackError(message string, err error) *Error {
	return NewError(ErrCodeRollbackFailed, message, err)
}

// NewToolNotFoundError creates an error for a missing command.
func NewToolNotFoundError(tool string) *Error {
	return NewError(ErrCodeToolNotFound, fmt.Sprintf("tool not found: %s", tool), nil)
}

// NewPermissionDeniedError creates an error for permission denied.
func NewPermissionDeniedError(operation string, err error) *Error {
	return NewError(ErrCodePermissionDenied, fmt.Sprintf("Permission denied for operation: %s", operation), err)
}
