package errors

import (
	"errors"
	"fmt"
)

// Error represents an ifbridge error with context
type Error struct {
	// Code is the error code (e.g., "CONFIG_PARSE_ERROR")
	Code string
	// Message is the human-readable error message
	Message string
	// Cause describes why the error occurred
	Cause string
	// Action suggests what the user should do
	Action string
	// Underlying is the wrapped error
	Underlying error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Underlying)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *Error) Unwrap() error {
	return e.Underlying
}

// New creates a new Error
func New(code, message, cause, action string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
		Action:  action,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(err error, code, message, cause, action string) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		Cause:      cause,
		Action:     action,
		Underlying: err,
	}
}

// Common error codes
const (
	// Interfaces file errors
	ErrCodeConfigNotFound   = "CONFIG_NOT_FOUND"
	ErrCodeConfigParseError = "CONFIG_PARSE_ERROR"
	ErrCodeConfigValidation = "CONFIG_VALIDATION_ERROR"
	ErrCodeConfigPermission = "CONFIG_PERMISSION_ERROR"

	// Parser and transform invariants
	ErrCodeCursorOutOfRange    = "CURSOR_OUT_OF_RANGE"
	ErrCodeUnmatchedStanza     = "TRANSFORM_UNMATCHED_STANZA"
	ErrCodeMalformedDefinition = "TRANSFORM_MALFORMED_DEFINITION"

	// Host errors
	ErrCodeNICDiscovery     = "NIC_DISCOVERY_ERROR"
	ErrCodePermissionDenied = "PERMISSION_DENIED"
	ErrCodeSystemError      = "SYSTEM_ERROR"
)

// Common error constructors

// ConfigNotFound creates a config not found error
func ConfigNotFound(path string) *Error {
	return New(
		ErrCodeConfigNotFound,
		fmt.Sprintf("Interfaces file not found: %s", path),
		"The specified network interfaces file does not exist",
		"Check the path passed with -filename",
	)
}

// ConfigReadError creates an error for an interfaces file that exists but cannot be read
func ConfigReadError(path string, err error) *Error {
	return Wrap(
		err,
		ErrCodeConfigPermission,
		fmt.Sprintf("Failed to read interfaces file: %s", path),
		"Permission denied or file is not readable",
		"Check file permissions with 'ls -l' and run with sufficient privileges",
	)
}

// ConfigParseError creates a config parse error
func ConfigParseError(path string, err error) *Error {
	return Wrap(
		err,
		ErrCodeConfigParseError,
		fmt.Sprintf("Failed to parse interfaces file: %s", path),
		"The block scanner reached an inconsistent state",
		"Report the file contents; this indicates an internal parser bug",
	)
}

// TransformError creates an error for an interfaces file the bridge rewrite rejected
func TransformError(code string, iface string, err error) *Error {
	return Wrap(
		err,
		code,
		fmt.Sprintf("Cannot move %s onto a bridge", iface),
		"The stanza does not fit any known rewrite rule",
		"Edit the interfaces file manually; no changes were written",
	)
}

// NICDiscoveryError creates an error for a failed primary NIC lookup
func NICDiscoveryError(err error) *Error {
	return Wrap(
		err,
		ErrCodeNICDiscovery,
		"Failed to discover the primary network interface",
		"No usable IPv4 default route or the routing table is not readable",
		"Pass the interface explicitly with -primary-nic",
	)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
