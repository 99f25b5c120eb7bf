package errors

import (
	"fmt"
	"strings"
	"time"
)

// ConfigurationError reports missing or invalid run settings.
// Missing always holds every absent field, not only the first one found.
type ConfigurationError struct {
	Missing []string
	Reason  string
}

// Error implements the error interface for ConfigurationError.
func (e *ConfigurationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, fmt.Sprintf("missing required configuration: %s", strings.Join(e.Missing, ", ")))
	}
	if e.Reason != "" {
		parts = append(parts, e.Reason)
	}
	if len(parts) == 0 {
		return "invalid configuration"
	}
	return strings.Join(parts, "; ")
}

// NewConfigurationError creates a ConfigurationError for a single invalid setting.
func NewConfigurationError(format string, args ...interface{}) error {
	return &ConfigurationError{Reason: fmt.Sprintf(format, args...)}
}

// ScannerNotFoundError is returned when the scanner executable path is unset or does not exist.
type ScannerNotFoundError struct {
	Path   string
	Reason string
}

// Error implements the error interface for ScannerNotFoundError.
func (e *ScannerNotFoundError) Error() string {
	if e.Path == "" {
		return "scanner executable path is not set"
	}
	if e.Reason != "" {
		return fmt.Sprintf("scanner executable %q not found: %s", e.Path, e.Reason)
	}
	return fmt.Sprintf("scanner executable %q not found", e.Path)
}

// ScanExecutionError represents a scanner run that exited with a non-zero status.
// Stdout and Stderr hold the captured streams verbatim.
type ScanExecutionError struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Err      error
}

// Error implements the error interface for ScanExecutionError.
func (e *ScanExecutionError) Error() string {
	if e.ExitCode < 0 && e.Err != nil {
		return fmt.Sprintf("scanner could not be started: %v", e.Err)
	}
	return fmt.Sprintf("scanner exited with status %d", e.ExitCode)
}

// Unwrap returns the underlying process error.
func (e *ScanExecutionError) Unwrap() error {
	return e.Err
}

// ScanTimeoutError is returned when the scanner does not finish within the configured timeout.
type ScanTimeoutError struct {
	Timeout time.Duration
	Stdout  string
	Stderr  string
}

// Error implements the error interface for ScanTimeoutError.
func (e *ScanTimeoutError) Error() string {
	return fmt.Sprintf("scanner did not finish within %s", e.Timeout)
}

// APIRequestError represents a failed call to the analysis server.
// StatusCode is zero when the request never got a response.
type APIRequestError struct {
	URL        string
	StatusCode int
	Body       string
	Err        error
}

// Error implements the error interface for APIRequestError.
func (e *APIRequestError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("request to %s failed: %v", e.URL, e.Err)
	}
	if e.Body != "" {
		return fmt.Sprintf("request to %s returned %d: %s", e.URL, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("request to %s returned %d", e.URL, e.StatusCode)
}

// Unwrap returns the underlying transport error, if any.
func (e *APIRequestError) Unwrap() error {
	return e.Err
}

// ManifestReadError is a non-fatal failure to read or decode a project manifest.
type ManifestReadError struct {
	Path string
	Err  error
}

// Error implements the error interface for ManifestReadError.
func (e *ManifestReadError) Error() string {
	return fmt.Sprintf("unable to read manifest %q: %v", e.Path, e.Err)
}

// Unwrap returns the underlying read or decode error.
func (e *ManifestReadError) Unwrap() error {
	return e.Err
}

// CommandError represents an error that terminated a command, with the process exit code to use.
type CommandError struct {
	ExitCode    int
	CommonError string
	Err         error
}

// Error implements the error interface, returning the message from the common error.
func (e *CommandError) Error() string {
	return e.CommonError
}

// Unwrap returns the wrapped cause.
func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewCommandError creates a new CommandError instance wrapping err.
func NewCommandError(err error, code int) *CommandError {
	return &CommandError{
		ExitCode:    code,
		CommonError: err.Error(),
		Err:         err,
	}
}
