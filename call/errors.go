package call

import (
	"errors"
	"fmt"
)

// ErrNoMatchingTool signals that a tool-call payload named a tool that was
// not declared for the call. It is a recoverable condition: callers are
// expected to fall back to the response's text content.
var ErrNoMatchingTool = errors.New("no matching tool")

// ConfigError reports an invalid option combination, detected before any
// network call is made.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "invalid call configuration: " + e.Reason
}

// Configf builds a ConfigError from a format string.
func Configf(format string, args ...any) *ConfigError {
	return &ConfigError{Reason: fmt.Sprintf(format, args...)}
}

// SchemaError reports data that failed validation against a declared
// schema: malformed tool arguments or structured output that does not
// match the requested shape. It is surfaced as-is, never recovered.
type SchemaError struct {
	Subject string
	Err     error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema validation failed for %s: %v", e.Subject, e.Err)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}
