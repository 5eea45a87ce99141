package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrConfigNotFound is matched by ConfigNotFoundError.
var ErrConfigNotFound = errors.New("ruleset not found")

// ErrUnsupportedFormat is matched by UnsupportedFormatError.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// ErrInvalidConfig is matched by ConfigError.
var ErrInvalidConfig = errors.New("invalid ruleset")

// ConfigNotFoundError is returned when no ruleset resolves for a platform name.
type ConfigNotFoundError struct {
	Platform string
	Tried    []string
}

// Error implements the error interface.
func (e *ConfigNotFoundError) Error() string {
	if len(e.Tried) == 0 {
		return fmt.Sprintf("configuration for platform %q not found", e.Platform)
	}
	return fmt.Sprintf("configuration for platform %q not found (tried %s)", e.Platform, strings.Join(e.Tried, ", "))
}

// Is matches ErrConfigNotFound.
func (e *ConfigNotFoundError) Is(target error) bool {
	return target == ErrConfigNotFound
}

// UnsupportedFormatError is returned by ingestion for unknown file extensions.
type UnsupportedFormatError struct {
	Path string
	Ext  string
}

// Error implements the error interface.
func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported file extension %q: %s", e.Ext, e.Path)
}

// Is matches ErrUnsupportedFormat.
func (e *UnsupportedFormatError) Is(target error) bool {
	return target == ErrUnsupportedFormat
}

// ConfigError reports a malformed ruleset definition.
type ConfigError struct {
	Source string
	Column string
	Err    error
}

// Error returns the formatted error string with context.
func (e *ConfigError) Error() string {
	var b strings.Builder
	if e.Source != "" {
		b.WriteString(e.Source)
		b.WriteString(": ")
	}
	if e.Column != "" {
		fmt.Fprintf(&b, "column %q: ", e.Column)
	}
	b.WriteString(e.Err.Error())
	return b.String()
}

// Unwrap returns the underlying error.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Is matches ErrInvalidConfig.
func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}
