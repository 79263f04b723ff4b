// Package utils provides helpers shared by the NeXus packages.
package utils

import "fmt"

// NXError is a contextual error: the operation that failed, the NeXus
// object it failed on, and the cause.
type NXError struct {
	Context string
	Path    string // absolute object path; empty when not tied to one
	Cause   error
}

// Error implements the error interface.
func (e *NXError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Context, e.Cause)
	}
	return fmt.Sprintf("%s %s: %v", e.Context, e.Path, e.Cause)
}

// Unwrap provides compatibility with errors.Unwrap().
func (e *NXError) Unwrap() error {
	return e.Cause
}

// WrapError creates a contextual error. It returns nil when cause is nil.
func WrapError(context string, cause error) error {
	return WrapPathError(context, "", cause)
}

// WrapPathError is WrapError for a failure on the object at path.
func WrapPathError(context, path string, cause error) error {
	if cause == nil {
		return nil
	}
	return &NXError{
		Context: context,
		Path:    path,
		Cause:   cause,
	}
}
