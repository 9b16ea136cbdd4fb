package models

import "fmt"

// LockfileParseError is returned when a lockfile cannot be decoded
type LockfileParseError struct {
	Path string
	Err  error
}

// Error implements the error interface
func (e *LockfileParseError) Error() string {
	return fmt.Sprintf("failed to parse lockfile %s: %v", e.Path, e.Err)
}

// Unwrap returns the wrapped error
func (e *LockfileParseError) Unwrap() error {
	return e.Err
}

// MissingPackageSourceError is returned when a package has no source to
// attribute its origin to.
type MissingPackageSourceError struct {
	Name    string
	Version string
}

// Error implements the error interface
func (e *MissingPackageSourceError) Error() string {
	return fmt.Sprintf("package %s %s has no source", e.Name, e.Version)
}
