// Package rhemaerr defines the sentinel error kinds shared across Rhema's
// core packages (§7 of the specification). Go has no tagged-union result
// type, so each kind is a distinct error type satisfying the standard
// errors.As/errors.Is protocol, following the teacher's
// storage.ErrDBNotInitialized sentinel-error convention.
package rhemaerr

import "fmt"

// FileNotFoundError is returned when a required file does not exist.
type FileNotFoundError struct {
	Path string
}

func (e *FileNotFoundError) Error() string {
	return fmt.Sprintf("file not found: %s", e.Path)
}

// InvalidYamlError is returned when a document file fails to parse or
// validate against its schema.
type InvalidYamlError struct {
	File    string
	Message string
}

func (e *InvalidYamlError) Error() string {
	return fmt.Sprintf("invalid yaml in %s: %s", e.File, e.Message)
}

// ValidationFailedError describes a single failed validation rule. It is
// accumulated, never thrown, by batch validation operations.
type ValidationFailedError struct {
	Rule  string
	Field string
}

func (e *ValidationFailedError) Error() string {
	return fmt.Sprintf("validation failed: rule %q on field %q", e.Rule, e.Field)
}

// ScopeNotFoundError is returned when a scope path does not resolve.
type ScopeNotFoundError struct {
	Path string
}

func (e *ScopeNotFoundError) Error() string {
	return fmt.Sprintf("scope not found: %s", e.Path)
}

// CircularDependencyError is returned by graph construction when a cycle is
// detected. Chain is the full stack from the root to the back-edge target.
type CircularDependencyError struct {
	Chain []string
}

func (e *CircularDependencyError) Error() string {
	return fmt.Sprintf("circular dependency: %v", e.Chain)
}

// NotFoundError is returned by document-store mutations that target a
// missing id.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

// ObjectTooLargeError is returned by the cache memory tier when a value
// exceeds max_size_mb.
type ObjectTooLargeError struct {
	Key     string
	SizeMB  float64
	LimitMB float64
}

func (e *ObjectTooLargeError) Error() string {
	return fmt.Sprintf("object %q too large: %.2fMB exceeds limit %.2fMB", e.Key, e.SizeMB, e.LimitMB)
}

// CacheFullError is returned when the cache cannot admit a new entry even
// after eviction.
type CacheFullError struct {
	Reason string
}

func (e *CacheFullError) Error() string {
	return fmt.Sprintf("cache full: %s", e.Reason)
}

// CompressionError wraps a failure to compress or decompress a cache entry.
// It is isolated to the single entry that failed.
type CompressionError struct {
	Key string
	Err error
}

func (e *CompressionError) Error() string {
	return fmt.Sprintf("compression error for %q: %v", e.Key, e.Err)
}

func (e *CompressionError) Unwrap() error { return e.Err }

// SerializationError wraps a gob encode/decode failure for a single entry.
type SerializationError struct {
	Key string
	Err error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("serialization error for %q: %v", e.Key, e.Err)
}

func (e *SerializationError) Unwrap() error { return e.Err }

// CancelledError is returned by long-running batch operations when the
// caller's cancellation token fires between steps.
type CancelledError struct {
	Completed int
	Total     int
}

func (e *CancelledError) Error() string {
	return fmt.Sprintf("cancelled after %d/%d", e.Completed, e.Total)
}

// TimedOutError is returned when a cache validation operation exceeds its
// per-operation timeout.
type TimedOutError struct {
	Operation string
}

func (e *TimedOutError) Error() string {
	return fmt.Sprintf("%s timed out", e.Operation)
}

// InvalidCommandError and InvalidQueryError surface user-facing mistakes
// from the CLI layer and the query facade; only InvalidCommandError carries
// an (optional) actionable suggestion.
type InvalidCommandError struct {
	Message    string
	Suggestion string
}

func (e *InvalidCommandError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("invalid command: %s (%s)", e.Message, e.Suggestion)
	}
	return fmt.Sprintf("invalid command: %s", e.Message)
}

type InvalidQueryError struct {
	Query   string
	Message string
}

func (e *InvalidQueryError) Error() string {
	return fmt.Sprintf("invalid query %q: %s", e.Query, e.Message)
}
