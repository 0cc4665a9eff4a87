package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors for domain operations
var (
	// ErrNotFound indicates the requested book does not exist
	ErrNotFound = errors.New("book not found")

	// ErrServerOffline indicates the book service is unreachable
	ErrServerOffline = errors.New("book service is unreachable")

	// ErrUnknownField indicates a toggle on a field that is not a flag
	ErrUnknownField = errors.New("unknown book field")
)

// TransportError is returned by every gateway operation that fails because
// the network is unreachable or the service answered with a non-2xx status.
type TransportError struct {
	Op     string // gateway operation, e.g. "get book"
	Method string
	Path   string
	Status int // 0 when no response was received
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: %s %s: status %d: %v", e.Op, e.Method, e.Path, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %s %s: %v", e.Op, e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsTransport reports whether err is (or wraps) a TransportError
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// ValidationError lists the offending fields of a record, keyed by JSON name
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = name + " " + e.Fields[name]
	}
	return "validation failed: " + strings.Join(parts, ", ")
}
