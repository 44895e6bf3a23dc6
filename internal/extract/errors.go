// Package extract turns fetched CI artifacts (JSON, plain text, JUnit XML)
// into structured job results. Every function here is pure: callers fetch,
// this package parses.
package extract

import (
	"errors"
	"fmt"
)

// ErrNotFound means an expected marker or file name was absent from an
// artifact that was otherwise readable.
var ErrNotFound = errors.New("not found")

// FormatError represents an artifact that could not be parsed.
type FormatError struct {
	Artifact string
	Message  string
	Cause    error
}

func (e *FormatError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("format error in %s: %s: %v", e.Artifact, e.Message, e.Cause)
	}
	return fmt.Sprintf("format error in %s: %s", e.Artifact, e.Message)
}

func (e *FormatError) Unwrap() error {
	return e.Cause
}
