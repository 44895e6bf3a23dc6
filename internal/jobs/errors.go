// Package jobs classifies Prow job links into the platform and job-type
// profile used to build every artifact URL for that job run.
package jobs

import "fmt"

// ClassificationError is returned when a link carries no recognizable
// job-type segment, so no artifact URL can be built for it.
type ClassificationError struct {
	Link    string
	Message string
	Cause   error
}

func (e *ClassificationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("classification error for %s: %s: %v", e.Link, e.Message, e.Cause)
	}
	return fmt.Sprintf("classification error for %s: %s", e.Link, e.Message)
}

func (e *ClassificationError) Unwrap() error {
	return e.Cause
}
