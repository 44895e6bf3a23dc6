// Package prow lists CI job runs from Prow's job-history pages.
package prow

import "fmt"

// ExtractionError means a job-history page was fetched but carried no
// usable allBuilds array.
type ExtractionError struct {
	URL     string
	Message string
	Cause   error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("build extraction error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("build extraction error for %s: %s", e.URL, e.Message)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

// RangeError reports an inverted date window.
type RangeError struct {
	Start string
	End   string
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("invalid date range: start date %s is before end date %s", e.Start, e.End)
}
