package extract

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ocp-power-automation/ci-monitoring-automation/internal/fetch"
)

// Suite names an e2e result source.
type Suite string

const (
	SuiteConformance      Suite = "conformance"
	SuiteMonitor          Suite = "monitor"
	SuiteSymptomDetection Suite = "symptom_detection"
)

// SuiteState says whether a suite's failure list can be trusted.
type SuiteState int

const (
	// SuiteParsed means Failures is the complete list (possibly empty).
	SuiteParsed SuiteState = iota
	// SuiteExtractionFailed means the suite's artifacts could not be read.
	SuiteExtractionFailed
	// SuiteNotApplicable means the job does not produce this suite.
	SuiteNotApplicable
)

func (s SuiteState) String() string {
	switch s {
	case SuiteParsed:
		return "parsed"
	case SuiteExtractionFailed:
		return "extraction failed"
	default:
		return "not applicable"
	}
}

// SuiteResult is the outcome of one suite.
type SuiteResult struct {
	Suite    Suite
	State    SuiteState
	Failures []string
	Err      error
}

// NewSuiteResult builds the result of an extraction attempt.
func NewSuiteResult(suite Suite, failures []string, err error) SuiteResult {
	if err != nil {
		return SuiteResult{Suite: suite, State: SuiteExtractionFailed, Err: err}
	}
	if failures == nil {
		failures = []string{}
	}
	return SuiteResult{Suite: suite, State: SuiteParsed, Failures: failures}
}

// TestFailureSet holds per-suite results in the order they were added.
type TestFailureSet struct {
	Results []SuiteResult
}

// Add records a suite result. A later result for the same suite replaces
// the earlier one.
func (s *TestFailureSet) Add(r SuiteResult) {
	for i := range s.Results {
		if s.Results[i].Suite == r.Suite {
			s.Results[i] = r
			return
		}
	}
	s.Results = append(s.Results, r)
}

// Get returns the result recorded for suite.
func (s *TestFailureSet) Get(suite Suite) (SuiteResult, bool) {
	for _, r := range s.Results {
		if r.Suite == suite {
			return r, true
		}
	}
	return SuiteResult{}, false
}

// Total returns the number of failed testcases across parsed suites. ok is
// false when any suite failed extraction, in which case the count is only
// a lower bound.
func (s *TestFailureSet) Total() (count int, ok bool) {
	ok = true
	for _, r := range s.Results {
		switch r.State {
		case SuiteParsed:
			count += len(r.Failures)
		case SuiteExtractionFailed:
			ok = false
		}
	}
	return count, ok
}

func (s *TestFailureSet) applicable() int {
	n := 0
	for _, r := range s.Results {
		if r.State != SuiteNotApplicable {
			n++
		}
	}
	return n
}

// Passed reports whether every applicable suite parsed with no failures.
func (s *TestFailureSet) Passed() bool {
	total, ok := s.Total()
	return ok && total == 0 && s.applicable() > 0
}

// Summary renders the one-line test result used in brief reports.
func (s *TestFailureSet) Summary() string {
	if s.applicable() == 0 {
		return "N/A"
	}

	total, ok := s.Total()
	if ok {
		if total == 0 {
			return "PASS"
		}
		return fmt.Sprintf("%d testcases failed", total)
	}

	var parts []string
	for _, r := range s.Results {
		switch r.State {
		case SuiteExtractionFailed:
			parts = append(parts, fmt.Sprintf("%s: %s", r.Suite, Describe(r.Err)))
		case SuiteParsed:
			if len(r.Failures) == 0 {
				parts = append(parts, fmt.Sprintf("%s: PASS", r.Suite))
			} else {
				parts = append(parts, fmt.Sprintf("%d %s testcases failed", len(r.Failures), r.Suite))
			}
		}
	}
	return strings.Join(parts, "; ")
}

// Describe renders an extraction or fetch error as report text.
func Describe(err error) string {
	if err == nil {
		return ""
	}

	var fetchErr *fetch.Error
	var formatErr *FormatError
	switch {
	case errors.Is(err, ErrNotFound):
		return "Test summary file not found"
	case fetch.IsTimeout(err):
		return "Request timed out"
	case errors.As(err, &fetchErr) && fetchErr.Kind == fetch.KindStatus:
		return fmt.Sprintf("Failed to get response (HTTP %d)", fetchErr.StatusCode)
	case errors.As(err, &fetchErr):
		return "Failed to get response"
	case errors.As(err, &formatErr):
		return "Failed to parse " + formatErr.Artifact
	default:
		return err.Error()
	}
}
