package monitor

import (
	"errors"
	"slices"
	"time"

	"github.com/ocp-power-automation/ci-monitoring-automation/internal/fetch"
	"github.com/ocp-power-automation/ci-monitoring-automation/internal/prow"
)

// StatusUnclassified is the install status of a job whose link could not
// be classified.
const StatusUnclassified = "UNCLASSIFIED"

// Source is one Prow job to monitor.
type Source struct {
	// Name labels the source in reports.
	Name string `json:"name" yaml:"name"`
	// Link is the Prow job name, the last element of its job-history URL.
	Link string `json:"link" yaml:"link"`
}

// Options narrows the runs a report covers.
type Options struct {
	// Start and End bound a date window [End, Start]. When both are zero
	// only today's runs are reported.
	Start time.Time
	End   time.Time
	// Count, when positive and no window is set, selects the most recent
	// finished runs instead of today's.
	Count int
	// Zones, when non-empty, keeps only runs whose lease is listed.
	Zones []string
}

// HasRange reports whether a date window was requested.
func (o Options) HasRange() bool {
	return !o.Start.IsZero() && !o.End.IsZero()
}

// allowsZone reports whether a job holding lease passes the zone filter.
func (o Options) allowsZone(lease string) bool {
	return len(o.Zones) == 0 || slices.Contains(o.Zones, lease)
}

// JobSummary is the brief report record of one run.
type JobSummary struct {
	Build         string `json:"build"`
	JobID         string `json:"prow_job_id"`
	Link          string `json:"link"`
	InstallStatus string `json:"install_status"`
	Lease         string `json:"lease"`
	Nightly       string `json:"nightly"`
	TestResult    string `json:"test_result"`
}

// Totals are the batch counters of one source.
type Totals struct {
	Considered int `json:"considered"`
	Deploys    int `json:"deploys_succeeded"`
	E2E        int `json:"e2e_succeeded"`
}

// Report is the brief report of one source.
type Report struct {
	RunID  string       `json:"run_id"`
	Source string       `json:"source"`
	Jobs   []JobSummary `json:"jobs"`
	Totals Totals       `json:"totals"`
	// ListingError is set when the runs of the source could not be listed.
	ListingError string `json:"listing_error,omitempty"`
}

// ListingFailure renders a lister error as report text.
func ListingFailure(err error) string {
	var extractErr *prow.ExtractionError
	var rangeErr *prow.RangeError
	switch {
	case errors.As(err, &extractErr):
		return "Failed to extract the spy-links from spylink please check the UI!"
	case errors.As(err, &rangeErr):
		return rangeErr.Error()
	case fetch.IsTimeout(err):
		return "Timed out while fetching the prowCI response"
	default:
		return "Failed to get the prowCI response"
	}
}
