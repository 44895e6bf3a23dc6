package prow

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/ocp-power-automation/ci-monitoring-automation/internal/fetch"
)

// DefaultBaseURL is the public OpenShift Prow instance.
const DefaultBaseURL = "https://prow.ci.openshift.org"

// JobHistoryPath prefixes every job-history listing.
const JobHistoryPath = "/job-history/gs/origin-ci-test/logs/"

// Lister walks job-history pages for a single Prow job.
type Lister struct {
	BaseURL string
	Options *fetch.Options
	// UseBrowser re-renders a page in headless Chrome when the plain HTTP
	// response carries no builds script.
	UseBrowser bool
	Verbose    bool
	// Now is the clock used by Today; defaults to time.Now.
	Now func() time.Time
}

// NewLister creates a Lister for baseURL. An empty baseURL means DefaultBaseURL.
func NewLister(baseURL string, opts *fetch.Options) *Lister {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if opts == nil {
		opts = fetch.DefaultOptions()
	}
	return &Lister{
		BaseURL: baseURL,
		Options: opts,
		Now:     time.Now,
	}
}

// ListingURL returns the first job-history page for jobName.
func (l *Lister) ListingURL(jobName string) string {
	return l.BaseURL + JobHistoryPath + jobName
}

// FetchPage downloads and parses one job-history page.
func (l *Lister) FetchPage(ctx context.Context, pageURL string) (*Page, error) {
	result, err := fetch.URL(ctx, pageURL, l.Options)
	if err != nil {
		return nil, err
	}

	page, err := ParsePage(result.Body, pageURL, l.BaseURL)
	var extractErr *ExtractionError
	if err == nil || !l.UseBrowser || !errors.As(err, &extractErr) {
		return page, err
	}

	if l.Verbose {
		log.Printf("[LISTER] %v, retrying with headless browser", err)
	}
	html, browserErr := fetch.BrowserSimple(ctx, pageURL, l.Verbose)
	if browserErr != nil {
		if l.Verbose {
			log.Printf("[LISTER] Browser rendering failed: %v", browserErr)
		}
		return nil, err
	}
	return ParsePage(html, pageURL, l.BaseURL)
}

// Today returns the finished runs on the first page of jobName that started
// on the current calendar day (UTC).
func (l *Lister) Today(ctx context.Context, jobName string) ([]Build, error) {
	page, err := l.FetchPage(ctx, l.ListingURL(jobName))
	if err != nil {
		return nil, err
	}

	today := Day(l.now())
	builds := make([]Build, 0)
	for _, b := range page.Builds {
		if b.Result == ResultPending {
			continue
		}
		if Day(b.Started).Equal(today) {
			builds = append(builds, b)
		}
	}
	return builds, nil
}

// Range returns the finished runs of jobName whose start day falls in
// [end, start], following "Older Runs" pages while the next page's newest
// run is not older than end. The listing is newest-first, so a next page
// that starts before end cannot hold anything in the window.
//
// A failure on the first page is returned. A failure on a later page ends
// the walk and the runs collected so far are returned.
func (l *Lister) Range(ctx context.Context, jobName string, start, end time.Time) ([]Build, error) {
	startDay, endDay := Day(start), Day(end)
	if startDay.Before(endDay) {
		return nil, &RangeError{Start: FormatDay(start), End: FormatDay(end)}
	}

	page, err := l.FetchPage(ctx, l.ListingURL(jobName))
	if err != nil {
		return nil, err
	}

	visited := map[string]bool{page.URL: true}
	builds := make([]Build, 0)
	for {
		builds = appendInRange(builds, page.Builds, startDay, endDay)

		if page.NextURL == "" || visited[page.NextURL] {
			break
		}
		next, err := l.FetchPage(ctx, page.NextURL)
		if err != nil {
			log.Printf("[LISTER] Error while fetching the job links from %s: %v", page.NextURL, err)
			break
		}
		if len(next.Builds) == 0 || Day(next.Builds[0].Started).Before(endDay) {
			break
		}
		if l.Verbose {
			log.Printf("[LISTER] Following older runs: %s", next.URL)
		}
		visited[next.URL] = true
		page = next
	}

	return builds, nil
}

// Latest returns the n most recent finished runs of jobName, following
// "Older Runs" pages until n are collected or the history ends. As with
// Range, a failure on a later page keeps the runs collected so far.
func (l *Lister) Latest(ctx context.Context, jobName string, n int) ([]Build, error) {
	if n <= 0 {
		return nil, fmt.Errorf("run count must be positive, got %d", n)
	}

	page, err := l.FetchPage(ctx, l.ListingURL(jobName))
	if err != nil {
		return nil, err
	}

	visited := map[string]bool{page.URL: true}
	builds := make([]Build, 0, n)
	for {
		for _, b := range page.Builds {
			if b.Result == ResultPending {
				continue
			}
			builds = append(builds, b)
			if len(builds) == n {
				return builds, nil
			}
		}

		if page.NextURL == "" || visited[page.NextURL] {
			break
		}
		next, err := l.FetchPage(ctx, page.NextURL)
		if err != nil {
			log.Printf("[LISTER] Error while fetching the job links from %s: %v", page.NextURL, err)
			break
		}
		visited[next.URL] = true
		page = next
	}

	return builds, nil
}

func appendInRange(dst, builds []Build, startDay, endDay time.Time) []Build {
	for _, b := range builds {
		if b.Result == ResultPending {
			continue
		}
		day := Day(b.Started)
		if !day.Before(endDay) && !day.After(startDay) {
			dst = append(dst, b)
		}
	}
	return dst
}

func (l *Lister) now() time.Time {
	if l.Now == nil {
		return time.Now()
	}
	return l.Now()
}

// DayLayout is the YYYY-MM-DD layout used for date windows.
const DayLayout = "2006-01-02"

// Day truncates t to midnight UTC of its calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDay parses a YYYY-MM-DD date.
func ParseDay(s string) (time.Time, error) {
	t, err := time.Parse(DayLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", s, err)
	}
	return t, nil
}

// FormatDay renders t as YYYY-MM-DD.
func FormatDay(t time.Time) string {
	return Day(t).Format(DayLayout)
}
