// Package monitor runs the per-job pipeline over a batch of Prow runs and
// aggregates the results into brief or detailed reports.
package monitor

import (
	"context"
	"errors"
	"log"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/ocp-power-automation/ci-monitoring-automation/internal/artifacts"
	"github.com/ocp-power-automation/ci-monitoring-automation/internal/extract"
	"github.com/ocp-power-automation/ci-monitoring-automation/internal/jobs"
	"github.com/ocp-power-automation/ci-monitoring-automation/internal/observability"
	"github.com/ocp-power-automation/ci-monitoring-automation/internal/prow"
)

// Monitor processes the runs of CI sources one job at a time.
type Monitor struct {
	Lister    *prow.Lister
	Artifacts *artifacts.Client
	Printer   *observability.Printer
	Verbose   bool
	// RunID tags every report and log line of one invocation.
	RunID uuid.UUID
}

// New creates a Monitor with a fresh RunID.
func New(lister *prow.Lister, client *artifacts.Client, printer *observability.Printer) *Monitor {
	return &Monitor{
		Lister:    lister,
		Artifacts: client,
		Printer:   printer,
		RunID:     uuid.New(),
	}
}

func (m *Monitor) logf(format string, args ...any) {
	if m.Verbose {
		log.Printf("[MONITOR] %s "+format, append([]any{m.RunID.String()}, args...)...)
	}
}

// List returns the runs of src selected by opts.
func (m *Monitor) List(ctx context.Context, src Source, opts Options) ([]prow.Build, error) {
	if opts.HasRange() {
		m.logf("listing %s from %s back to %s", src.Name, prow.FormatDay(opts.Start), prow.FormatDay(opts.End))
		return m.Lister.Range(ctx, src.Link, opts.Start, opts.End)
	}
	if opts.Count > 0 {
		m.logf("listing the latest %d runs of %s", opts.Count, src.Name)
		return m.Lister.Latest(ctx, src.Link, opts.Count)
	}
	m.logf("listing today's runs of %s", src.Name)
	return m.Lister.Today(ctx, src.Link)
}

// JobLink is the Prow URL of a run.
func (m *Monitor) JobLink(ref jobs.Reference) string {
	return strings.TrimSuffix(m.Lister.BaseURL, "/") + ref.Link
}

// jobResult is everything extracted about one run.
type jobResult struct {
	Ref          jobs.Reference
	Unclassified bool
	Lease        extract.Lease
	Nightly      extract.Nightly
	Deploy       extract.DeployStatus
	FailedStage  *artifacts.Stage
	Tests        extract.TestFailureSet
}

// status renders the install column of a run.
func (r *jobResult) status() string {
	if r.Unclassified {
		return StatusUnclassified
	}
	return r.Deploy.String()
}

// classify parses a listed run. An unclassifiable run is reported, never
// fetched.
func (m *Monitor) classify(build prow.Build) *jobResult {
	ref, err := jobs.Parse(build.SpyglassLink)
	if ref.ID == "" {
		ref.ID = build.ID
	}
	result := &jobResult{Ref: ref}
	if err != nil {
		m.logf("%v", err)
		result.Unclassified = true
	}
	return result
}

// leaseAndNightly reads the job-level build log.
func (m *Monitor) leaseAndNightly(ctx context.Context, r *jobResult) {
	upgrade := strings.Contains(m.Artifacts.BuildLogURL(r.Ref), "upgrade")
	body, err := m.Artifacts.BuildLog(ctx, r.Ref)
	if err != nil {
		m.logf("build log of %s: %v", r.Ref.ID, err)
		r.Nightly = extract.Nightly{Upgrade: upgrade}
		return
	}
	r.Lease = extract.ExtractLease(body, r.Ref.Platform, r.Ref.Arch)
	r.Nightly = extract.ExtractNightly(body, r.Ref.Arch, upgrade)
}

// deployStatus reads every install stage.
func (m *Monitor) deployStatus(ctx context.Context, r *jobResult) {
	docs, err := m.Artifacts.InstallResults(ctx, r.Ref)
	if err != nil {
		m.logf("install results of %s: %v", r.Ref.ID, err)
		r.Deploy = extract.DeployStatus{State: extract.StateError}
		return
	}

	stages := make([]extract.StageOutcome, 0, len(docs))
	for _, doc := range docs {
		if doc.Err != nil {
			m.logf("%s of %s: %v", doc.Stage.Name, r.Ref.ID, doc.Err)
		}
		stages = append(stages, extract.StageOutcome{Name: doc.Stage.Name, Body: doc.Body, Err: doc.Err})
	}
	r.Deploy = extract.DeployStatusFrom(stages)
	if i := extract.FailedStage(stages); i >= 0 {
		r.FailedStage = &docs[i].Stage
	}
}

// testFailures collects every suite the run produces.
func (m *Monitor) testFailures(ctx context.Context, ref jobs.Reference) extract.TestFailureSet {
	var set extract.TestFailureSet
	if _, err := artifacts.TestStep(ref); err != nil {
		return set
	}

	listing, listErr := m.Artifacts.JUnitListing(ctx, ref)

	names, err := []string(nil), listErr
	if listErr == nil {
		names, err = m.summaryFailures(ctx, ref, listing, extract.ConformanceSummaryPattern)
	}
	set.Add(extract.NewSuiteResult(extract.SuiteConformance, names, err))

	if artifacts.HasMonitorSuite(ref) {
		names, err = nil, listErr
		if listErr == nil {
			names, err = m.monitorFailures(ctx, ref, listing)
		}
		set.Add(extract.NewSuiteResult(extract.SuiteMonitor, names, err))
	} else {
		set.Add(extract.SuiteResult{Suite: extract.SuiteMonitor, State: extract.SuiteNotApplicable})
	}

	if artifacts.HasSymptoms(ref.Platform) {
		names, err = m.symptomFailures(ctx, ref)
		set.Add(extract.NewSuiteResult(extract.SuiteSymptomDetection, names, err))
	} else {
		set.Add(extract.SuiteResult{Suite: extract.SuiteSymptomDetection, State: extract.SuiteNotApplicable})
	}

	for _, r := range set.Results {
		if r.Err != nil {
			m.logf("%s suite of %s: %v", r.Suite, ref.ID, r.Err)
		}
	}
	return set
}

// summaryFailures reads the JSON failure summary matching pattern.
func (m *Monitor) summaryFailures(ctx context.Context, ref jobs.Reference, listing string, pattern *regexp.Regexp) ([]string, error) {
	name, err := extract.FindSummaryFile(listing, pattern)
	if err != nil {
		return nil, err
	}
	body, err := m.Artifacts.JUnitFile(ctx, ref, name)
	if err != nil {
		return nil, err
	}
	return extract.ParseFailureSummary(body)
}

// monitorFailures prefers the JSON monitor summary and falls back to the
// monitor JUnit report.
func (m *Monitor) monitorFailures(ctx context.Context, ref jobs.Reference, listing string) ([]string, error) {
	failures, err := m.summaryFailures(ctx, ref, listing, extract.MonitorSummaryPattern)
	if !errors.Is(err, extract.ErrNotFound) {
		return failures, err
	}

	name, err := extract.FindSummaryFile(listing, extract.MonitorJUnitPattern)
	if err != nil {
		return nil, err
	}
	body, err := m.Artifacts.JUnitFile(ctx, ref, name)
	if err != nil {
		return nil, err
	}
	return extract.ParseMonitorJUnit(body)
}

func (m *Monitor) symptomFailures(ctx context.Context, ref jobs.Reference) ([]string, error) {
	body, err := m.Artifacts.Symptoms(ctx, ref)
	if err != nil {
		return nil, err
	}
	return extract.ParseSymptomJUnit(body)
}
