package monitor

import (
	"context"

	"github.com/ocp-power-automation/ci-monitoring-automation/internal/prow"
)

// Brief builds one summary record per run of src. A listing failure is
// returned; per-job failures are folded into the records.
func (m *Monitor) Brief(ctx context.Context, src Source, opts Options) (*Report, error) {
	builds, err := m.List(ctx, src, opts)
	if err != nil {
		return nil, err
	}

	report := &Report{RunID: m.RunID.String(), Source: src.Name, Jobs: make([]JobSummary, 0, len(builds))}
	for _, build := range builds {
		summary, ok := m.briefJob(ctx, src, build, opts, &report.Totals)
		if !ok {
			continue
		}
		report.Jobs = append(report.Jobs, summary)
	}
	return report, nil
}

// briefJob runs the pipeline for one run. ok is false when the zone filter
// drops it.
func (m *Monitor) briefJob(ctx context.Context, src Source, build prow.Build, opts Options, totals *Totals) (JobSummary, bool) {
	r := m.classify(build)
	summary := JobSummary{
		Build:      src.Name,
		JobID:      r.Ref.ID,
		Link:       m.JobLink(r.Ref),
		TestResult: "N/A",
	}

	if r.Unclassified {
		totals.Considered++
		summary.InstallStatus = r.status()
		summary.Lease = r.Lease.String()
		summary.Nightly = r.Nightly.String()
		return summary, true
	}

	m.leaseAndNightly(ctx, r)
	if !opts.allowsZone(r.Lease.String()) {
		m.logf("skipping %s: lease %q not in zone filter", r.Ref.ID, r.Lease)
		return JobSummary{}, false
	}
	totals.Considered++

	m.deployStatus(ctx, r)
	summary.InstallStatus = r.status()
	summary.Lease = r.Lease.String()
	summary.Nightly = r.Nightly.String()

	if r.Deploy.Succeeded() {
		totals.Deploys++
		r.Tests = m.testFailures(ctx, r.Ref)
		summary.TestResult = r.Tests.Summary()
		if r.Tests.Passed() {
			totals.E2E++
		}
	}
	return summary, true
}
