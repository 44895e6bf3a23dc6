package monitor

import (
	"context"
	"errors"

	"github.com/ocp-power-automation/ci-monitoring-automation/internal/artifacts"
	"github.com/ocp-power-automation/ci-monitoring-automation/internal/extract"
	"github.com/ocp-power-automation/ci-monitoring-automation/internal/jobs"
	"github.com/ocp-power-automation/ci-monitoring-automation/internal/prow"
)

// Detailed prints a transcript of every run of src followed by the batch
// totals, and returns the totals.
func (m *Monitor) Detailed(ctx context.Context, src Source, opts Options) (Totals, error) {
	var totals Totals
	p := m.Printer

	p.Rule()
	p.Heading(src.Name)

	builds, err := m.List(ctx, src, opts)
	if err != nil {
		p.Error("%s", ListingFailure(err))
		return totals, err
	}

	for _, build := range builds {
		m.detailedJob(ctx, build, opts, &totals)
	}

	if totals.Considered == 0 {
		p.Line("No job runs on %s ", src.Name)
		return totals, nil
	}
	p.Blank()
	p.PrintTotals(src.Name, totals.Deploys, totals.E2E, totals.Considered)
	p.Rule()
	return totals, nil
}

func (m *Monitor) detailedJob(ctx context.Context, build prow.Build, opts Options, totals *Totals) {
	p := m.Printer
	r := m.classify(build)

	if r.Unclassified {
		totals.Considered++
		p.PrintJobHeader(totals.Considered, r.Ref.ID, m.JobLink(r.Ref))
		p.Warn("Unable to classify the job, skipping artifact checks")
		p.Blank()
		return
	}

	m.leaseAndNightly(ctx, r)
	if !opts.allowsZone(r.Lease.String()) {
		m.logf("skipping %s: lease %q not in zone filter", r.Ref.ID, r.Lease)
		return
	}
	totals.Considered++
	m.deployStatus(ctx, r)

	p.PrintJobHeader(totals.Considered, r.Ref.ID, m.JobLink(r.Ref))
	p.Line("Lease Quota- %s", r.Lease)
	p.Line("Nightly info- %s", r.Nightly)
	m.printCrash(ctx, r.Ref)
	m.printNodes(ctx, r.Ref)

	switch r.Deploy.State {
	case extract.StateSuccess:
		totals.Deploys++
		r.Tests = m.testFailures(ctx, r.Ref)
		if m.printTests(r.Ref, &r.Tests) {
			totals.E2E++
		}
	case extract.StateFailure:
		p.Error("Cluster Creation Failed")
		if r.Deploy.Detail != "" {
			p.Line("%s", r.Deploy.Detail)
		}
		m.printInstallExcerpt(ctx, r)
	default:
		if r.Deploy.Detail != "" {
			p.Line("%s", r.Deploy.Detail)
		}
		p.Warn("Unable to get cluster status please check prowCI UI ")
	}
	p.Blank()
}

func (m *Monitor) printCrash(ctx context.Context, ref jobs.Reference) {
	listing, err := m.Artifacts.CrashListing(ctx, ref)
	if err != nil {
		m.logf("kdump listing of %s: %v", ref.ID, err)
	}
	if err == nil && extract.CrashObserved(listing) {
		m.Printer.Banner("ERROR- Crash observed in the job")
		return
	}
	m.Printer.Line("No crash observed")
}

func (m *Monitor) printNodes(ctx context.Context, ref jobs.Reference) {
	listing, err := m.Artifacts.Nodes(ctx, ref)
	switch {
	case errors.Is(err, artifacts.ErrNotApplicable):
		m.Printer.Line("%s", extract.NodesNotApplicable)
	case err != nil:
		m.logf("node listing of %s: %v", ref.ID, err)
		m.Printer.Line("%s", extract.NodesNotFound)
	default:
		m.Printer.Line("%s", extract.NodeStatus(listing, ref.Platform))
	}
}

// printTests prints the suite results of a deployed run and reports whether
// every suite passed.
func (m *Monitor) printTests(ref jobs.Reference, set *extract.TestFailureSet) bool {
	p := m.Printer
	if len(set.Results) == 0 {
		p.Line("No e2e suites run on %s", ref.Platform)
		return false
	}
	if set.Passed() {
		p.Success("All e2e testcases passed")
		return true
	}

	for _, r := range set.Results {
		switch r.State {
		case extract.SuiteExtractionFailed:
			p.Warn("%s: %s", r.Suite, extract.Describe(r.Err))
		case extract.SuiteParsed:
			if len(r.Failures) == 0 {
				p.Success("All %s testcases passed", r.Suite)
			} else {
				p.PrintList("Failed "+string(r.Suite)+" testcases: ", r.Failures)
			}
		}
	}

	if total, ok := set.Total(); ok {
		p.Error("%d testcases failed", total)
	}
	return false
}

// printInstallExcerpt prints the failure excerpt of the first install stage
// that did not succeed.
func (m *Monitor) printInstallExcerpt(ctx context.Context, r *jobResult) {
	ref := r.Ref
	if r.FailedStage == nil {
		m.Printer.Warn("Error while fetching cluster installation logs")
		return
	}
	installLog, err := m.Artifacts.InstallLog(ctx, ref, *r.FailedStage)
	if err != nil {
		m.logf("install log of %s: %v", ref.ID, err)
		m.Printer.Warn("Error while fetching cluster installation logs")
		return
	}
	lines, err := extract.InstallFailureExcerpt(installLog, ref.Platform)
	if err != nil {
		m.Printer.Line("No failure marker found in the installation log")
		return
	}
	for _, line := range lines {
		m.Printer.Line("%s", line)
	}
}
