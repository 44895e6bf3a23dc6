// Package artifacts builds and fetches the per-job artifact URLs served by
// gcsweb for a classified job run.
package artifacts

import (
	"errors"
	"fmt"

	"github.com/ocp-power-automation/ci-monitoring-automation/internal/jobs"
)

// ErrNotApplicable means the platform does not produce the requested artifact.
var ErrNotApplicable = errors.New("artifact not applicable for platform")

// Step directory names under artifacts/<job_type>/.
const (
	StepPowerVSInstall  = "ipi-install-powervs-install"
	StepLibvirtInstall  = "ipi-install-libvirt-install"
	StepSNOInstall      = "upi-install-powervs-sno"
	StepMCEInstall      = "hypershift-mce-install"
	StepMCEPowerCreate  = "hypershift-mce-power-create"
	StepGatherExtra     = "gather-extra"
	StepGatherLibvirt   = "gather-libvirt"
	StepConformance     = "conformance-tests"
	StepLibvirtE2E      = "openshift-e2e-libvirt-test"
	StepKdumpGatherLogs = "ipi-conf-debug-kdump-gather-logs"
)

// Stage is one install step whose finished.json carries a result.
type Stage struct {
	Name string
	Step string
}

// Layout is the artifact directory layout of one platform.
type Layout struct {
	Install []Stage
	// NodeStep holds oc_cmds/nodes; empty when the platform gathers none.
	NodeStep string
	// HasTests is false for platforms that run no e2e suites.
	HasTests bool
}

var layouts = map[jobs.Platform]Layout{
	jobs.PlatformPowerVS: {
		Install:  []Stage{{Name: "install", Step: StepPowerVSInstall}},
		NodeStep: StepGatherExtra,
		HasTests: true,
	},
	jobs.PlatformLibvirt: {
		Install:  []Stage{{Name: "install", Step: StepLibvirtInstall}},
		NodeStep: StepGatherLibvirt,
		HasTests: true,
	},
	jobs.PlatformSNO: {
		Install: []Stage{{Name: "install", Step: StepSNOInstall}},
	},
	jobs.PlatformMCE: {
		Install: []Stage{
			{Name: "MCE install", Step: StepMCEInstall},
			{Name: "MCE power create", Step: StepMCEPowerCreate},
		},
		NodeStep: StepGatherExtra,
		HasTests: true,
	},
}

// LayoutFor returns the layout of platform.
func LayoutFor(platform jobs.Platform) (Layout, error) {
	layout, ok := layouts[platform]
	if !ok {
		return Layout{}, fmt.Errorf("no artifact layout for platform %q: %w", platform, ErrNotApplicable)
	}
	return layout, nil
}

// TestStep returns the step that holds the e2e JUnit artifacts. powervs and
// libvirt moved from openshift-e2e-libvirt-test to conformance-tests in 4.16.
func TestStep(ref jobs.Reference) (string, error) {
	layout, err := LayoutFor(ref.Platform)
	if err != nil {
		return "", err
	}
	if !layout.HasTests {
		return "", fmt.Errorf("%s has no e2e suites: %w", ref.Platform, ErrNotApplicable)
	}
	if ref.Platform == jobs.PlatformMCE || ref.Release.AtLeast(4, 16) {
		return StepConformance, nil
	}
	return StepLibvirtE2E, nil
}

// HasSymptoms reports whether the platform gathers junit_symptoms.xml.
func HasSymptoms(platform jobs.Platform) bool {
	layout, err := LayoutFor(platform)
	return err == nil && layout.NodeStep == StepGatherExtra
}

// HasMonitorSuite reports whether the release runs the monitor suite.
func HasMonitorSuite(ref jobs.Reference) bool {
	return ref.Release.AtLeast(4, 15)
}
