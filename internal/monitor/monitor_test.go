package monitor

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ocp-power-automation/ci-monitoring-automation/internal/artifacts"
	"github.com/ocp-power-automation/ci-monitoring-automation/internal/observability"
	"github.com/ocp-power-automation/ci-monitoring-automation/internal/prow"
)

const (
	listedJob  = "periodic-ci-openshift-multiarch-master-nightly-ppc64le"
	libvirtJob = "periodic-ci-openshift-multiarch-master-nightly-4.14-ocp-e2e-ovn-remote-libvirt-ppc64le"
	powervsJob = "periodic-ci-openshift-multiarch-master-nightly-4.15-ocp-e2e-ovn-ppc64le-powervs"
	mceJob     = "periodic-ci-openshift-hypershift-release-4.15-periodics-mce-e2e-mce-power-conformance"
	logsPath   = "/origin-ci-test/logs/"
)

type listedRun struct {
	job     string
	id      string
	started string
	result  string
}

func historyPage(runs []listedRun) string {
	parts := make([]string, 0, len(runs))
	for _, r := range runs {
		parts = append(parts, fmt.Sprintf(
			`{"SpyglassLink":"/view/gs%s%s/%s","ID":"%s","Started":"%s","Duration":0,"Result":"%s"}`,
			logsPath, r.job, r.id, r.id, r.started, r.result))
	}
	return "<html><head><script>var allBuilds = [" + strings.Join(parts, ",") + "];</script></head><body></body></html>"
}

func artifactPath(job, id, suffix string) string {
	return "/gcs" + logsPath + job + "/" + id + suffix
}

// testEnv serves Prow job history and gcsweb artifacts from one server.
type testEnv struct {
	server *httptest.Server
	files  map[string]string
}

func newTestEnv(t *testing.T, runs []listedRun) *testEnv {
	t.Helper()
	env := &testEnv{files: map[string]string{
		prow.JobHistoryPath + listedJob: historyPage(runs),
	}}
	env.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := env.files[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(env.server.Close)
	return env
}

func (e *testEnv) monitor(out *bytes.Buffer) *Monitor {
	lister := prow.NewLister(e.server.URL, nil)
	lister.Now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	client := artifacts.NewClient(e.server.URL+"/gcs", nil)
	return New(lister, client, observability.NewPrinter(out))
}

// addLibvirtRun publishes a deployed libvirt run with one failed conformance testcase.
func (e *testEnv) addLibvirtRun(id string) {
	step := artifactPath(libvirtJob, id, "/artifacts/ocp-e2e-ovn-remote-libvirt-ppc64le/")
	junit := step + "openshift-e2e-libvirt-test/artifacts/junit/"

	e.files[artifactPath(libvirtJob, id, "/build-log.txt")] = "Resolved release ppc64le-latest to registry.ci/release:4.14.0-0.nightly\n" +
		"Acquired 1 lease(s) for libvirt-ppc64le-quota-slice: [libvirt-ppc64le-0-0]\n"
	e.files[step+"ipi-install-libvirt-install/finished.json"] = `{"timestamp":1714528800,"passed":true,"result":"SUCCESS"}`
	e.files[junit] = `<a href="` + junit + `test-failures-summary_20240501-0300.json">test-failures-summary_20240501-0300.json</a>`
	e.files[junit+"test-failures-summary_20240501-0300.json"] = `{"Tests":[{"Test":{"Name":"[sig-network] should reach pods"}}]}`
	e.files[step+"gather-libvirt/artifacts/oc_cmds/nodes"] = "NAME STATUS\nc-master-0 Ready\nc-master-1 Ready\nc-master-2 Ready\nc-worker-0 Ready\nc-worker-1 Ready\n"
}

// addFailedPowerVSRun publishes a powervs run whose install failed and crashed.
func (e *testEnv) addFailedPowerVSRun(id string) {
	step := artifactPath(powervsJob, id, "/artifacts/ocp-e2e-ovn-ppc64le-powervs/")

	e.files[artifactPath(powervsJob, id, "/build-log.txt")] = "Acquired 1 lease(s) for powervs-1-quota-slice: [mon01]\n"
	e.files[step+"ipi-install-powervs-install/finished.json"] = `{"result":"FAILURE"}`
	e.files[step+"ipi-install-powervs-install/build-log.txt"] = "TASK [create]\nFAILED - RETRYING\nquota exceeded in mon01\n"
	e.files[step+"ipi-conf-debug-kdump-gather-logs/artifacts/"] = `<a href="kdump.tar">kdump.tar</a>`
}

func TestBrief_LibvirtRunWithOneFailure(t *testing.T) {
	env := newTestEnv(t, []listedRun{
		{job: libvirtJob, id: "1001", started: "2024-05-01T02:00:00Z", result: "FAILURE"},
	})
	env.addLibvirtRun("1001")

	var out bytes.Buffer
	m := env.monitor(&out)
	report, err := m.Brief(context.Background(), Source{Name: "libvirt-ppc64le", Link: listedJob}, Options{})
	require.NoError(t, err)

	require.Len(t, report.Jobs, 1)
	job := report.Jobs[0]
	assert.Equal(t, "libvirt-ppc64le", job.Build)
	assert.Equal(t, "1001", job.JobID)
	assert.Equal(t, "SUCCESS", job.InstallStatus)
	assert.Equal(t, "libvirt-ppc64le-0-0", job.Lease)
	assert.Equal(t, "ppc64le-latest-registry.ci/release:4.14.0-0.nightly", job.Nightly)
	assert.Equal(t, "1 testcases failed", job.TestResult)
	assert.Equal(t, env.server.URL+"/view/gs"+logsPath+libvirtJob+"/1001", job.Link)

	assert.Equal(t, Totals{Considered: 1, Deploys: 1, E2E: 0}, report.Totals)
	assert.Equal(t, m.RunID.String(), report.RunID)
}

func TestBrief_MixedBatch(t *testing.T) {
	env := newTestEnv(t, []listedRun{
		{job: libvirtJob, id: "1001", started: "2024-05-01T02:00:00Z", result: "FAILURE"},
		{job: powervsJob, id: "1002", started: "2024-05-01T01:00:00Z", result: "FAILURE"},
		{job: "periodic-ci-unrecognised", id: "1003", started: "2024-05-01T00:30:00Z", result: "SUCCESS"},
		{job: libvirtJob, id: "1004", started: "2024-05-01T00:10:00Z", result: "PENDING"},
		{job: libvirtJob, id: "999", started: "2024-04-30T23:00:00Z", result: "SUCCESS"},
	})
	env.addLibvirtRun("1001")
	env.addFailedPowerVSRun("1002")

	var out bytes.Buffer
	report, err := env.monitor(&out).Brief(context.Background(), Source{Name: "mixed", Link: listedJob}, Options{})
	require.NoError(t, err)

	require.Len(t, report.Jobs, 3)
	assert.Equal(t, "1 testcases failed", report.Jobs[0].TestResult)

	assert.Equal(t, "1002", report.Jobs[1].JobID)
	assert.Equal(t, "FAILURE", report.Jobs[1].InstallStatus)
	assert.Equal(t, "mon01", report.Jobs[1].Lease)
	assert.Equal(t, "N/A", report.Jobs[1].TestResult)

	assert.Equal(t, "1003", report.Jobs[2].JobID)
	assert.Equal(t, StatusUnclassified, report.Jobs[2].InstallStatus)
	assert.Equal(t, "Failed to fetch lease information", report.Jobs[2].Lease)

	assert.Equal(t, Totals{Considered: 3, Deploys: 1, E2E: 0}, report.Totals)
}

func TestBrief_ZoneFilter(t *testing.T) {
	env := newTestEnv(t, []listedRun{
		{job: libvirtJob, id: "1001", started: "2024-05-01T02:00:00Z", result: "FAILURE"},
		{job: powervsJob, id: "1002", started: "2024-05-01T01:00:00Z", result: "FAILURE"},
	})
	env.addLibvirtRun("1001")
	env.addFailedPowerVSRun("1002")

	var out bytes.Buffer
	report, err := env.monitor(&out).Brief(context.Background(), Source{Name: "mixed", Link: listedJob}, Options{Zones: []string{"mon01"}})
	require.NoError(t, err)

	require.Len(t, report.Jobs, 1)
	assert.Equal(t, "1002", report.Jobs[0].JobID)
	assert.Equal(t, 1, report.Totals.Considered)
}

func TestBrief_DateRange(t *testing.T) {
	env := newTestEnv(t, []listedRun{
		{job: libvirtJob, id: "1001", started: "2024-05-01T02:00:00Z", result: "FAILURE"},
		{job: libvirtJob, id: "999", started: "2024-04-30T23:00:00Z", result: "SUCCESS"},
		{job: libvirtJob, id: "998", started: "2024-04-28T23:00:00Z", result: "SUCCESS"},
	})
	env.addLibvirtRun("1001")
	env.addLibvirtRun("999")

	var out bytes.Buffer
	opts := Options{
		Start: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC),
	}
	report, err := env.monitor(&out).Brief(context.Background(), Source{Name: "libvirt", Link: listedJob}, opts)
	require.NoError(t, err)

	require.Len(t, report.Jobs, 2)
	assert.Equal(t, "1001", report.Jobs[0].JobID)
	assert.Equal(t, "999", report.Jobs[1].JobID)
	assert.Equal(t, 2, report.Totals.Deploys)
}

func TestBrief_LatestCount(t *testing.T) {
	env := newTestEnv(t, []listedRun{
		{job: libvirtJob, id: "1001", started: "2024-05-01T02:00:00Z", result: "FAILURE"},
		{job: libvirtJob, id: "1000", started: "2024-05-01T01:00:00Z", result: "PENDING"},
		{job: libvirtJob, id: "999", started: "2024-04-20T23:00:00Z", result: "SUCCESS"},
		{job: libvirtJob, id: "998", started: "2024-04-19T23:00:00Z", result: "SUCCESS"},
	})
	env.addLibvirtRun("1001")
	env.addLibvirtRun("999")

	var out bytes.Buffer
	report, err := env.monitor(&out).Brief(context.Background(), Source{Name: "libvirt", Link: listedJob}, Options{Count: 2})
	require.NoError(t, err)

	require.Len(t, report.Jobs, 2)
	assert.Equal(t, "1001", report.Jobs[0].JobID)
	assert.Equal(t, "999", report.Jobs[1].JobID)
}

func TestBrief_ListingFailure(t *testing.T) {
	env := newTestEnv(t, nil)
	delete(env.files, prow.JobHistoryPath+listedJob)

	var out bytes.Buffer
	report, err := env.monitor(&out).Brief(context.Background(), Source{Name: "gone", Link: listedJob}, Options{})
	require.Error(t, err)
	assert.Nil(t, report)
	assert.Equal(t, "Failed to get the prowCI response", ListingFailure(err))
}

func TestDetailed_Transcript(t *testing.T) {
	env := newTestEnv(t, []listedRun{
		{job: libvirtJob, id: "1001", started: "2024-05-01T02:00:00Z", result: "FAILURE"},
		{job: powervsJob, id: "1002", started: "2024-05-01T01:00:00Z", result: "FAILURE"},
	})
	env.addLibvirtRun("1001")
	env.addFailedPowerVSRun("1002")

	var out bytes.Buffer
	totals, err := env.monitor(&out).Detailed(context.Background(), Source{Name: "mixed", Link: listedJob}, Options{})
	require.NoError(t, err)
	assert.Equal(t, Totals{Considered: 2, Deploys: 1, E2E: 0}, totals)

	transcript := out.String()
	assert.Contains(t, transcript, "1 . Job ID:  1001")
	assert.Contains(t, transcript, "Lease Quota- libvirt-ppc64le-0-0")
	assert.Contains(t, transcript, "All nodes are in Ready state")
	assert.Contains(t, transcript, "Failed conformance testcases: \n[sig-network] should reach pods\n")
	assert.Contains(t, transcript, "1 testcases failed")

	assert.Contains(t, transcript, "2 . Job ID:  1002")
	assert.Contains(t, transcript, "ERROR- Crash observed in the job")
	assert.Contains(t, transcript, "Node details not found")
	assert.Contains(t, transcript, "Cluster Creation Failed\nquota exceeded in mon01\n")

	assert.Contains(t, transcript, "1/2 deploys succeeded")
	assert.Contains(t, transcript, "0/2 e2e tests succeeded")
}

func TestDetailed_MCEExcerptFromFailedStage(t *testing.T) {
	env := newTestEnv(t, []listedRun{
		{job: mceJob, id: "1003", started: "2024-05-01T03:00:00Z", result: "FAILURE"},
	})
	step := artifactPath(mceJob, "1003", "/artifacts/e2e-mce-power-conformance/")
	env.files[step+"hypershift-mce-install/finished.json"] = `{"result":"SUCCESS"}`
	env.files[step+"hypershift-mce-install/build-log.txt"] = "error: transient retry in mce install\n"
	env.files[step+"hypershift-mce-power-create/finished.json"] = `{"result":"FAILURE"}`
	env.files[step+"hypershift-mce-power-create/build-log.txt"] = "creating hosted cluster\nerror: no capacity in the power pool\n"

	var out bytes.Buffer
	totals, err := env.monitor(&out).Detailed(context.Background(), Source{Name: "mce", Link: listedJob}, Options{})
	require.NoError(t, err)
	assert.Equal(t, Totals{Considered: 1}, totals)

	transcript := out.String()
	assert.Contains(t, transcript, "Cluster Creation Failed\nMCE install: SUCCESS, MCE power create: FAILURE\n")
	assert.Contains(t, transcript, "error: no capacity in the power pool\n")
	assert.NotContains(t, transcript, "transient retry in mce install")
}

func TestDetailed_NoRuns(t *testing.T) {
	env := newTestEnv(t, []listedRun{
		{job: libvirtJob, id: "999", started: "2024-04-30T23:00:00Z", result: "SUCCESS"},
	})

	var out bytes.Buffer
	totals, err := env.monitor(&out).Detailed(context.Background(), Source{Name: "quiet", Link: listedJob}, Options{})
	require.NoError(t, err)
	assert.Zero(t, totals.Considered)
	assert.Contains(t, out.String(), "No job runs on quiet")
}

func TestDetailed_ListingFailure(t *testing.T) {
	env := newTestEnv(t, nil)
	env.files[prow.JobHistoryPath+listedJob] = "<html><body>maintenance</body></html>"

	var out bytes.Buffer
	_, err := env.monitor(&out).Detailed(context.Background(), Source{Name: "broken", Link: listedJob}, Options{})
	require.Error(t, err)
	assert.Contains(t, out.String(), "Failed to extract the spy-links from spylink please check the UI!")
}
