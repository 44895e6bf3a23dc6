package main

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ocp-power-automation/ci-monitoring-automation/internal/prow"
)

const (
	libvirtJob = "periodic-ci-openshift-multiarch-master-nightly-4.14-ocp-e2e-ovn-remote-libvirt-ppc64le"
	powervsJob = "periodic-ci-openshift-multiarch-master-nightly-4.15-ocp-e2e-ovn-ppc64le-powervs"
	logsPath   = "/origin-ci-test/logs/"
	runID      = "1001"
	runDay     = "2024-05-01"
)

// getBinaryPath returns the path to the ci_monitor binary for testing
func getBinaryPath(t *testing.T) string {
	binaryName := "ci_monitor"
	if testing.Short() {
		t.Skip("Skipping CLI tests in short mode")
	}

	binaryPath := filepath.Join("..", "..", "bin", binaryName)
	if _, err := os.Stat(binaryPath); os.IsNotExist(err) {
		t.Skipf("Binary not found at %s, build it first with 'go build -o bin/ci_monitor ./cmd/ci_monitor'", binaryPath)
	}

	return binaryPath
}

// newFakeProw serves the job history of libvirtJob with one deployed,
// passing run, plus its gcsweb artifacts.
func newFakeProw(t *testing.T) *httptest.Server {
	t.Helper()

	run := "/gcs" + logsPath + libvirtJob + "/" + runID
	step := run + "/artifacts/ocp-e2e-ovn-remote-libvirt-ppc64le/"
	junit := step + "openshift-e2e-libvirt-test/artifacts/junit/"

	files := map[string]string{}
	files[prow.JobHistoryPath+libvirtJob] = fmt.Sprintf(
		`<html><head><script>var allBuilds = [{"SpyglassLink":"/view/gs%s%s/%s","ID":"%s","Started":"%sT02:00:00Z","Duration":0,"Result":"SUCCESS"}];</script></head></html>`,
		logsPath, libvirtJob, runID, runID, runDay)
	files[run+"/build-log.txt"] = "Resolved release ppc64le-latest to registry.ci/release:4.14.0-0.nightly\n" +
		"Acquired 1 lease(s) for libvirt-ppc64le-quota-slice: [libvirt-ppc64le-0-0]\n"
	files[step+"ipi-install-libvirt-install/finished.json"] = `{"passed":true,"result":"SUCCESS"}`
	files[junit] = `<a href="test-failures-summary_20240501.json">test-failures-summary_20240501.json</a>`
	files[junit+"test-failures-summary_20240501.json"] = `{"Tests":[]}`
	files[step+"gather-libvirt/artifacts/oc_cmds/nodes"] = "NAME STATUS\nc-master-0 Ready\nc-master-1 Ready\nc-master-2 Ready\nc-worker-0 Ready\nc-worker-1 Ready\n"

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := files[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

// writeConfig writes a YAML config pointing both endpoints at server.
func writeConfig(t *testing.T, server *httptest.Server, sources string) string {
	t.Helper()
	content := "prow_base_url: " + server.URL + "\n" +
		"artifact_base_url: " + server.URL + "/gcs\n" +
		"timeout_seconds: 5\n" +
		"sources:\n" + sources
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func libvirtSource() string {
	return "  - name: libvirt\n    link: " + libvirtJob + "\n"
}

// runCLI executes the root command in-process and returns its combined output.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

// resetFlags restores flag variables between in-process runs.
func resetFlags() {
	configPath, startDate, endDate = "", "", ""
	jobCount = 0
	zones = nil
	prowURL, artifactURL = "", ""
	timeoutSecs = 0
	verbose, useBrowser = false, false
	colorSetting = "auto"
	briefJSON, briefOutFile = false, ""
	listJSON = false
}
