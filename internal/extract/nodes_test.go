package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ocp-power-automation/ci-monitoring-automation/internal/jobs"
)

const header = "NAME                   STATUS   ROLES                  AGE   VERSION\n"

func nodeListing(masters, workers int, status string) string {
	var b strings.Builder
	b.WriteString(header)
	for i := 0; i < masters; i++ {
		b.WriteString("cluster-master-" + string(rune('0'+i)) + "   " + status + "    control-plane,master   1h    v1.29.4\n")
	}
	for i := 0; i < workers; i++ {
		b.WriteString("cluster-worker-" + string(rune('0'+i)) + "   " + status + "    worker                 1h    v1.29.4\n")
	}
	return b.String()
}

func TestNodeStatus(t *testing.T) {
	tests := []struct {
		name     string
		listing  string
		platform jobs.Platform
		want     NodeState
	}{
		{"healthy powervs", nodeListing(3, 2, "Ready"), jobs.PlatformPowerVS, NodesReady},
		{"healthy libvirt", nodeListing(3, 2, "Ready"), jobs.PlatformLibvirt, NodesReady},
		{"healthy mce", nodeListing(3, 3, "Ready"), jobs.PlatformMCE, NodesReady},
		{"one worker", nodeListing(3, 1, "Ready"), jobs.PlatformPowerVS, NodesWorkerMismatch},
		{"mce with two workers", nodeListing(3, 2, "Ready"), jobs.PlatformMCE, NodesWorkerMismatch},
		{"two masters", nodeListing(2, 2, "Ready"), jobs.PlatformLibvirt, NodesMasterMismatch},
		{"not ready", nodeListing(3, 2, "NotReady"), jobs.PlatformPowerVS, NodesNotReady},
		{"no header", "<html>404 page not found</html>", jobs.PlatformPowerVS, NodesNotFound},
		{"empty", "", jobs.PlatformPowerVS, NodesNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NodeStatus(tt.listing, tt.platform))
		})
	}
}

func TestNodeState_String(t *testing.T) {
	assert.Equal(t, "All nodes are in Ready state", NodesReady.String())
	assert.Equal(t, "Some Nodes are in NotReady state", NodesNotReady.String())
	assert.Equal(t, "Not all master nodes are up and running", NodesMasterMismatch.String())
	assert.Equal(t, "Not all worker nodes are up and running", NodesWorkerMismatch.String())
	assert.Equal(t, "Node details not found", NodesNotFound.String())
}
