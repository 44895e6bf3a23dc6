package extract

import (
	"strings"

	"github.com/ocp-power-automation/ci-monitoring-automation/internal/jobs"
)

// NodeState classifies a gathered `oc get nodes` listing.
type NodeState int

const (
	NodesNotFound NodeState = iota
	NodesReady
	NodesNotReady
	NodesMasterMismatch
	NodesWorkerMismatch
	NodesNotApplicable
)

func (s NodeState) String() string {
	switch s {
	case NodesReady:
		return "All nodes are in Ready state"
	case NodesNotReady:
		return "Some Nodes are in NotReady state"
	case NodesMasterMismatch:
		return "Not all master nodes are up and running"
	case NodesWorkerMismatch:
		return "Not all worker nodes are up and running"
	case NodesNotApplicable:
		return "Node details not gathered for this platform"
	default:
		return "Node details not found"
	}
}

const (
	masterMarker   = "master-"
	workerMarker   = "worker-"
	expectedMaster = 3
)

// ExpectedWorkers is the worker count a healthy cluster of platform has.
func ExpectedWorkers(platform jobs.Platform) int {
	if platform == jobs.PlatformMCE {
		return 3
	}
	return 2
}

// NodeStatus classifies a node listing by counting name markers.
func NodeStatus(listing string, platform jobs.Platform) NodeState {
	if !strings.Contains(listing, "NAME") {
		return NodesNotFound
	}
	if strings.Contains(listing, "NotReady") {
		return NodesNotReady
	}
	if strings.Count(listing, masterMarker) != expectedMaster {
		return NodesMasterMismatch
	}
	if strings.Count(listing, workerMarker) != ExpectedWorkers(platform) {
		return NodesWorkerMismatch
	}
	return NodesReady
}
