package extract

import (
	"encoding/json"
	"fmt"
	"strings"
)

// State is the outcome of a cluster deployment.
type State string

const (
	StateSuccess State = "SUCCESS"
	StateFailure State = "FAILURE"
	StateError   State = "ERROR"
)

// DeployStatus is the install outcome of a job. Detail carries per-stage
// results for multi-stage installs.
type DeployStatus struct {
	State  State
	Detail string
}

// Succeeded reports whether the cluster came up.
func (d DeployStatus) Succeeded() bool {
	return d.State == StateSuccess
}

func (d DeployStatus) String() string {
	if d.Detail == "" {
		return string(d.State)
	}
	return fmt.Sprintf("%s (%s)", d.State, d.Detail)
}

// finished mirrors the finished.json step artifact.
type finished struct {
	Timestamp int64  `json:"timestamp"`
	Passed    bool   `json:"passed"`
	Result    string `json:"result"`
}

// InstallResult reads the result field of a finished.json document.
func InstallResult(body string) (string, error) {
	var doc finished
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		return "", &FormatError{Artifact: "finished.json", Message: "invalid JSON", Cause: err}
	}
	if doc.Result == "" {
		return "", &FormatError{Artifact: "finished.json", Message: "missing result field"}
	}
	return doc.Result, nil
}

// StageOutcome is the finished.json content, or fetch error, of one stage.
type StageOutcome struct {
	Name string
	Body string
	Err  error
}

// DeployStatusFrom combines the install stages of a job. A stage that
// cannot be read counts as ERROR. A single stage maps straight onto its
// result. Multi-stage installs succeed only if every stage reports SUCCESS;
// otherwise the state is FAILURE when any stage reported a failure, ERROR
// when stages were merely unreadable, and Detail lists every stage result.
func DeployStatusFrom(stages []StageOutcome) DeployStatus {
	if len(stages) == 0 {
		return DeployStatus{State: StateError, Detail: "no install stages"}
	}

	results := make([]string, len(stages))
	for i, stage := range stages {
		results[i] = string(StateError)
		if stage.Err != nil {
			continue
		}
		if r, err := InstallResult(stage.Body); err == nil {
			results[i] = r
		}
	}

	if len(stages) == 1 {
		return DeployStatus{State: State(results[0])}
	}

	failed, unreadable := false, false
	details := make([]string, len(stages))
	for i, result := range results {
		switch State(result) {
		case StateSuccess:
		case StateError:
			unreadable = true
		default:
			failed = true
		}
		details[i] = fmt.Sprintf("%s: %s", stages[i].Name, result)
	}

	switch {
	case failed:
		return DeployStatus{State: StateFailure, Detail: strings.Join(details, ", ")}
	case unreadable:
		return DeployStatus{State: StateError, Detail: strings.Join(details, ", ")}
	default:
		return DeployStatus{State: StateSuccess}
	}
}

// FailedStage is the index of the first stage that did not report SUCCESS,
// or -1 when every stage succeeded.
func FailedStage(stages []StageOutcome) int {
	for i, stage := range stages {
		if stage.Err != nil {
			return i
		}
		if r, err := InstallResult(stage.Body); err != nil || State(r) != StateSuccess {
			return i
		}
	}
	return -1
}
