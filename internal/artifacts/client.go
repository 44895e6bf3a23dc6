package artifacts

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/ocp-power-automation/ci-monitoring-automation/internal/fetch"
	"github.com/ocp-power-automation/ci-monitoring-automation/internal/jobs"
)

// DefaultBaseURL is the gcsweb proxy serving origin-ci-test artifacts.
const DefaultBaseURL = "https://gcsweb-ci.apps.ci.l2s4.p1.openshiftapps.com/gcs"

// viewPrefix is the Spyglass part of a link that gcsweb does not use.
const viewPrefix = "/view/gs"

// Client fetches job artifacts. Every method performs at most one GET per
// artifact, bounded by Options.Timeout, with no retries.
type Client struct {
	BaseURL string
	Options *fetch.Options
	Verbose bool
}

// NewClient creates a Client for baseURL. An empty baseURL means DefaultBaseURL.
func NewClient(baseURL string, opts *fetch.Options) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if opts == nil {
		opts = fetch.DefaultOptions()
	}
	return &Client{BaseURL: strings.TrimSuffix(baseURL, "/"), Options: opts}
}

// JobURL is the artifact root of the job run.
func (c *Client) JobURL(ref jobs.Reference) string {
	return c.BaseURL + strings.TrimPrefix(ref.Link, viewPrefix)
}

// StepURL is the URL of suffix inside a step directory of the job run.
func (c *Client) StepURL(ref jobs.Reference, step, suffix string) string {
	return c.JobURL(ref) + "/artifacts/" + ref.JobType + "/" + step + "/" + suffix
}

// BuildLogURL is the job-level build log carrying lease and release lines.
func (c *Client) BuildLogURL(ref jobs.Reference) string {
	return c.JobURL(ref) + "/build-log.txt"
}

// InstallResultURL is the finished.json of one install stage.
func (c *Client) InstallResultURL(ref jobs.Reference, stage Stage) string {
	return c.StepURL(ref, stage.Step, "finished.json")
}

// InstallLogURL is the build log of one install stage.
func (c *Client) InstallLogURL(ref jobs.Reference, stage Stage) string {
	return c.StepURL(ref, stage.Step, "build-log.txt")
}

// NodesURL is the `oc get nodes` output gathered after the run.
func (c *Client) NodesURL(ref jobs.Reference) (string, error) {
	layout, err := LayoutFor(ref.Platform)
	if err != nil {
		return "", err
	}
	if layout.NodeStep == "" {
		return "", fmt.Errorf("%s gathers no node list: %w", ref.Platform, ErrNotApplicable)
	}
	return c.StepURL(ref, layout.NodeStep, "artifacts/oc_cmds/nodes"), nil
}

// JUnitDirURL is the directory listing holding the e2e JUnit artifacts.
func (c *Client) JUnitDirURL(ref jobs.Reference) (string, error) {
	step, err := TestStep(ref)
	if err != nil {
		return "", err
	}
	return c.StepURL(ref, step, "artifacts/junit/"), nil
}

// SymptomsURL is the symptom-detection JUnit report.
func (c *Client) SymptomsURL(ref jobs.Reference) (string, error) {
	if !HasSymptoms(ref.Platform) {
		return "", fmt.Errorf("%s gathers no symptom report: %w", ref.Platform, ErrNotApplicable)
	}
	return c.StepURL(ref, StepGatherExtra, "artifacts/junit/junit_symptoms.xml"), nil
}

// CrashDirURL is the directory where kdump archives are collected.
func (c *Client) CrashDirURL(ref jobs.Reference) string {
	return c.StepURL(ref, StepKdumpGatherLogs, "artifacts/")
}

// Get fetches urlStr and returns its body.
func (c *Client) Get(ctx context.Context, urlStr string) (string, error) {
	if c.Verbose {
		log.Printf("[VERBOSE] GET %s", urlStr)
	}
	result, err := fetch.URL(ctx, urlStr, c.Options)
	if err != nil {
		return "", err
	}
	return result.Body, nil
}

// StageDocument is the fetched finished.json of one install stage.
type StageDocument struct {
	Stage Stage
	URL   string
	Body  string
	Err   error
}

// InstallResults fetches finished.json for every install stage in order.
// Per-stage fetch failures are carried in StageDocument.Err.
func (c *Client) InstallResults(ctx context.Context, ref jobs.Reference) ([]StageDocument, error) {
	layout, err := LayoutFor(ref.Platform)
	if err != nil {
		return nil, err
	}

	docs := make([]StageDocument, 0, len(layout.Install))
	for _, stage := range layout.Install {
		doc := StageDocument{Stage: stage, URL: c.InstallResultURL(ref, stage)}
		doc.Body, doc.Err = c.Get(ctx, doc.URL)
		docs = append(docs, doc)
	}
	return docs, nil
}

// InstallLog fetches the build log of one install stage.
func (c *Client) InstallLog(ctx context.Context, ref jobs.Reference, stage Stage) (string, error) {
	return c.Get(ctx, c.InstallLogURL(ref, stage))
}

// BuildLog fetches the job-level build log.
func (c *Client) BuildLog(ctx context.Context, ref jobs.Reference) (string, error) {
	return c.Get(ctx, c.BuildLogURL(ref))
}

// Nodes fetches the gathered node list.
func (c *Client) Nodes(ctx context.Context, ref jobs.Reference) (string, error) {
	u, err := c.NodesURL(ref)
	if err != nil {
		return "", err
	}
	return c.Get(ctx, u)
}

// JUnitListing fetches the JUnit directory listing.
func (c *Client) JUnitListing(ctx context.Context, ref jobs.Reference) (string, error) {
	u, err := c.JUnitDirURL(ref)
	if err != nil {
		return "", err
	}
	return c.Get(ctx, u)
}

// JUnitFile fetches a named file from the JUnit directory.
func (c *Client) JUnitFile(ctx context.Context, ref jobs.Reference, name string) (string, error) {
	u, err := c.JUnitDirURL(ref)
	if err != nil {
		return "", err
	}
	return c.Get(ctx, u+name)
}

// Symptoms fetches the symptom-detection JUnit report.
func (c *Client) Symptoms(ctx context.Context, ref jobs.Reference) (string, error) {
	u, err := c.SymptomsURL(ref)
	if err != nil {
		return "", err
	}
	return c.Get(ctx, u)
}

// CrashListing fetches the kdump directory listing.
func (c *Client) CrashListing(ctx context.Context, ref jobs.Reference) (string, error) {
	return c.Get(ctx, c.CrashDirURL(ref))
}
