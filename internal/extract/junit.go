package extract

import (
	"encoding/json"
	"encoding/xml"
	"errors"
	"io"
	"regexp"
	"strings"

	"github.com/ocp-power-automation/ci-monitoring-automation/internal/fetch"
)

// Summary file names embed a timestamp, so they are located by pattern.
var (
	ConformanceSummaryPattern = regexp.MustCompile(`test-failures-summary_2[^.]*\.json`)
	MonitorSummaryPattern     = regexp.MustCompile(`test-failures-summary_monitor_2[^.]*\.json`)
	MonitorJUnitPattern       = regexp.MustCompile(`e2e-monitor-tests__[^"'<>\s/]*\.xml`)
)

// FindSummaryFile returns the first name in a directory listing matching
// pattern. Link targets are searched first, then the raw listing text.
func FindSummaryFile(listing string, pattern *regexp.Regexp) (string, error) {
	if entries, err := fetch.DirectoryEntries(listing); err == nil {
		for _, entry := range entries {
			if match := pattern.FindString(entry); match != "" {
				return match, nil
			}
		}
	}
	if match := pattern.FindString(listing); match != "" {
		return match, nil
	}
	return "", ErrNotFound
}

// failureSummary mirrors test-failures-summary_*.json.
type failureSummary struct {
	Tests *[]struct {
		Test struct {
			Name string `json:"Name"`
		} `json:"Test"`
	} `json:"Tests"`
}

// ParseFailureSummary returns the failed test names of a failure summary.
// An empty Tests array means every test passed.
func ParseFailureSummary(body string) ([]string, error) {
	var doc failureSummary
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		return nil, &FormatError{Artifact: "test failure summary", Message: "invalid JSON", Cause: err}
	}
	if doc.Tests == nil {
		return nil, &FormatError{Artifact: "test failure summary", Message: "missing Tests field"}
	}

	names := make([]string, 0, len(*doc.Tests))
	for _, t := range *doc.Tests {
		names = append(names, t.Test.Name)
	}
	return names, nil
}

// Testcase is one JUnit testcase element.
type Testcase struct {
	Name      string   `xml:"name,attr"`
	Classname string   `xml:"classname,attr"`
	Failure   *Failure `xml:"failure"`
}

// Failure is the failure child of a failed testcase.
type Failure struct {
	Message string `xml:"message,attr"`
	Value   string `xml:",chardata"`
}

// Failed reports whether the testcase carries a failure element.
func (t Testcase) Failed() bool {
	return t.Failure != nil
}

// testcaseGroups walks a JUnit document in order and returns its testcases
// grouped by enclosing testsuite. Testcases outside any suite form their
// own group.
func testcaseGroups(body, artifact string) ([][]Testcase, error) {
	decoder := xml.NewDecoder(strings.NewReader(body))

	var groups [][]Testcase
	current := -1
	sawElement := false
	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &FormatError{Artifact: artifact, Message: "invalid XML", Cause: err}
		}

		switch el := tok.(type) {
		case xml.StartElement:
			sawElement = true
			switch el.Name.Local {
			case "testsuite":
				groups = append(groups, nil)
				current = len(groups) - 1
			case "testcase":
				var tc Testcase
				if err := decoder.DecodeElement(&tc, &el); err != nil {
					return nil, &FormatError{Artifact: artifact, Message: "invalid testcase", Cause: err}
				}
				if current < 0 {
					groups = append(groups, nil)
					current = len(groups) - 1
				}
				groups[current] = append(groups[current], tc)
			}
		case xml.EndElement:
			if el.Name.Local == "testsuite" {
				current = -1
			}
		}
	}

	if !sawElement {
		return nil, &FormatError{Artifact: artifact, Message: "empty document"}
	}
	return groups, nil
}

// ParseSymptomJUnit returns the name of every failed testcase.
func ParseSymptomJUnit(body string) ([]string, error) {
	groups, err := testcaseGroups(body, "junit_symptoms.xml")
	if err != nil {
		return nil, err
	}

	failed := []string{}
	for _, cases := range groups {
		for _, tc := range cases {
			if tc.Failed() {
				failed = append(failed, tc.Name)
			}
		}
	}
	return failed, nil
}

// ParseMonitorJUnit returns the failed testcases of a monitor JUnit report.
//
// A failed testcase whose previous or next sibling in the same suite has
// the same name is treated as a retried attempt and not counted.
// NOTE: this matches how the monitor report has been read so far. It may be
// hiding duplicated entries from the report generator and needs review
// before being tightened or removed.
func ParseMonitorJUnit(body string) ([]string, error) {
	groups, err := testcaseGroups(body, "monitor junit")
	if err != nil {
		return nil, err
	}

	failed := []string{}
	for _, cases := range groups {
		for i, tc := range cases {
			if !tc.Failed() {
				continue
			}
			if i > 0 && cases[i-1].Name == tc.Name {
				continue
			}
			if i+1 < len(cases) && cases[i+1].Name == tc.Name {
				continue
			}
			failed = append(failed, tc.Name)
		}
	}
	return failed, nil
}
