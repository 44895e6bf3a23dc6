package extract

import (
	"strings"

	"github.com/ocp-power-automation/ci-monitoring-automation/internal/jobs"
)

// ExcerptLines bounds an install failure excerpt, counted from the marker line.
const ExcerptLines = 7

type failureMarker struct {
	text string
	// skipFirst drops the marker line itself, which carries no detail.
	skipFirst bool
}

var (
	installMarkers = []failureMarker{
		{text: "level-error"},
		{text: "level=fatal"},
		{text: "error:"},
	}
	powervsMarkers = append([]failureMarker{{text: "FAILED", skipFirst: true}}, installMarkers...)
)

// InstallFailureExcerpt returns the log lines around the first failure
// marker found in an install log. Markers are tried in order.
func InstallFailureExcerpt(installLog string, platform jobs.Platform) ([]string, error) {
	markers := installMarkers
	if platform == jobs.PlatformPowerVS {
		markers = powervsMarkers
	}

	for _, m := range markers {
		idx := strings.Index(installLog, m.text)
		if idx < 0 {
			continue
		}
		lines := strings.Split(installLog[idx:], "\n")
		excerpt := trimTrailingEmpty(lines[:min(ExcerptLines, len(lines))])
		// A marker with nothing after it is printed as is.
		if m.skipFirst && len(excerpt) > 1 {
			excerpt = excerpt[1:]
		}
		return excerpt, nil
	}
	return nil, ErrNotFound
}

func trimTrailingEmpty(lines []string) []string {
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// CrashObserved reports whether a kdump archive was collected.
func CrashObserved(listing string) bool {
	return strings.Contains(listing, "kdump.tar")
}
