package jobs

import (
	"regexp"
	"strings"
)

// Platform is the deployment flavour a job runs against.
type Platform string

const (
	// PlatformPowerVS is an IPI install on IBM PowerVS
	PlatformPowerVS Platform = "powervs"
	// PlatformLibvirt is an IPI install on libvirt
	PlatformLibvirt Platform = "libvirt"
	// PlatformSNO is a single-node UPI install on PowerVS
	PlatformSNO Platform = "sno"
	// PlatformMCE is a multi-stage hypershift MCE install
	PlatformMCE Platform = "mce"
	// PlatformUnknown is returned alongside a ClassificationError
	PlatformUnknown Platform = "unknown"
)

// platformRule maps a link substring to the platform it indicates.
type platformRule struct {
	token    string
	platform Platform
}

// platformRules is evaluated in order and the first hit wins. Link tokens are
// not mutually exclusive, so this order is the tie-break. mce links carry no
// token of their own: falling through every rule is what identifies them.
var platformRules = []platformRule{
	{token: "powervs", platform: PlatformPowerVS},
	{token: "libvirt", platform: PlatformLibvirt},
	{token: "sno", platform: PlatformSNO},
}

var (
	ocpJobTypePattern = regexp.MustCompile(`ocp[^/]*/`)
	mceJobTypePattern = regexp.MustCompile(`e2e[^/]*/`)
)

// DetectPlatform returns the platform indicated by link.
func DetectPlatform(link string) Platform {
	for _, rule := range platformRules {
		if strings.Contains(link, rule.token) {
			return rule.platform
		}
	}
	return PlatformMCE
}

// Classify returns the job-type keyword and platform for link. The job type
// is the first path segment starting with "ocp" ("e2e" for mce jobs).
func Classify(link string) (string, Platform, error) {
	platform := DetectPlatform(link)

	pattern := ocpJobTypePattern
	if platform == PlatformMCE {
		pattern = mceJobTypePattern
	}

	match := pattern.FindString(link)
	if match == "" {
		return "", PlatformUnknown, &ClassificationError{
			Link:    link,
			Message: "no job-type segment matching " + pattern.String(),
		}
	}

	return strings.TrimSuffix(match, "/"), platform, nil
}
