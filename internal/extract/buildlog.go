package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ocp-power-automation/ci-monitoring-automation/internal/jobs"
)

const (
	leaseNotFound   = "Failed to fetch lease information"
	nightlyNotFound = "Unable to fetch nightly information- No match found"
)

// Lease is the quota slice a job acquired. Absence is common and is not an error.
type Lease struct {
	Zone  string
	Found bool
}

func (l Lease) String() string {
	if !l.Found {
		return leaseNotFound
	}
	return l.Zone
}

// LeaseSlice returns the quota-slice name pattern announced in build logs
// for a platform and architecture.
func LeaseSlice(platform jobs.Platform, arch jobs.Arch) string {
	switch {
	case platform == jobs.PlatformLibvirt && arch != jobs.ArchUnknown:
		return "libvirt-" + string(arch)
	case arch == jobs.ArchPPC64LE:
		// powervs, sno and mce all lease numbered PowerVS slices.
		return "powervs-[1-9]"
	default:
		return regexp.QuoteMeta(string(platform))
	}
}

// ExtractLease finds the "Acquired 1 lease(s)" line for the job's quota slice.
func ExtractLease(buildLog string, platform jobs.Platform, arch jobs.Arch) Lease {
	pattern, err := regexp.Compile(`Acquired 1 lease\(s\) for ` + LeaseSlice(platform, arch) + `-quota-slice: \[([^]]+)\]`)
	if err != nil {
		return Lease{}
	}
	match := pattern.FindStringSubmatch(buildLog)
	if match == nil {
		return Lease{}
	}
	return Lease{Zone: match[1], Found: true}
}

// ReleaseImage is one resolved release payload, e.g. ppc64le-latest.
type ReleaseImage struct {
	Name  string
	Value string
	Found bool
}

// Nightly holds the release payloads a job installed. Upgrade jobs carry
// both the initial and the latest payload.
type Nightly struct {
	Releases []ReleaseImage
	Upgrade  bool
}

// Found reports whether every expected release was resolved.
func (n Nightly) Found() bool {
	if len(n.Releases) == 0 {
		return false
	}
	for _, r := range n.Releases {
		if !r.Found {
			return false
		}
	}
	return true
}

func (n Nightly) String() string {
	if len(n.Releases) == 0 {
		return nightlyNotFound
	}
	parts := make([]string, 0, len(n.Releases))
	for _, r := range n.Releases {
		switch {
		case r.Found:
			parts = append(parts, r.Value)
		case n.Upgrade:
			parts = append(parts, fmt.Sprintf("Unable to fetch nightly %s information- No match found", r.Name))
		default:
			parts = append(parts, nightlyNotFound)
		}
	}
	return strings.Join(parts, " ")
}

// ExtractNightly resolves the release payloads named in a build log.
// upgrade selects the initial+latest pair instead of latest alone.
func ExtractNightly(buildLog string, arch jobs.Arch, upgrade bool) Nightly {
	n := Nightly{Upgrade: upgrade}
	if arch == jobs.ArchUnknown {
		return n
	}

	latest := string(arch) + "-latest"
	if !upgrade {
		n.Releases = append(n.Releases, resolveRelease(buildLog, latest, true))
		return n
	}

	n.Releases = append(n.Releases,
		resolveRelease(buildLog, string(arch)+"-initial", false),
		resolveRelease(buildLog, latest, false),
	)
	return n
}

// resolveRelease looks for "Resolved release <name> to <tag>". With
// explicitFallback, a release pinned by an explicit pull-spec is accepted too.
func resolveRelease(buildLog, name string, explicitFallback bool) ReleaseImage {
	release := ReleaseImage{Name: name}

	resolved := regexp.MustCompile(`Resolved release ` + regexp.QuoteMeta(name) + ` to (\S+)`)
	if match := resolved.FindStringSubmatch(buildLog); match != nil {
		release.Value = name + "-" + match[1]
		release.Found = true
		return release
	}
	if !explicitFallback {
		return release
	}

	explicit := regexp.MustCompile(`Using explicitly provided pull-spec for release ` + regexp.QuoteMeta(name) + ` \((\S+)\)`)
	if match := explicit.FindStringSubmatch(buildLog); match != nil {
		release.Value = match[1]
		release.Found = true
	}
	return release
}
