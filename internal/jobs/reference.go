package jobs

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Arch is the CPU architecture a job targets.
type Arch string

const (
	ArchPPC64LE Arch = "ppc64le"
	ArchS390X   Arch = "s390x"
	ArchUnknown Arch = ""
)

// Version is an OpenShift minor release such as 4.15.
type Version struct {
	Major int
	Minor int
}

// IsZero reports whether no version was found in the link.
func (v Version) IsZero() bool {
	return v.Major == 0 && v.Minor == 0
}

// AtLeast reports whether v is major.minor or newer.
func (v Version) AtLeast(major, minor int) bool {
	if v.Major != major {
		return v.Major > major
	}
	return v.Minor >= minor
}

func (v Version) String() string {
	if v.IsZero() {
		return ""
	}
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Reference is one classified CI job run.
type Reference struct {
	// Link is the SpyglassLink, e.g. /view/gs/origin-ci-test/logs/<job>/<id>
	Link     string
	ID       string
	JobType  string
	Platform Platform
	Arch     Arch
	Release  Version
	Upgrade  bool
}

var (
	jobIDPattern   = regexp.MustCompile(`/(\d+)`)
	versionPattern = regexp.MustCompile(`(\d+)\.(\d+)`)
)

// Parse builds a Reference from a SpyglassLink. When classification fails the
// returned Reference still carries Link and ID so the caller can report the
// job, together with a *ClassificationError.
func Parse(link string) (Reference, error) {
	ref := Reference{
		Link:     link,
		ID:       JobID(link),
		Arch:     DetectArch(link),
		Release:  ParseVersion(link),
		Upgrade:  strings.Contains(link, "upgrade"),
		Platform: PlatformUnknown,
	}

	jobType, platform, err := Classify(link)
	if err != nil {
		return ref, err
	}
	ref.JobType = jobType
	ref.Platform = platform
	return ref, nil
}

// JobID returns the first all-digit path segment of link, or "" if none.
func JobID(link string) string {
	match := jobIDPattern.FindStringSubmatch(link)
	if match == nil {
		return ""
	}
	return match[1]
}

// DetectArch returns the architecture named in link.
func DetectArch(link string) Arch {
	switch {
	case strings.Contains(link, string(ArchPPC64LE)):
		return ArchPPC64LE
	case strings.Contains(link, string(ArchS390X)):
		return ArchS390X
	default:
		return ArchUnknown
	}
}

// ParseVersion returns the first major.minor pair found in s.
func ParseVersion(s string) Version {
	match := versionPattern.FindStringSubmatch(s)
	if match == nil {
		return Version{}
	}
	major, err := strconv.Atoi(match[1])
	if err != nil {
		return Version{}
	}
	minor, err := strconv.Atoi(match[2])
	if err != nil {
		return Version{}
	}
	return Version{Major: major, Minor: minor}
}
