// Package version implements release version arithmetic and the
// build marker convention used in release commits.
package version

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/mod/semver"
)

// Version is a MAJOR.MINOR.PATCH release number.
type Version struct {
	Major int
	Minor int
	Patch int
}

// Part selects which component Bump increments.
type Part string

const (
	Major Part = "major"
	Minor Part = "minor"
	Patch Part = "patch"
)

// Parts lists the valid parts in help order.
var Parts = []Part{Major, Minor, Patch}

// ParsePart validates a part name.
func ParsePart(s string) (Part, error) {
	for _, p := range Parts {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("invalid version part: %s (want major, minor or patch)", s)
}

// Parse parses "1.2.3". Surrounding whitespace and a leading "v" are accepted.
func Parse(s string) (Version, error) {
	raw := strings.TrimPrefix(strings.TrimSpace(s), "v")
	fields := strings.Split(raw, ".")
	if len(fields) != 3 {
		return Version{}, fmt.Errorf("invalid version: %q", s)
	}

	var nums [3]int
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil || n < 0 || f == "" || strings.HasPrefix(f, "+") {
			return Version{}, fmt.Errorf("invalid version: %q", s)
		}
		nums[i] = n
	}
	return Version{Major: nums[0], Minor: nums[1], Patch: nums[2]}, nil
}

// String returns "MAJOR.MINOR.PATCH".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Bump returns v with the given part incremented and lower parts reset.
func (v Version) Bump(p Part) Version {
	switch p {
	case Major:
		return Version{Major: v.Major + 1}
	case Minor:
		return Version{Major: v.Major, Minor: v.Minor + 1}
	default:
		return Version{Major: v.Major, Minor: v.Minor, Patch: v.Patch + 1}
	}
}

// Compare returns -1, 0 or +1 as a is less than, equal to or greater than b.
func Compare(a, b Version) int {
	return semver.Compare("v"+a.String(), "v"+b.String())
}

// Marker formats the release marker line, e.g. "build_beta_1.4.0".
func Marker(prefix, variant string, v Version) string {
	return prefix + variant + "_" + v.String()
}

// ParseMarker finds "<prefix><variant>_<version>" in a commit message.
func ParseMarker(message, prefix string) (variant string, v Version, err error) {
	re := regexp.MustCompile(regexp.QuoteMeta(prefix) + `([A-Za-z0-9-]+)_(\S+)`)
	m := re.FindStringSubmatch(message)
	if m == nil {
		return "", Version{}, fmt.Errorf("no %s marker in commit message", prefix)
	}
	v, err = Parse(m[2])
	if err != nil {
		return "", Version{}, err
	}
	return m[1], v, nil
}

// alphaPatchFloor is the first patch number used by alpha releases.
const alphaPatchFloor = 50

// AlphaPatch picks the next alpha version for v's MAJOR.MINOR.
// Alpha tags use two-or-more digit patches starting with 5-9; the result is
// one above the highest such tag, or MAJOR.MINOR.50 if there is none.
func AlphaPatch(v Version, tags []string) Version {
	re := regexp.MustCompile(fmt.Sprintf(`(?:^|[^0-9])%d\.%d\.([5-9][0-9]+)`, v.Major, v.Minor))

	highest := -1
	for _, tag := range tags {
		m := re.FindStringSubmatch(tag)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if n > highest {
			highest = n
		}
	}

	patch := alphaPatchFloor
	if highest >= 0 {
		patch = highest + 1
	}
	return Version{Major: v.Major, Minor: v.Minor, Patch: patch}
}
