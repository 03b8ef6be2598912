// Package version orders the semantic-version strings that identify form and
// prompt revisions.
package version

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Initial is the version given to records imported from the built-in defaults.
const Initial = "1.0.0"

// Validate reports an error unless v is a strict MAJOR.MINOR.PATCH version.
func Validate(v string) error {
	if strings.TrimSpace(v) == "" {
		return fmt.Errorf("version is required")
	}
	if _, err := semver.StrictNewVersion(v); err != nil {
		return fmt.Errorf("invalid version %q: %w", v, err)
	}
	return nil
}

// Compare returns -1, 0 or +1. Strings that do not parse as semver sort below
// every valid version and are ordered lexically among themselves.
func Compare(a, b string) int {
	va, errA := semver.NewVersion(a)
	vb, errB := semver.NewVersion(b)

	switch {
	case errA == nil && errB == nil:
		if c := va.Compare(vb); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	case errA == nil:
		return 1
	case errB == nil:
		return -1
	default:
		return strings.Compare(a, b)
	}
}

// Less reports whether a sorts before b.
func Less(a, b string) bool {
	return Compare(a, b) < 0
}

// Latest returns the index of the highest version in versions, or -1 when the
// slice is empty.
func Latest(versions []string) int {
	best := -1
	for i, v := range versions {
		if best == -1 || Compare(v, versions[best]) > 0 {
			best = i
		}
	}
	return best
}
