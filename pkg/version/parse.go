package version

import (
	"fmt"
	"regexp"

	"github.com/Masterminds/semver/v3"
)

// versionRegex matches version patterns like 1.2.3, go1.25, v3.11, 18, etc.
var versionRegex = regexp.MustCompile(`(?:v|go)?(\d+)(?:\.(\d+))?(?:\.(\d+))?`)

// Extract finds and parses the first version number in a string,
// e.g. "Python 3.11.4" or "go version go1.25.1 linux/amd64".
func Extract(s string) (*semver.Version, error) {
	matches := versionRegex.FindStringSubmatch(s)
	if matches == nil {
		return nil, fmt.Errorf("no version found in: %q", s)
	}
	return build(matches), nil
}

func build(matches []string) *semver.Version {
	minor, patch := "0", "0"
	if matches[2] != "" {
		minor = matches[2]
	}
	if matches[3] != "" {
		patch = matches[3]
	}
	// The regex only admits digits, so this cannot fail.
	return semver.MustParse(matches[1] + "." + minor + "." + patch)
}

// Satisfies reports whether v meets the constraint expression, e.g. ">= 3.11, < 4".
func Satisfies(v *semver.Version, constraint string) (bool, error) {
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return false, fmt.Errorf("invalid version constraint %q: %w", constraint, err)
	}
	return c.Check(v), nil
}
