// Package version holds build information for the palette binary.
package version

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// Set via -ldflags at build time.
var (
	Version = "0.3.0"
	Commit  = "dev"
	Date    = "unknown"
)

// Semver parses Version. Development builds with an unparseable version
// report 0.0.0 so constraint checks fail closed.
func Semver() *semver.Version {
	v, err := semver.NewVersion(Version)
	if err != nil {
		return semver.MustParse("0.0.0")
	}
	return v
}

// String returns a one-line description of the build.
func String() string {
	return fmt.Sprintf("palette %s (%s) built %s", Version, Commit, Date)
}
