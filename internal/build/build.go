// Package build holds build-time information.
package build

// Version, Commit and Date default to development values and are
// overwritten by linker flags on release builds.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)
