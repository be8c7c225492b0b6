// Package version reports the build version of the regenesis binary.
package version

import "runtime/debug"

// version is set at build time:
//
//	go build -ldflags "-X github.com/rshade/regenesis/pkg/version.version=v1.0.0"
var version = "" //nolint:gochecknoglobals // Set via ldflags

const devVersion = "dev"

// GetVersion returns the ldflags version, else the module version recorded
// in the build info, else "dev".
func GetVersion() string {
	if version != "" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		if v := info.Main.Version; v != "" && v != "(devel)" {
			return v
		}
	}
	return devVersion
}
