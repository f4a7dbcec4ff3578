// Package version exposes build metadata injected with -ldflags, for example
//
//	-X github.com/webgme/webgme-setup-tool/pkg/version.Version=v1.2.0
package version

import (
	"fmt"
	"runtime/debug"
)

// Build-time variables injected via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Info is the build metadata of the running binary.
type Info struct {
	Version string
	Commit  string
	Date    string
}

// Get returns the build metadata. Binaries built with "go install" carry no
// ldflags; for those the module version and VCS settings recorded by the Go
// toolchain are used instead.
func Get() Info {
	info := Info{Version: Version, Commit: Commit, Date: Date}
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	fillFromBuildInfo(&info, bi)
	return info
}

func fillFromBuildInfo(info *Info, bi *debug.BuildInfo) {
	if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == "none" {
				info.Commit = s.Value
			}
		case "vcs.time":
			if info.Date == "unknown" {
				info.Date = s.Value
			}
		}
	}
}

// GetVersion returns the current version string.
func GetVersion() string {
	return Get().Version
}

// GetFullVersion returns a formatted full version string.
func GetFullVersion() string {
	i := Get()
	return fmt.Sprintf("%s (commit: %s, built: %s)", i.Version, i.Commit, i.Date)
}
