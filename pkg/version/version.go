// Package version exposes build metadata injected with -ldflags.
package version

import "runtime/debug"

// Set at build time, e.g.
//
//	go build -ldflags "-X github.com/Adithya151/DCF---racker/pkg/version.version=1.0.0"
//
//nolint:gochecknoglobals // ldflags targets must be package variables.
var (
	version = ""
	commit  = ""
)

const devVersion = "0.0.0-dev"

// GetVersion returns the injected version, the module version recorded by
// `go install`, or a development placeholder.
func GetVersion() string {
	if version != "" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return devVersion
}

// GetCommit returns the injected commit hash, or the VCS revision recorded by
// the Go toolchain when available.
func GetCommit() string {
	if commit != "" {
		return commit
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" {
				return s.Value
			}
		}
	}
	return ""
}
