// Package misc keeps program identity, values could be set at link time with
// -ldflags "-X cssexpr/misc.version=...".
package misc

import (
	"runtime/debug"
)

var (
	appName = "cssexpr"
	version = ""
	gitHash = ""
)

func GetAppName() string {
	return appName
}

// GetVersion returns version set at build time or main module version from
// build information.
func GetVersion() string {
	if version != "" {
		return version
	}
	if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" {
		return bi.Main.Version
	}
	return "(devel)"
}

// GetGitHash returns commit hash set at build time or recorded by VCS stamping.
func GetGitHash() string {
	if gitHash != "" {
		return gitHash
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			if s.Key == "vcs.revision" {
				if len(s.Value) > 8 {
					return s.Value[:8]
				}
				return s.Value
			}
		}
	}
	return "unknown"
}
