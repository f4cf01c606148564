// Package version carries build metadata injected with -ldflags.
package version

import "runtime/debug"

// Build metadata, overridden at link time:
//
//	-X github.com/Sumatoshi-tech/propconv/pkg/version.Version=v1.2.3
var (
	Version = "dev"
	Commit  = "<unknown>"
	Date    = "<unknown>"
)

// Resolve fills Version and Commit from the embedded module build info when
// they were not set at link time, as with `go install`.
func Resolve() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}

	if Version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}

	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			if Commit == "<unknown>" {
				Commit = setting.Value
			}
		case "vcs.time":
			if Date == "<unknown>" {
				Date = setting.Value
			}
		}
	}
}

// String renders the metadata on one line.
func String() string {
	return Version + " (commit: " + Commit + ", built: " + Date + ")"
}
