// Package version carries the build identity of the codefolio binary.
// Release builds set the variables with -ldflags "-X"; other builds fall
// back to the module build info.
package version

import (
	"fmt"
	"runtime/debug"
)

const unknown = "<unknown>"

var (
	// Version is the release tag.
	Version = "dev"
	// Commit is the VCS revision the binary was built from.
	Commit = unknown
	// Date is the build time.
	Date = unknown
)

// InitBinaryVersion fills the variables left unset by the linker from the
// embedded build info.
func InitBinaryVersion() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}

	apply(info)
}

func apply(info *debug.BuildInfo) {
	if Version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}

	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			if Commit == unknown {
				Commit = setting.Value
			}
		case "vcs.time":
			if Date == unknown {
				Date = setting.Value
			}
		}
	}
}

// String renders the one-line version banner.
func String() string {
	return fmt.Sprintf("codefolio %s (commit: %s, built: %s)", Version, Commit, Date)
}
