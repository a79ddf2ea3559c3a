package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Populated at build time via -ldflags. When built without ldflags
// (go install, go run) the values fall back to module build info.
var (
	App       string = "TickList"
	Version   string
	GitCommit string
	BuildTime string
)

// String returns a single-line version string, e.g. "TickList v1.2.0 (a1b2c3d)".
func String() string {
	s := fmt.Sprintf("%s %s", App, resolveVersion())
	if commit := resolveCommit(); commit != "" {
		s += fmt.Sprintf(" (%s)", commit)
	}
	return s
}

// PrintVersion prints the full version information
func PrintVersion() {
	fmt.Printf("%s version %s\n", App, resolveVersion())
	if commit := resolveCommit(); commit != "" {
		fmt.Printf("Git commit: %s\n", commit)
	}
	if BuildTime != "" {
		fmt.Printf("Build time: %s\n", BuildTime)
	}
	fmt.Printf("Go version: %s\n", runtime.Version())
	fmt.Printf("Built for: %s/%s\n", runtime.GOOS, runtime.GOARCH)
}

func resolveVersion() string {
	if Version != "" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "dev"
}

func resolveCommit() string {
	commit := GitCommit
	if commit == "" {
		if info, ok := debug.ReadBuildInfo(); ok {
			for _, kv := range info.Settings {
				if kv.Key == "vcs.revision" {
					commit = kv.Value
					break
				}
			}
		}
	}
	if len(commit) > 7 {
		return commit[:7]
	}
	return commit
}
