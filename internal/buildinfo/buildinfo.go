// Package buildinfo holds version data stamped in at link time:
//
//	go build -ldflags "-X github.com/dmitrijs2005/garage/internal/buildinfo.buildVersion=v1.2.0"
package buildinfo

import (
	"fmt"
	"io"
	"runtime/debug"
)

var (
	buildVersion = "N/A"
	buildDate    = "N/A"
	buildCommit  = "N/A"
)

// readBuildInfo is a test seam.
var readBuildInfo = debug.ReadBuildInfo

// Data returns version, date and commit. Values not set through ldflags
// fall back to what the Go toolchain recorded in the binary.
func Data() (version, date, commit string) {
	version, date, commit = buildVersion, buildDate, buildCommit

	info, ok := readBuildInfo()
	if !ok {
		return
	}
	if version == "N/A" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		version = info.Main.Version
	}
	for _, s := range info.Settings {
		switch {
		case s.Key == "vcs.revision" && commit == "N/A":
			commit = s.Value
		case s.Key == "vcs.time" && date == "N/A":
			date = s.Value
		}
	}
	return
}

func PrintBuildData(w io.Writer) {
	version, date, commit := Data()
	fmt.Fprintf(w, "Build version: %s\n", version)
	fmt.Fprintf(w, "Build date: %s\n", date)
	fmt.Fprintf(w, "Build commit: %s\n", commit)
}
