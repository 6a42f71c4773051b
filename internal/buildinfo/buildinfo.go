package buildinfo

import (
	"fmt"
	"runtime"
)

// Set with -ldflags "-X cryptotx/internal/buildinfo.Version=...".
var (
	Version = "dev"
	Commit  = ""
	Date    = ""
	Go      = runtime.Version()
	OS      = runtime.GOOS
	Arch    = runtime.GOARCH
)

func String() string {
	s := fmt.Sprintf("cryptotx %s (%s %s/%s)", Version, Go, OS, Arch)
	if Commit != "" {
		s += " commit " + Commit
	}
	if Date != "" {
		s += " built " + Date
	}
	return s
}
