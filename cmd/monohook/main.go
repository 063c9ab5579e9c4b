package main

import (
	"fmt"
	"runtime"
)

// Build metadata, overridden with -ldflags "-X main.version=...".
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	Execute()
}

// versionString renders the --version output, e.g.
// "monohook v1.2.0 (3f2a9c1, 2026-01-02, go1.25.5)".
func versionString() string {
	short := commit
	if len(short) > 7 {
		short = short[:7]
	}
	return fmt.Sprintf("monohook %s (%s, %s, %s)", version, short, date, runtime.Version())
}
