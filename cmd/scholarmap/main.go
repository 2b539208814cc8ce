// Command scholarmap is the faculty record reconciliation CLI.
package main

import "github.com/scholarmap/scholarmap/cmd/scholarmap/cmd"

// Build-time variables set via ldflags.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	cmd.Execute(version, commit, date)
}
