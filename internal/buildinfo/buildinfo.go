// Package buildinfo carries version metadata injected at link time via
// -ldflags "-X scanledger/internal/buildinfo.Version=...".
package buildinfo

import "fmt"

var (
	Version   = "N/A"
	BuildDate = "N/A"
	Commit    = "N/A"
)

// Print writes the standard startup banner to stdout.
func Print() {
	fmt.Printf("Build version: %s\n", Version)
	fmt.Printf("Build date: %s\n", BuildDate)
	fmt.Printf("Build commit: %s\n", Commit)
}
