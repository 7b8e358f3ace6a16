// Package main provides incinerator, a toy target whose background
// neurotoxin release races its own argument loop to terminate the process.
//
// Usage:
//
//	incinerator [core...]
//
// Each argument names a core to incinerate. Cores outside 1..3 are refused
// with a party notice. Any successful incineration darkens a core, fails
// the bank health check, and ends the main flow with "System error." and
// status 0. With nothing to do, the main flow parks while the release warms
// up and terminates the process with status 1.
package main

import (
	"context"
	"os"

	"toyproc/internal/cli"
)

func main() {
	os.Exit(cli.RunIncinerator(context.Background(), os.Stdout, os.Args[1:], cli.IncineratorOptions{}))
}
