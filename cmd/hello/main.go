// Package main provides hello, a toy target that echoes its arguments and
// exits with a caller-chosen status: the leading integer of the first
// argument, reduced by the host to the exit-status width.
//
// Usage:
//
//	hello [args...]
package main

import (
	"os"

	"toyproc/internal/cli"
)

func main() {
	os.Exit(cli.RunHello(os.Stdout, os.Args[1:]))
}
