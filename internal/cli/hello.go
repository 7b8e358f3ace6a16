package cli

import (
	"io"

	"toyproc/internal/atoi"
)

// RunHello drives the hello target: greet, echo the arguments, and pick the
// exit code from the first argument.
//
// The returned code is whatever the first argument's leading integer parses
// to; no digits or overflow collapse it to 0. The host reduces the code to
// its exit-status width (the low 8 bits on POSIX) at the process boundary.
func RunHello(out io.Writer, args []string) int {
	fprintln(out, "Hello world!")
	fprintln(out)

	if len(args) == 0 {
		return 0
	}

	fprintf(out, "Echoing %d arguments:\n", len(args))

	for _, arg := range args {
		fprintln(out, arg)
	}

	code, err := atoi.Leading(args[0])
	if err != nil {
		code = 0
	}

	return int(code)
}
