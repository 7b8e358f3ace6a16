package runner

import (
	"fmt"
	"io"
)

// IO gates runner output: per-run lines can be silenced for large repeat
// counts, while summaries and diagnostics always get through.
type IO struct {
	out    io.Writer
	errOut io.Writer
	quiet  bool
}

// NewIO creates an IO writing user output to out and diagnostics to errOut.
// With quiet set, per-run lines are dropped.
func NewIO(out, errOut io.Writer, quiet bool) *IO {
	return &IO{out: out, errOut: errOut, quiet: quiet}
}

// Runln writes a per-run line to stdout unless quiet.
func (o *IO) Runln(a ...any) {
	if o.quiet {
		return
	}

	_, _ = fmt.Fprintln(o.out, a...)
}

// Println writes to stdout.
func (o *IO) Println(a ...any) {
	_, _ = fmt.Fprintln(o.out, a...)
}

// Printf writes formatted output to stdout.
func (o *IO) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(o.out, format, a...)
}

// Warnln writes a warning to stderr.
func (o *IO) Warnln(a ...any) {
	_, _ = fmt.Fprintln(o.errOut, append([]any{"warning:"}, a...)...)
}

// Errorln writes an error to stderr.
func (o *IO) Errorln(a ...any) {
	_, _ = fmt.Fprintln(o.errOut, append([]any{"error:"}, a...)...)
}
