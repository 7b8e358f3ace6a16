// Package cli implements the toyproc target programs as in-process run
// functions. Each Run function takes its output writer and argument list,
// so tests can drive a target without spawning a process.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"toyproc/internal/atoi"
	"toyproc/internal/reactor"
)

// DefaultHold is how long the incinerator parks after its argument loop.
// In production the release fires long before the hold elapses.
const DefaultHold = 9999 * time.Second

// IncineratorOptions configures timing and termination. The zero value is
// the production configuration.
type IncineratorOptions struct {
	// WarmStep is the release countdown's pause per temperature increment.
	// Zero means reactor.DefaultWarmStep.
	WarmStep time.Duration

	// Hold is the post-loop park duration. Zero means DefaultHold.
	Hold time.Duration

	// Exit terminates the whole process when the release fires.
	// Nil means os.Exit.
	Exit func(code int)
}

// RunIncinerator drives the incinerator target: it starts the background
// neurotoxin release, then walks args in order, incinerating each named
// core and checking bank health after every hit.
//
// The returned exit code belongs to the main flow alone: 0 when a health
// failure stops the loop, 1 when the post-loop hold elapses or ctx ends it.
// The release terminates the process with status 1 on its own schedule, and
// whichever side finishes first wins. Nothing synchronizes the two flows
// beyond the shared writer.
func RunIncinerator(ctx context.Context, out io.Writer, args []string, opts IncineratorOptions) int {
	exit := opts.Exit
	if exit == nil {
		exit = os.Exit
	}

	release := reactor.Release{Step: opts.WarmStep, Exit: exit}
	go release.Run(ctx, out)

	bank := reactor.NewBank()

	for _, arg := range args {
		n, _ := atoi.Leading(arg)

		// Accept only cores 1..3: core 0 is off limits and the bank ends
		// at core 3.
		if n <= 0 || n >= reactor.CoreCount {
			fprintf(out, "You'll miss the party -- %s\n", arg)

			continue
		}

		_ = bank.Incinerate(int(n)) // in range per the check above

		fprintf(out, "Core number %d incinerated.\n", n)

		if !bank.Healthy() {
			fprintln(out, "System error.")

			return 0
		}
	}

	hold := opts.Hold
	if hold <= 0 {
		hold = DefaultHold
	}

	// Park until the release ends the process. Outliving the hold, or
	// having it canceled, reports the same status the release would use.
	_ = reactor.Sleep(ctx, hold)

	return 1
}

func fprintln(w io.Writer, a ...any) {
	_, _ = fmt.Fprintln(w, a...)
}

func fprintf(w io.Writer, format string, a ...any) {
	_, _ = fmt.Fprintf(w, format, a...)
}
