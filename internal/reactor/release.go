package reactor

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"
)

// Warming ramp of the release countdown. Six pauses at the default step.
const (
	releaseTemperature = 60
	temperatureStep    = 10
)

// DefaultWarmStep is the production pause per temperature increment.
const DefaultWarmStep = time.Second

// ReleaseStatus is the exit status the release terminates the process with.
const ReleaseStatus = 1

// SleepFunc pauses for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep is the production SleepFunc. It returns nil after a full pause and
// ctx.Err() when interrupted early.
func Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Release is the timed neurotoxin release. Once started it warms on its own
// schedule and then terminates the whole process, superseding whatever the
// main flow is doing at that moment.
type Release struct {
	// Step is the pause per temperature increment. Zero means
	// DefaultWarmStep.
	Step time.Duration

	// Sleep pauses between increments. Nil means Sleep.
	Sleep SleepFunc

	// Exit terminates the process. Nil means os.Exit.
	Exit func(code int)
}

// Run announces warming, ramps to the release temperature, prints the
// release notice, and exits the process with ReleaseStatus. Canceling ctx
// during warming abandons the release without terminating anything.
//
// Run is meant to be started in its own goroutine. The main flow neither
// joins it nor cancels it in production; whichever side terminates the
// process first wins.
func (r Release) Run(ctx context.Context, out io.Writer) {
	fprintln(out, "Warming neurotoxins, please wait.")

	if err := r.warm(ctx); err != nil {
		return
	}

	fprintln(out, "Releasing neurotoxins. Have a nice day.")

	exit := r.Exit
	if exit == nil {
		exit = os.Exit
	}

	exit(ReleaseStatus)
}

// warm raises the temperature from zero to the release temperature, one
// pause per increment.
func (r Release) warm(ctx context.Context) error {
	step := r.Step
	if step <= 0 {
		step = DefaultWarmStep
	}

	sleep := r.Sleep
	if sleep == nil {
		sleep = Sleep
	}

	for temperature := 0; temperature < releaseTemperature; temperature += temperatureStep {
		if err := sleep(ctx, step); err != nil {
			return err
		}
	}

	return nil
}

func fprintln(w io.Writer, a ...any) {
	_, _ = fmt.Fprintln(w, a...)
}
