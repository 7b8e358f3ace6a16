package cli

import (
	"context"
	"testing"
	"time"

	"toyproc/internal/testutil"
)

// Timing profile for in-process incinerator tests: the release ramp is slow
// enough never to fire mid-test unless a test speeds it up, and the hold is
// short enough that fallthrough paths return promptly.
const (
	testWarmStep = time.Minute
	testHold     = 50 * time.Millisecond
)

// CLI drives the target programs in-process for tests, with scaled timing.
type CLI struct {
	t *testing.T

	// WarmStep and Hold replace the production delays. Tests adjust them
	// to steer the termination race.
	WarmStep time.Duration
	Hold     time.Duration
}

// NewCLI returns a harness whose release never fires on its own and whose
// hold returns quickly.
func NewCLI(t *testing.T) *CLI {
	t.Helper()

	return &CLI{t: t, WarmStep: testWarmStep, Hold: testHold}
}

// Incinerate runs the incinerator to main-flow completion and returns its
// stdout and the main flow's exit code.
func (c *CLI) Incinerate(args ...string) (string, int) {
	c.t.Helper()

	run := c.Start(args...)
	code := run.Wait(c.t)

	return run.Out.String(), code
}

// Start launches the incinerator in the background and returns probes for
// its output, its termination requests, and the main flow's completion.
func (c *CLI) Start(args ...string) *IncineratorRun {
	c.t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	c.t.Cleanup(cancel)

	run := &IncineratorRun{
		Out:    &testutil.Buffer{},
		Exit:   testutil.NewExitRecorder(),
		cancel: cancel,
		done:   make(chan int, 1),
	}

	opts := IncineratorOptions{WarmStep: c.WarmStep, Hold: c.Hold, Exit: run.Exit.Exit}

	go func() {
		run.done <- RunIncinerator(ctx, run.Out, args, opts)
	}()

	return run
}

// Hello runs the hello target and returns its stdout and exit code.
func (c *CLI) Hello(args ...string) (string, int) {
	c.t.Helper()

	var out testutil.Buffer

	code := RunHello(&out, args)

	return out.String(), code
}

// IncineratorRun is one in-flight incinerator invocation.
type IncineratorRun struct {
	Out  *testutil.Buffer
	Exit *testutil.ExitRecorder

	cancel context.CancelFunc
	done   chan int
}

// Wait blocks until the main flow returns and yields its exit code.
func (r *IncineratorRun) Wait(t *testing.T) int {
	t.Helper()

	select {
	case code := <-r.done:
		return code
	case <-time.After(10 * time.Second):
		t.Fatal("incinerator main flow did not return")

		return -1
	}
}

// Stop cancels the run's context, unblocking any remaining pauses.
func (r *IncineratorRun) Stop() {
	r.cancel()
}
