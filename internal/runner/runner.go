// Package runner spawns toyproc target programs and observes their
// outcomes: exit status, stdout, wall-clock duration, and timeout kills.
//
// The targets under observation terminate themselves on their own schedule
// (some from a background flow), so the runner never interprets an exit
// status beyond recording it. Runs that outlive their timeout are killed as
// a whole process group.
package runner

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// DefaultTimeout bounds a single observed run.
const DefaultTimeout = 30 * time.Second

// Target names a program to observe.
type Target struct {
	Bin  string
	Args []string
}

// String formats the target as a command line.
func (t Target) String() string {
	if len(t.Args) == 0 {
		return t.Bin
	}

	return t.Bin + " " + strings.Join(t.Args, " ")
}

// Options bound a single run.
type Options struct {
	// Timeout kills the run after this long. Zero means DefaultTimeout.
	Timeout time.Duration
}

// Result records one observed run.
type Result struct {
	// Exit is the host-reduced exit status, or -1 when the process died to
	// a signal (timeout kills included).
	Exit int

	// TimedOut reports whether the run was killed at the timeout.
	TimedOut bool

	// Stdout holds the run's stdout, split into lines.
	Stdout []string

	// Elapsed is the observed wall-clock duration.
	Elapsed time.Duration

	// Err is set when the run could not be observed at all, such as a
	// missing binary. The other fields are zero in that case.
	Err error
}

// Run spawns the target once and observes it to completion or timeout.
// The only returned error is ctx's, when the caller aborts the observation;
// per-run problems land in Result.Err instead.
func Run(ctx context.Context, target Target, opts Options) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	cmd := exec.Command(target.Bin, target.Args...)

	var stdout bytes.Buffer

	cmd.Stdout = &stdout
	cmd.Stderr = io.Discard

	// Own process group, so a timeout kill reaps grandchildren too.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	start := time.Now()

	if err := cmd.Start(); err != nil {
		return Result{Err: fmt.Errorf("starting %s: %w", target.Bin, err)}, nil
	}

	done := make(chan error, 1)

	go func() { done <- cmd.Wait() }()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	var result Result

	select {
	case <-done:
		result.Exit = -1
		if cmd.ProcessState != nil {
			result.Exit = cmd.ProcessState.ExitCode()
		}
	case <-timer.C:
		killGroup(cmd.Process.Pid)
		<-done

		result.TimedOut = true
		result.Exit = -1
	case <-ctx.Done():
		killGroup(cmd.Process.Pid)
		<-done

		return Result{}, ctx.Err()
	}

	result.Elapsed = time.Since(start)
	result.Stdout = splitLines(stdout.String())

	return result, nil
}

// RunN observes the target n times with jobs parallel workers, keeping run
// order in the returned slice. A canceled ctx stops scheduling and returns
// ctx.Err() with no results.
func RunN(ctx context.Context, target Target, n, jobs int, opts Options) ([]Result, error) {
	if n <= 0 {
		return nil, nil
	}

	if jobs <= 0 {
		jobs = 1
	}

	if jobs > n {
		jobs = n
	}

	results := make([]Result, n)
	indexes := make(chan int)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)

	fail := func(err error) {
		mu.Lock()
		defer mu.Unlock()

		if firstErr == nil {
			firstErr = err
		}
	}

	wg.Add(jobs)

	for range jobs {
		go func() {
			defer wg.Done()

			for i := range indexes {
				result, err := Run(ctx, target, opts)
				if err != nil {
					fail(err)

					return
				}

				results[i] = result
			}
		}()
	}

feed:
	for i := range n {
		select {
		case indexes <- i:
		case <-ctx.Done():
			fail(ctx.Err())

			break feed
		}
	}

	close(indexes)
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}

	return results, nil
}

// Summary aggregates repeated runs of one target.
type Summary struct {
	Runs     int
	Timeouts int

	// Failures counts runs that could not be observed (Result.Err set).
	Failures int

	// Exits maps observed exit status to occurrence count. Signal deaths
	// and timeouts land under -1.
	Exits map[int]int

	Min   time.Duration
	Max   time.Duration
	Total time.Duration
}

// Summarize folds results into a Summary.
func Summarize(results []Result) Summary {
	summary := Summary{Exits: make(map[int]int)}

	for _, result := range results {
		summary.Runs++

		if result.Err != nil {
			summary.Failures++

			continue
		}

		if result.TimedOut {
			summary.Timeouts++
		}

		summary.Exits[result.Exit]++
		summary.Total += result.Elapsed

		if summary.Min == 0 || result.Elapsed < summary.Min {
			summary.Min = result.Elapsed
		}

		if result.Elapsed > summary.Max {
			summary.Max = result.Elapsed
		}
	}

	return summary
}

// Mean returns the mean elapsed duration of the observed runs.
func (s Summary) Mean() time.Duration {
	observed := s.Runs - s.Failures
	if observed <= 0 {
		return 0
	}

	return s.Total / time.Duration(observed)
}

// killGroup kills pid's whole process group.
func killGroup(pid int) {
	_ = unix.Kill(-pid, unix.SIGKILL)
}

// splitLines splits captured stdout into lines, dropping the trailing empty
// element a final newline produces.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}

	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}
