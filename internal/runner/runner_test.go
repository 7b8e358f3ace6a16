package runner_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"toyproc/internal/runner"
)

// shTarget wraps a shell snippet so tests can observe real processes
// without building any target binaries first.
func shTarget(script string) runner.Target {
	return runner.Target{Bin: "/bin/sh", Args: []string{"-c", script}}
}

func Test_Run_Captures_Exit_Status_When_Target_Exits(t *testing.T) {
	t.Parallel()

	result, err := runner.Run(t.Context(), shTarget("exit 7"), runner.Options{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if result.Err != nil {
		t.Fatalf("result err: %v", result.Err)
	}

	if result.Exit != 7 {
		t.Errorf("exit = %d, want 7", result.Exit)
	}

	if result.TimedOut {
		t.Error("run should not have timed out")
	}
}

func Test_Run_Captures_Stdout_Lines_In_Order(t *testing.T) {
	t.Parallel()

	result, err := runner.Run(t.Context(), shTarget("echo one; echo two"), runner.Options{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	want := []string{"one", "two"}
	if len(result.Stdout) != len(want) {
		t.Fatalf("stdout = %v, want %v", result.Stdout, want)
	}

	for i := range want {
		if result.Stdout[i] != want[i] {
			t.Errorf("stdout[%d] = %q, want %q", i, result.Stdout[i], want[i])
		}
	}
}

func Test_Run_Kills_Process_Group_When_Timeout_Elapses(t *testing.T) {
	t.Parallel()

	start := time.Now()

	result, err := runner.Run(t.Context(), shTarget("sleep 30"), runner.Options{Timeout: 100 * time.Millisecond})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if !result.TimedOut {
		t.Fatal("run should have timed out")
	}

	if result.Exit != -1 {
		t.Errorf("exit = %d, want -1 for a killed run", result.Exit)
	}

	if elapsed := time.Since(start); elapsed > 10*time.Second {
		t.Errorf("kill took %s, the group kill did not land", elapsed)
	}
}

func Test_Run_Reports_Result_Error_When_Binary_Missing(t *testing.T) {
	t.Parallel()

	missing := runner.Target{Bin: filepath.Join(t.TempDir(), "no-such-bin")}

	result, err := runner.Run(t.Context(), missing, runner.Options{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if result.Err == nil {
		t.Fatal("result err should be set for a missing binary")
	}
}

func Test_RunN_Observes_Every_Run_When_Workers_Are_Parallel(t *testing.T) {
	t.Parallel()

	results, err := runner.RunN(t.Context(), shTarget("exit 3"), 5, 2, runner.Options{})
	if err != nil {
		t.Fatalf("run n: %v", err)
	}

	if len(results) != 5 {
		t.Fatalf("results = %d, want 5", len(results))
	}

	for i, result := range results {
		if result.Exit != 3 {
			t.Errorf("run %d exit = %d, want 3", i, result.Exit)
		}
	}

	summary := runner.Summarize(results)
	if summary.Exits[3] != 5 {
		t.Errorf("exit distribution = %v, want 5 runs of status 3", summary.Exits)
	}
}

func Test_RunN_Returns_Context_Error_When_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	results, err := runner.RunN(ctx, shTarget("exit 0"), 3, 1, runner.Options{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}

	if results != nil {
		t.Errorf("results = %v, want nil on abort", results)
	}
}

func Test_RunN_Returns_Nothing_When_Count_Is_Zero(t *testing.T) {
	t.Parallel()

	results, err := runner.RunN(t.Context(), shTarget("exit 0"), 0, 4, runner.Options{})
	if err != nil {
		t.Fatalf("run n: %v", err)
	}

	if results != nil {
		t.Errorf("results = %v, want nil", results)
	}
}

func Test_Summarize_Aggregates_Statuses_Timeouts_And_Failures(t *testing.T) {
	t.Parallel()

	results := []runner.Result{
		{Exit: 1, Elapsed: 2 * time.Second},
		{Exit: 1, Elapsed: 4 * time.Second},
		{Exit: 0, Elapsed: 3 * time.Second},
		{Exit: -1, TimedOut: true, Elapsed: 10 * time.Second},
		{Err: errors.New("spawn failed")},
	}

	summary := runner.Summarize(results)

	if summary.Runs != 5 {
		t.Errorf("runs = %d, want 5", summary.Runs)
	}

	if summary.Failures != 1 {
		t.Errorf("failures = %d, want 1", summary.Failures)
	}

	if summary.Timeouts != 1 {
		t.Errorf("timeouts = %d, want 1", summary.Timeouts)
	}

	if summary.Exits[1] != 2 || summary.Exits[0] != 1 || summary.Exits[-1] != 1 {
		t.Errorf("exit distribution = %v", summary.Exits)
	}

	if summary.Min != 2*time.Second || summary.Max != 10*time.Second {
		t.Errorf("min/max = %s/%s, want 2s/10s", summary.Min, summary.Max)
	}

	wantMean := 19 * time.Second / 4
	if summary.Mean() != wantMean {
		t.Errorf("mean = %s, want %s", summary.Mean(), wantMean)
	}
}

func Test_Summary_Mean_Is_Zero_When_Nothing_Was_Observed(t *testing.T) {
	t.Parallel()

	if mean := runner.Summarize(nil).Mean(); mean != 0 {
		t.Errorf("mean = %s, want 0", mean)
	}
}
