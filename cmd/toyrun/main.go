// toyrun runs the toyproc target programs and observes their outcomes:
// exit statuses, stdout, timing, and timeout kills.
//
// Usage:
//
//	toyrun [flags] <bin> [args...]   Observe a target, optionally repeatedly
//	toyrun -s <file> [flags]         Run a JSONC scenario suite
//	toyrun -i <bin> [args...]        Drive a target from a REPL
//
// Flags:
//
//	-n, --runs         How many times to run the target (default: 1)
//	-j, --jobs         Parallel workers for repeated runs (default: 1)
//	-t, --timeout      Per-run timeout before the group kill (default: 30s)
//	-s, --scenarios    JSONC scenario file to run
//	-o, --out          Write a JSON report to this path
//	-q, --quiet        Suppress per-run lines
//	-i, --interactive  Drive the target from a REPL
//
// The first positional argument is the target binary; everything after it
// is passed to the target verbatim, so flags must come before it.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"time"

	flag "github.com/spf13/pflag"

	"toyproc/internal/runner"
)

func main() {
	os.Exit(run(os.Stdout, os.Stderr, os.Args[1:]))
}

// options holds the parsed command line. The Set fields record whether the
// matching flag was given explicitly, so flags can override scenario-file
// values the same way CLI overrides beat config files elsewhere.
type options struct {
	runs        int
	jobs        int
	timeout     time.Duration
	scenarios   string
	out         string
	quiet       bool
	interactive bool

	runsSet    bool
	jobsSet    bool
	timeoutSet bool
}

func run(out, errOut io.Writer, args []string) int {
	flags := flag.NewFlagSet("toyrun", flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	flags.SetInterspersed(false)

	runs := flags.IntP("runs", "n", 1, "How many times to run the target")
	jobs := flags.IntP("jobs", "j", 1, "Parallel workers for repeated runs")
	timeout := flags.DurationP("timeout", "t", runner.DefaultTimeout, "Per-run timeout before the group kill")
	scenarios := flags.StringP("scenarios", "s", "", "JSONC scenario file to run")
	reportPath := flags.StringP("out", "o", "", "Write a JSON report to this path")
	quiet := flags.BoolP("quiet", "q", false, "Suppress per-run lines")
	interactive := flags.BoolP("interactive", "i", false, "Drive the target from a REPL")

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printUsage(out, flags)

			return 0
		}

		_, _ = fmt.Fprintln(errOut, "error:", err)

		return 1
	}

	opts := options{
		runs:        *runs,
		jobs:        *jobs,
		timeout:     *timeout,
		scenarios:   *scenarios,
		out:         *reportPath,
		quiet:       *quiet,
		interactive: *interactive,
		runsSet:     flags.Changed("runs"),
		jobsSet:     flags.Changed("jobs"),
		timeoutSet:  flags.Changed("timeout"),
	}

	streams := runner.NewIO(out, errOut, opts.quiet)

	switch {
	case opts.scenarios != "":
		return runSuite(streams, opts)
	case opts.interactive:
		if flags.NArg() < 1 {
			streams.Errorln("interactive mode needs a target binary")

			return 1
		}

		return runREPL(streams, flags.Args(), opts)
	default:
		if flags.NArg() < 1 {
			printUsage(out, flags)

			return 0
		}

		return runTarget(streams, flags.Args(), opts)
	}
}

// runTarget observes one ad-hoc target, possibly repeatedly.
func runTarget(streams *runner.IO, argv []string, opts options) int {
	target := runner.Target{Bin: argv[0], Args: argv[1:]}
	runOpts := runner.Options{Timeout: opts.timeout}

	results, err := runner.RunN(context.Background(), target, opts.runs, opts.jobs, runOpts)
	if err != nil {
		streams.Errorln(err)

		return 1
	}

	for i, result := range results {
		streams.Runln(formatRun(i, result))
	}

	summary := runner.Summarize(results)
	printSummary(streams, target, summary)

	if opts.out != "" {
		// An ad-hoc run carries no expectations; the report records the
		// observed distribution only.
		scenario := runner.Scenario{
			Name:    "ad-hoc",
			Bin:     target.Bin,
			Args:    target.Args,
			Runs:    opts.runs,
			Timeout: runner.Duration(opts.timeout),
		}

		verdict := runner.Verdict{Scenario: scenario, Results: results, Summary: summary}
		if code := writeReport(streams, opts.out, []runner.Verdict{verdict}); code != 0 {
			return code
		}
	}

	if summary.Failures > 0 {
		return 1
	}

	return 0
}

// runSuite loads a scenario file and checks every scenario against its
// expectations.
func runSuite(streams *runner.IO, opts options) int {
	suite, err := runner.LoadSuite(opts.scenarios)
	if err != nil {
		streams.Errorln(err)

		return 1
	}

	// Explicit flags beat the scenario file, file values beat built-in
	// defaults.
	if opts.jobsSet {
		suite.Jobs = opts.jobs
	}

	for i := range suite.Scenarios {
		if opts.runsSet {
			suite.Scenarios[i].Runs = opts.runs
		}

		if opts.timeoutSet {
			suite.Scenarios[i].Timeout = runner.Duration(opts.timeout)
		}
	}

	verdicts := make([]runner.Verdict, 0, len(suite.Scenarios))
	failed := 0

	for _, scenario := range suite.Scenarios {
		target := runner.Target{Bin: scenario.Bin, Args: scenario.Args}
		runOpts := runner.Options{Timeout: time.Duration(scenario.Timeout)}

		results, err := runner.RunN(context.Background(), target, scenario.Runs, suite.Jobs, runOpts)
		if err != nil {
			streams.Errorln(err)

			return 1
		}

		verdict := runner.Evaluate(scenario, results)
		verdicts = append(verdicts, verdict)

		if verdict.Passed() {
			streams.Println("ok:", scenario.Name)

			continue
		}

		failed++
		streams.Println("FAIL:", scenario.Name)

		for _, problem := range verdict.Problems {
			streams.Warnln(scenario.Name+":", problem)
		}
	}

	if opts.out != "" {
		if code := writeReport(streams, opts.out, verdicts); code != 0 {
			return code
		}
	}

	if failed > 0 {
		streams.Printf("%d of %d scenarios failed\n", failed, len(suite.Scenarios))

		return 1
	}

	return 0
}

func writeReport(streams *runner.IO, path string, verdicts []runner.Verdict) int {
	report, err := runner.NewReport()
	if err != nil {
		streams.Errorln(err)

		return 1
	}

	for _, verdict := range verdicts {
		report.Add(verdict)
	}

	if err := report.Write(path); err != nil {
		streams.Errorln(err)

		return 1
	}

	streams.Println("report:", path)

	return 0
}

func formatRun(i int, result runner.Result) string {
	switch {
	case result.Err != nil:
		return fmt.Sprintf("run %d: error: %v", i, result.Err)
	case result.TimedOut:
		return fmt.Sprintf("run %d: timed out after %s", i, result.Elapsed.Round(time.Millisecond))
	default:
		return fmt.Sprintf("run %d: exit %d in %s", i, result.Exit, result.Elapsed.Round(time.Millisecond))
	}
}

func printSummary(streams *runner.IO, target runner.Target, summary runner.Summary) {
	streams.Printf("%s: %d runs\n", target, summary.Runs)

	for _, status := range slices.Sorted(maps.Keys(summary.Exits)) {
		streams.Printf("  exit %d: %d\n", status, summary.Exits[status])
	}

	if summary.Timeouts > 0 {
		streams.Printf("  timeouts: %d\n", summary.Timeouts)
	}

	if summary.Failures > 0 {
		streams.Printf("  failures: %d\n", summary.Failures)
	}

	if summary.Runs > summary.Failures {
		streams.Printf("  elapsed: min %s, mean %s, max %s\n",
			summary.Min.Round(time.Millisecond),
			summary.Mean().Round(time.Millisecond),
			summary.Max.Round(time.Millisecond))
	}
}

func printUsage(w io.Writer, flags *flag.FlagSet) {
	_, _ = fmt.Fprintln(w, `toyrun - run toyproc targets and observe their outcomes

Usage:
  toyrun [flags] <bin> [args...]
  toyrun -s <file> [flags]
  toyrun -i <bin> [args...]

Everything after the target binary is passed to it verbatim.

Flags:`)
	_, _ = fmt.Fprint(w, flags.FlagUsages())
}
