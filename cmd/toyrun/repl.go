package main

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/peterh/liner"

	"toyproc/internal/runner"
)

// REPL drives one target interactively, accumulating results across runs.
type REPL struct {
	streams *runner.IO
	target  runner.Target
	runs    int
	timeout time.Duration
	results []runner.Result
	last    *runner.Result
	liner   *liner.State
}

// runREPL starts the interactive loop for the given target.
func runREPL(streams *runner.IO, argv []string, opts options) int {
	repl := &REPL{
		streams: streams,
		target:  runner.Target{Bin: argv[0], Args: argv[1:]},
		runs:    opts.runs,
		timeout: opts.timeout,
	}

	if err := repl.Run(); err != nil {
		streams.Errorln(err)

		return 1
	}

	return 0
}

// historyFile returns the path to the history file.
func historyFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".toyrun_history")
}

// Run starts the REPL loop.
func (r *REPL) Run() error {
	r.liner = liner.NewLiner()
	defer r.liner.Close()

	r.liner.SetCtrlCAborts(true)
	r.liner.SetCompleter(r.completer)

	// Load history
	if f, err := os.Open(historyFile()); err == nil {
		_, _ = r.liner.ReadHistory(f)
		_ = f.Close()
	}

	r.streams.Printf("toyrun - driving %s (runs=%d, timeout=%s)\n", r.target, r.runs, r.timeout)
	r.streams.Println("Type 'help' for available commands.")
	r.streams.Println()

	for {
		line, err := r.liner.Prompt("toyrun> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				r.streams.Println("\nBye!")

				break
			}

			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		r.liner.AppendHistory(line)

		parts := strings.Fields(line)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "exit", "quit", "q":
			r.streams.Println("Bye!")

			r.saveHistory()

			return nil

		case "help", "?":
			r.printHelp()

		case "run", "r":
			r.cmdRun(args)

		case "runs":
			r.cmdRuns(args)

		case "timeout":
			r.cmdTimeout(args)

		case "stats":
			r.cmdStats()

		case "last":
			r.cmdLast()

		case "report":
			r.cmdReport(args)

		default:
			r.streams.Printf("Unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}

	r.saveHistory()

	return nil
}

// saveHistory persists command history to disk.
func (r *REPL) saveHistory() {
	if path := historyFile(); path != "" {
		if f, err := os.Create(path); err == nil {
			_, _ = r.liner.WriteHistory(f)
			_ = f.Close()
		}
	}
}

// completer provides tab completion for commands.
func (r *REPL) completer(line string) []string {
	commands := []string{
		"run", "runs", "timeout",
		"stats", "last", "report",
		"help", "exit", "quit", "q",
	}

	var completions []string

	lower := strings.ToLower(line)
	for _, cmd := range commands {
		if strings.HasPrefix(cmd, lower) {
			completions = append(completions, cmd)
		}
	}

	return completions
}

func (r *REPL) printHelp() {
	r.streams.Println("Commands:")
	r.streams.Println("  run [args...]    Run the target; args replace its argument list")
	r.streams.Println("  runs <n>         Set how many runs each 'run' performs")
	r.streams.Println("  timeout <dur>    Set the per-run timeout (e.g. 5s, 500ms)")
	r.streams.Println("  stats            Show the accumulated exit-status distribution")
	r.streams.Println("  last             Show the last run's stdout")
	r.streams.Println("  report <path>    Write the accumulated results as a JSON report")
	r.streams.Println("  help             Show this help")
	r.streams.Println("  exit / quit / q  Exit")
}

// cmdRun performs the configured number of runs, with the session's
// arguments unless the command supplies its own.
func (r *REPL) cmdRun(args []string) {
	target := r.target
	if len(args) > 0 {
		target.Args = args
	}

	results, err := runner.RunN(context.Background(), target, r.runs, 1, runner.Options{Timeout: r.timeout})
	if err != nil {
		r.streams.Errorln(err)

		return
	}

	for i, result := range results {
		r.streams.Runln(formatRun(i, result))
	}

	r.results = append(r.results, results...)

	if len(results) > 0 {
		last := results[len(results)-1]
		r.last = &last
	}
}

func (r *REPL) cmdRuns(args []string) {
	if len(args) != 1 {
		r.streams.Println("usage: runs <n>")

		return
	}

	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 {
		r.streams.Println("runs must be a positive integer")

		return
	}

	r.runs = n
	r.streams.Printf("runs set to %d\n", n)
}

func (r *REPL) cmdTimeout(args []string) {
	if len(args) != 1 {
		r.streams.Println("usage: timeout <duration>")

		return
	}

	d, err := time.ParseDuration(args[0])
	if err != nil || d <= 0 {
		r.streams.Println("timeout must be a positive duration like 5s")

		return
	}

	r.timeout = d
	r.streams.Printf("timeout set to %s\n", d)
}

func (r *REPL) cmdStats() {
	if len(r.results) == 0 {
		r.streams.Println("Nothing observed yet.")

		return
	}

	printSummary(r.streams, r.target, runner.Summarize(r.results))
}

func (r *REPL) cmdLast() {
	if r.last == nil {
		r.streams.Println("Nothing observed yet.")

		return
	}

	if r.last.Err != nil {
		r.streams.Println("last run failed:", r.last.Err)

		return
	}

	if len(r.last.Stdout) == 0 {
		r.streams.Println("(no stdout)")

		return
	}

	for _, line := range r.last.Stdout {
		r.streams.Println(" ", line)
	}
}

func (r *REPL) cmdReport(args []string) {
	if len(args) != 1 {
		r.streams.Println("usage: report <path>")

		return
	}

	if len(r.results) == 0 {
		r.streams.Println("Nothing observed yet.")

		return
	}

	scenario := runner.Scenario{
		Name:    "repl",
		Bin:     r.target.Bin,
		Args:    r.target.Args,
		Runs:    len(r.results),
		Timeout: runner.Duration(r.timeout),
	}

	summary := runner.Summarize(r.results)
	verdict := runner.Verdict{Scenario: scenario, Results: r.results, Summary: summary}

	_ = writeReport(r.streams, args[0], []runner.Verdict{verdict})
}
