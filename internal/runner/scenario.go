package runner

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/tailscale/hujson"
)

// Suite is a scenario file: suite-wide defaults plus the scenarios to run.
type Suite struct {
	// Runs, Jobs, and Timeout are defaults for scenarios that leave the
	// matching field unset.
	Runs    int      `json:"runs,omitempty"`
	Jobs    int      `json:"jobs,omitempty"`
	Timeout Duration `json:"timeout,omitempty"`

	Scenarios []Scenario `json:"scenarios"`
}

// Scenario is one target invocation with optional expectations.
type Scenario struct {
	Name    string   `json:"name"`
	Bin     string   `json:"bin"`
	Args    []string `json:"args,omitempty"`
	Runs    int      `json:"runs,omitempty"`
	Timeout Duration `json:"timeout,omitempty"`

	// WantExit, when set, requires every run to exit with that status.
	WantExit *int `json:"want_exit,omitempty"`

	// WantTimeout requires every run to hit the timeout kill instead of
	// exiting. Mutually exclusive with WantExit.
	WantTimeout bool `json:"want_timeout,omitempty"`

	// WantStdout lists substrings every run's stdout must contain.
	WantStdout []string `json:"want_stdout,omitempty"`
}

// Duration is a time.Duration that marshals as a string like "30s".
type Duration time.Duration

// UnmarshalJSON parses a Go duration string.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("duration must be a string like \"30s\": %w", err)
	}

	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}

	*d = Duration(parsed)

	return nil
}

// MarshalJSON renders the duration string.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// LoadSuite reads a scenario file, standardizes it (JSONC comments and
// trailing commas are tolerated), validates it, and resolves defaults so
// every returned scenario carries its effective runs and timeout.
func LoadSuite(path string) (Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Suite{}, fmt.Errorf("%w: %s", ErrSuiteNotFound, path)
		}

		return Suite{}, fmt.Errorf("reading scenario file: %w", err)
	}

	suite, parseErr := parseSuite(data)
	if parseErr != nil {
		return Suite{}, fmt.Errorf("%w %s: %w", ErrSuiteInvalid, path, parseErr)
	}

	return suite, nil
}

func parseSuite(data []byte) (Suite, error) {
	// Standardize JSONC to JSON
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Suite{}, fmt.Errorf("invalid JSONC: %w", err)
	}

	var suite Suite

	if err := json.Unmarshal(standardized, &suite); err != nil {
		return Suite{}, fmt.Errorf("invalid JSON: %w", err)
	}

	if err := validateSuite(suite); err != nil {
		return Suite{}, err
	}

	return resolveSuite(suite), nil
}

func validateSuite(suite Suite) error {
	if len(suite.Scenarios) == 0 {
		return ErrNoScenarios
	}

	if suite.Runs < 0 {
		return ErrRunsNegative
	}

	for i, scenario := range suite.Scenarios {
		if strings.TrimSpace(scenario.Name) == "" {
			return fmt.Errorf("%w (scenario %d)", ErrScenarioName, i)
		}

		if scenario.Bin == "" {
			return fmt.Errorf("%w (scenario %q)", ErrScenarioBin, scenario.Name)
		}

		if scenario.Runs < 0 {
			return fmt.Errorf("%w (scenario %q)", ErrRunsNegative, scenario.Name)
		}

		if scenario.WantExit != nil && scenario.WantTimeout {
			return fmt.Errorf("%w (scenario %q)", ErrConflictingWants, scenario.Name)
		}
	}

	return nil
}

// resolveSuite applies defaults: suite values fill unset scenario fields,
// built-in defaults fill unset suite values.
func resolveSuite(suite Suite) Suite {
	if suite.Runs == 0 {
		suite.Runs = 1
	}

	if suite.Jobs == 0 {
		suite.Jobs = 1
	}

	if suite.Timeout == 0 {
		suite.Timeout = Duration(DefaultTimeout)
	}

	for i := range suite.Scenarios {
		scenario := &suite.Scenarios[i]

		if scenario.Runs == 0 {
			scenario.Runs = suite.Runs
		}

		if scenario.Timeout == 0 {
			scenario.Timeout = suite.Timeout
		}
	}

	return suite
}

// Verdict is one scenario's results checked against its expectations.
type Verdict struct {
	Scenario Scenario
	Results  []Result
	Summary  Summary

	// Problems lists expectation violations and observation failures, one
	// line each. Empty means the scenario passed.
	Problems []string
}

// Evaluate checks results against the scenario's expectations.
func Evaluate(scenario Scenario, results []Result) Verdict {
	verdict := Verdict{Scenario: scenario, Results: results, Summary: Summarize(results)}

	problem := func(format string, a ...any) {
		verdict.Problems = append(verdict.Problems, fmt.Sprintf(format, a...))
	}

	for i, result := range results {
		if result.Err != nil {
			problem("run %d: %v", i, result.Err)

			continue
		}

		switch {
		case result.TimedOut && !scenario.WantTimeout:
			problem("run %d: killed after %s timeout", i, time.Duration(scenario.Timeout))
		case !result.TimedOut && scenario.WantTimeout:
			problem("run %d: exited %d, want timeout", i, result.Exit)
		case !result.TimedOut && scenario.WantExit != nil && result.Exit != *scenario.WantExit:
			problem("run %d: exit %d, want %d", i, result.Exit, *scenario.WantExit)
		}

		stdout := strings.Join(result.Stdout, "\n")
		for _, want := range scenario.WantStdout {
			if !strings.Contains(stdout, want) {
				problem("run %d: stdout missing %q", i, want)
			}
		}
	}

	return verdict
}

// Passed reports whether the scenario met every expectation.
func (v Verdict) Passed() bool {
	return len(v.Problems) == 0
}
