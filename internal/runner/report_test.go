package runner_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"

	"toyproc/internal/runner"
)

func Test_Report_Write_Round_Trips_Through_JSON(t *testing.T) {
	t.Parallel()

	report, err := runner.NewReport()
	if err != nil {
		t.Fatalf("new report: %v", err)
	}

	if _, err := uuid.Parse(report.ID); err != nil {
		t.Fatalf("report ID %q is not a UUID: %v", report.ID, err)
	}

	scenario := runner.Scenario{Name: "system error", Bin: "./incinerator", Args: []string{"1"}}
	results := []runner.Result{
		{Exit: 0, Elapsed: 120 * time.Millisecond, Stdout: []string{"System error."}},
		{Exit: 0, Elapsed: 80 * time.Millisecond, Stdout: []string{"System error."}},
	}

	report.Add(runner.Evaluate(scenario, results))

	path := filepath.Join(t.TempDir(), "report.json")
	if err := report.Write(path); err != nil {
		t.Fatalf("write report: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}

	var loaded runner.Report
	if err := json.Unmarshal(data, &loaded); err != nil {
		t.Fatalf("unmarshal report: %v", err)
	}

	diff := cmp.Diff(report, &loaded, cmpopts.EquateApproxTime(time.Second))
	if diff != "" {
		t.Errorf("report mismatch (-want +got):\n%s", diff)
	}
}

func Test_Report_Add_Folds_Summary_And_Problems(t *testing.T) {
	t.Parallel()

	report, err := runner.NewReport()
	if err != nil {
		t.Fatalf("new report: %v", err)
	}

	wantExit := 1
	scenario := runner.Scenario{Name: "hold", Bin: "./incinerator", WantExit: &wantExit}
	results := []runner.Result{
		{Exit: 1, Elapsed: time.Second},
		{Exit: 0, Elapsed: time.Second},
	}

	report.Add(runner.Evaluate(scenario, results))

	if len(report.Scenarios) != 1 {
		t.Fatalf("scenarios = %d, want 1", len(report.Scenarios))
	}

	entry := report.Scenarios[0]

	if entry.Runs != 2 {
		t.Errorf("runs = %d, want 2", entry.Runs)
	}

	if entry.ExitCounts[0] != 1 || entry.ExitCounts[1] != 1 {
		t.Errorf("exit counts = %v, want one of each", entry.ExitCounts)
	}

	if len(entry.Problems) != 1 {
		t.Errorf("problems = %v, want the exit mismatch", entry.Problems)
	}

	if entry.MeanSeconds != 1.0 {
		t.Errorf("mean seconds = %v, want 1.0", entry.MeanSeconds)
	}
}
