package runner

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/natefinch/atomic"
)

// Report is the JSON artifact a toyrun session can write.
type Report struct {
	ID        string           `json:"id"`
	Started   time.Time        `json:"started"`
	Scenarios []ScenarioReport `json:"scenarios"`
}

// ScenarioReport is one scenario's aggregated outcome.
type ScenarioReport struct {
	Name     string   `json:"name"`
	Bin      string   `json:"bin"`
	Args     []string `json:"args,omitempty"`
	Runs     int      `json:"runs"`
	Timeouts int      `json:"timeouts,omitempty"`
	Failures int      `json:"failures,omitempty"`

	// ExitCounts maps observed exit status to occurrence count.
	ExitCounts map[int]int `json:"exit_counts"`

	MeanSeconds float64  `json:"mean_seconds"`
	Problems    []string `json:"problems,omitempty"`
}

// NewReport starts a report with a generated UUIDv7 ID and a UTC timestamp.
func NewReport() (*Report, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate report id: %w", err)
	}

	return &Report{
		ID:      id.String(),
		Started: time.Now().UTC(),
	}, nil
}

// Add folds a verdict into the report.
func (r *Report) Add(verdict Verdict) {
	r.Scenarios = append(r.Scenarios, ScenarioReport{
		Name:        verdict.Scenario.Name,
		Bin:         verdict.Scenario.Bin,
		Args:        verdict.Scenario.Args,
		Runs:        verdict.Summary.Runs,
		Timeouts:    verdict.Summary.Timeouts,
		Failures:    verdict.Summary.Failures,
		ExitCounts:  verdict.Summary.Exits,
		MeanSeconds: verdict.Summary.Mean().Seconds(),
		Problems:    verdict.Problems,
	})
}

// Write marshals the report and writes it to path atomically.
func (r *Report) Write(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}

	data = append(data, '\n')

	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	return nil
}
