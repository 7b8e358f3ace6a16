package runner

import "errors"

// Error variables for runner operations.
var (
	ErrSuiteNotFound    = errors.New("scenario file not found")
	ErrSuiteInvalid     = errors.New("invalid scenario file")
	ErrNoScenarios      = errors.New("scenario file has no scenarios")
	ErrScenarioName     = errors.New("scenario name cannot be empty")
	ErrScenarioBin      = errors.New("scenario bin cannot be empty")
	ErrRunsNegative     = errors.New("runs cannot be negative")
	ErrConflictingWants = errors.New("want_exit and want_timeout are mutually exclusive")
)
