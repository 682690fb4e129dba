// Package errors defines the fatal and non-fatal error kinds the pipeline
// can raise internally. PlanParseError and YAMLParseError are returned
// raw from the planner and YAML repair pipeline; ValidationFailedError,
// StepFailedError, and TaskFailedError are constructed by the
// orchestrator and executor at their respective failure points. The
// .Error() text of StepFailedError and TaskFailedError becomes the
// matching event's payload string; the TaskFailedError is then also
// returned to the caller, carrying the other error as its Cause
// (spec.md §7).
package errors

import "fmt"

// PlanParseError is raised when the planner's YAML output cannot be
// turned into a Plan, either because the repair pipeline failed or
// because required keys are missing.
type PlanParseError struct {
	Reason string
	Cause  error
}

func (e *PlanParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("plan parse error: %s: %v", e.Reason, e.Cause)
	}
	return fmt.Sprintf("plan parse error: %s", e.Reason)
}

func (e *PlanParseError) Unwrap() error { return e.Cause }

// NewPlanParseError builds a PlanParseError.
func NewPlanParseError(reason string, cause error) *PlanParseError {
	return &PlanParseError{Reason: reason, Cause: cause}
}

// YAMLParseError is raised by the YAML repair pipeline when every stage
// has failed to produce a value (spec.md §4.2, stage 4).
type YAMLParseError struct {
	OriginalErr error
	RepairErr   error
}

func (e *YAMLParseError) Error() string {
	if e.RepairErr != nil {
		return fmt.Sprintf("yaml parse error: original=%v repair=%v", e.OriginalErr, e.RepairErr)
	}
	return fmt.Sprintf("yaml parse error: %v", e.OriginalErr)
}

func (e *YAMLParseError) Unwrap() error { return e.OriginalErr }

// NewYAMLParseError builds a YAMLParseError from the original parse
// failure and, if the model-repair stage was attempted and also failed,
// its error too.
func NewYAMLParseError(original, repair error) *YAMLParseError {
	return &YAMLParseError{OriginalErr: original, RepairErr: repair}
}

// ValidationFailedError wraps one or more failed deterministic checks
// (spec.md §4.7). The orchestrator builds it from the last failed
// validation attempt; it reaches callers only as the Cause of the
// TaskFailedError returned once planner retries are exhausted.
type ValidationFailedError struct {
	Failures []CheckFailure
}

// CheckFailure names one failed deterministic check.
type CheckFailure struct {
	Check   string
	Message string
}

func (e *ValidationFailedError) Error() string {
	return fmt.Sprintf("validation failed (%d check(s))", len(e.Failures))
}

// StepFailedError is fatal to the task: a voter gave up, a conditional
// step's output was missing next_step, or an unknown step id was
// referenced (spec.md §7).
type StepFailedError struct {
	Step   int
	Reason string
}

func (e *StepFailedError) Error() string {
	return fmt.Sprintf("step %d failed: %s", e.Step, e.Reason)
}

// TaskFailedError is the terminal failure of an entire task run.
type TaskFailedError struct {
	Reason string
	Cause  error
}

func (e *TaskFailedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("task failed: %s: %v", e.Reason, e.Cause)
	}
	return fmt.Sprintf("task failed: %s", e.Reason)
}

func (e *TaskFailedError) Unwrap() error { return e.Cause }
