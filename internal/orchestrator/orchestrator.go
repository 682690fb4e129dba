// Package orchestrator implements the outer planning-validation-execution
// control plane (spec.md §4.9, §4.10): the Context Builder, Deterministic
// Validator, Planner Module, Executor Module, Result Collector, and the
// Orchestrator state machine that drives them.
package orchestrator

import (
	"context"
	"fmt"

	"github.com/Bitsy-Chuck/maker-with-rlm/internal/domain"
	domainerrors "github.com/Bitsy-Chuck/maker-with-rlm/internal/domain/errors"
	"github.com/Bitsy-Chuck/maker-with-rlm/internal/toolregistry"
	"github.com/Bitsy-Chuck/maker-with-rlm/internal/voting"
)

// idGenerator produces task identifiers; swappable so tests can supply
// a deterministic sequence.
type idGenerator func() string

// Orchestrator drives plan→validate(retry)→execute and forwards every
// sub-module event, in emission order, to the caller (spec.md §4.10).
// Grounded on the teacher's WorkflowEngine top-level Execute orchestration
// (internal/application/executor/engine.go), which likewise sequences
// planning/validation/execution phases and streams progress via an
// observer.
type Orchestrator struct {
	planner   *Planner
	validator *Validator
	registry  *toolregistry.Registry
	newVoter  func(domain.VotingStrategy, *voting.Runner) (voting.Voter, error)
	runner    *voting.Runner
	nextID    idGenerator
}

// New builds an Orchestrator wired with its planner, validator, and the
// Runner/voter-factory used to build the executor's voter once a plan
// validates.
func New(planner *Planner, validator *Validator, registry *toolregistry.Registry, runner *voting.Runner) *Orchestrator {
	return &Orchestrator{
		planner:   planner,
		validator: validator,
		registry:  registry,
		newVoter:  voting.NewVoter,
		runner:    runner,
		nextID:    func() string { return "" },
	}
}

// SetIDGenerator overrides the task-id generator (used by the CLI to
// plug in a real id source, e.g. uuid.NewString).
func (o *Orchestrator) SetIDGenerator(gen idGenerator) {
	o.nextID = gen
}

// Run drives the full state machine for one instruction and streams
// every event to emit, in order (spec.md §4.10). Returns nil if the
// task completed; otherwise the fatal error behind the TaskFailed event.
func (o *Orchestrator) Run(ctx context.Context, instruction string, cfg domain.TaskConfig, emit func(domain.Event)) error {
	taskID := o.nextID()
	emit(domain.NewTaskSubmittedEvent(taskID, instruction))

	var plan *domain.Plan
	var lastValidationErr *domainerrors.ValidationFailedError
	validated := false

	maxAttempts := cfg.MaxPlannerRetries + 1
	for attempt := 0; attempt < maxAttempts; attempt++ {
		p, err := o.planner.Plan(ctx, instruction, cfg.ModelName)
		if err != nil {
			taskErr := &domainerrors.TaskFailedError{Reason: fmt.Sprintf("planner attempt %d failed", attempt), Cause: err}
			emit(domain.NewTaskFailedEvent(taskErr.Error()))
			return taskErr
		}
		emit(domain.NewPlanCreatedEvent(attempt, p))

		results, ok := o.validator.Validate(p)
		if ok {
			emit(domain.NewValidationPassedEvent(attempt))
			plan = p
			validated = true
			break
		}

		emit(domain.NewValidationFailedEvent(attempt, results))
		lastValidationErr = &domainerrors.ValidationFailedError{Failures: checkFailures(failedOnly(results))}
		o.planner.SetValidationFeedback(failedOnly(results))
	}

	if !validated {
		taskErr := &domainerrors.TaskFailedError{
			Reason: fmt.Sprintf("plan validation failed after %d attempts", maxAttempts),
			Cause:  lastValidationErr,
		}
		emit(domain.NewTaskFailedEvent(taskErr.Error()))
		return taskErr
	}

	voter, err := o.newVoter(cfg.VotingStrategy, o.runner)
	if err != nil {
		taskErr := &domainerrors.TaskFailedError{Reason: "voter construction failed", Cause: err}
		emit(domain.NewTaskFailedEvent(taskErr.Error()))
		return taskErr
	}

	executor := NewExecutor(cfg, plan, voter)
	return executor.Run(ctx, emit)
}

// failedOnly filters a check-result slice down to the failures, for
// feeding back into the next planner attempt (spec.md §4.8).
func failedOnly(results []domain.CheckResult) []domain.CheckResult {
	out := make([]domain.CheckResult, 0, len(results))
	for _, r := range results {
		if !r.Passed {
			out = append(out, r)
		}
	}
	return out
}

// checkFailures converts a failed-only check-result slice into the
// CheckFailure shape ValidationFailedError carries.
func checkFailures(failed []domain.CheckResult) []domainerrors.CheckFailure {
	out := make([]domainerrors.CheckFailure, 0, len(failed))
	for _, r := range failed {
		out = append(out, domainerrors.CheckFailure{Check: r.Check, Message: r.Message})
	}
	return out
}
