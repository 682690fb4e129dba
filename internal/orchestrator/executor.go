package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/Bitsy-Chuck/maker-with-rlm/internal/domain"
	domainerrors "github.com/Bitsy-Chuck/maker-with-rlm/internal/domain/errors"
	"github.com/Bitsy-Chuck/maker-with-rlm/internal/voting"
)

// Executor walks a validated Plan by next_step pointers, dispatching
// each step to a Voter and threading accumulated step outputs into
// subsequent contexts (spec.md §4.9). Grounded on the teacher's
// WorkflowEngine.Execute step-dispatch loop (internal/application/executor/engine.go),
// generalised from DAG-wave scheduling to single-pointer sequential
// walking plus run-time conditional routing.
type Executor struct {
	config      domain.TaskConfig
	plan        *domain.Plan
	voter       voting.Voter
	stepOutputs map[string]any
	collector   *Collector
}

// NewExecutor builds an Executor over a validated plan, task config,
// and voter.
func NewExecutor(config domain.TaskConfig, plan *domain.Plan, voter voting.Voter) *Executor {
	return &Executor{
		config:      config,
		plan:        plan,
		voter:       voter,
		stepOutputs: make(map[string]any),
		collector:   NewCollector(),
	}
}

// Run walks the plan from step 0 and forwards every event it emits to
// emit. Returns nil on TaskCompleted, or the fatal error that produced
// TaskFailed.
func (e *Executor) Run(ctx context.Context, emit func(domain.Event)) error {
	byID := e.plan.StepByID()
	current := 0

	for current >= 0 {
		step, ok := byID[current]
		if !ok {
			stepErr := &domainerrors.StepFailedError{Step: current, Reason: fmt.Sprintf("unknown step id %d", current)}
			emit(domain.NewStepFailedEvent(current, stepErr.Error()))
			taskErr := &domainerrors.TaskFailedError{Reason: "executor aborted", Cause: stepErr}
			emit(domain.NewTaskFailedEvent(taskErr.Error()))
			return taskErr
		}

		emit(domain.NewStepStartedEvent(step.Step))

		stepContext, err := BuildContext(step, e.stepOutputs)
		if err != nil {
			stepErr := &domainerrors.StepFailedError{Step: step.Step, Reason: err.Error()}
			emit(domain.NewStepFailedEvent(step.Step, stepErr.Error()))
			taskErr := &domainerrors.TaskFailedError{Reason: "executor aborted", Cause: stepErr}
			emit(domain.NewTaskFailedEvent(taskErr.Error()))
			return taskErr
		}

		start := time.Now()
		voteResult, err := e.voter.Vote(ctx, step, stepContext, e.config)
		durationMs := time.Since(start).Milliseconds()
		if err != nil {
			stepErr := &domainerrors.StepFailedError{Step: step.Step, Reason: err.Error()}
			emit(domain.NewStepFailedEvent(step.Step, stepErr.Error()))
			taskErr := &domainerrors.TaskFailedError{Reason: "executor aborted", Cause: stepErr}
			emit(domain.NewTaskFailedEvent(taskErr.Error()))
			return taskErr
		}

		e.stepOutputs[step.OutputVariable] = voteResult.Output

		next, nextErr := e.nextStepID(step, voteResult)
		if nextErr != nil {
			stepErr := &domainerrors.StepFailedError{Step: step.Step, Reason: nextErr.Error()}
			emit(domain.NewStepFailedEvent(step.Step, stepErr.Error()))
			taskErr := &domainerrors.TaskFailedError{Reason: "executor aborted", Cause: stepErr}
			emit(domain.NewTaskFailedEvent(taskErr.Error()))
			return taskErr
		}

		summary := voteResult.Summarize(e.config.VotingStrategy)
		emit(domain.NewStepCompletedEvent(step.Step, summary, durationMs))

		e.collector.Record(step.Step, voteResult.Output, durationMs, voteResult.TotalCost)

		current = next
	}

	steps, totalCost := e.collector.Finalize()
	emit(domain.NewTaskCompletedEvent(totalCost, steps))
	return nil
}

// nextStepID determines the id of the step to run after step,
// resolving conditional routing from the winning output's next_step
// field (spec.md §4.9).
func (e *Executor) nextStepID(step domain.PlanStep, vote domain.VoteResult) (int, error) {
	if step.TaskType != domain.ConditionalStep {
		return step.NextStepSequenceNumber, nil
	}

	raw, ok := vote.Output["next_step"]
	if !ok || raw == nil {
		return 0, fmt.Errorf("conditional step output missing 'next_step' field")
	}

	switch n := raw.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		return int(n), nil
	default:
		return 0, fmt.Errorf("conditional step output missing 'next_step' field")
	}
}
