package domain

import "time"

// EventType is the stable, snake_case serialisable tag for an Event
// (spec.md §3, §6). Modeled on the teacher's EventType string consts
// in internal/domain/events.go.
type EventType string

const (
	EventTaskSubmitted         EventType = "task_submitted"
	EventPlanCreated           EventType = "plan_created"
	EventValidationPassed      EventType = "validation_passed"
	EventValidationFailed      EventType = "validation_failed"
	EventStepStarted           EventType = "step_started"
	EventAgentSampleCompleted  EventType = "agent_sample_completed"
	EventAgentSampleRedFlagged EventType = "agent_sample_red_flagged"
	EventVoteCompleted         EventType = "vote_completed"
	EventStepCompleted         EventType = "step_completed"
	EventStepFailed            EventType = "step_failed"
	EventTaskCompleted         EventType = "task_completed"
	EventTaskFailed            EventType = "task_failed"
)

// Event is the common contract for every tagged event variant. Emitted
// events are owned by the consumer once yielded (spec.md §3,
// "Ownership & lifecycle").
type Event interface {
	EventType() EventType
	EventTimestamp() time.Time
	// ToMap renders the event as a plain nested mapping of its fields,
	// preserving the type tag (spec.md §3, §6). PlanCreatedEvent carries
	// the plan's reasoning and step count rather than the steps.
	ToMap() map[string]any
}

// base is embedded by every concrete event to provide the timestamp and
// tag plumbing.
type base struct {
	Type EventType
	At   time.Time
}

func newBase(t EventType) base {
	return base{Type: t, At: time.Now()}
}

func (b base) EventType() EventType      { return b.Type }
func (b base) EventTimestamp() time.Time { return b.At }

// TaskSubmittedEvent opens a task run.
type TaskSubmittedEvent struct {
	base
	TaskID      string
	Instruction string
}

func NewTaskSubmittedEvent(taskID, instruction string) TaskSubmittedEvent {
	return TaskSubmittedEvent{base: newBase(EventTaskSubmitted), TaskID: taskID, Instruction: instruction}
}

func (e TaskSubmittedEvent) ToMap() map[string]any {
	return map[string]any{
		"type":        string(e.Type),
		"timestamp":   timestampSeconds(e.At),
		"task_id":     e.TaskID,
		"instruction": e.Instruction,
	}
}

// PlanCreatedEvent reports a planner attempt's output.
type PlanCreatedEvent struct {
	base
	Attempt int
	Plan    *Plan
}

func NewPlanCreatedEvent(attempt int, plan *Plan) PlanCreatedEvent {
	return PlanCreatedEvent{base: newBase(EventPlanCreated), Attempt: attempt, Plan: plan}
}

func (e PlanCreatedEvent) ToMap() map[string]any {
	return map[string]any{
		"type":      string(e.Type),
		"timestamp": timestampSeconds(e.At),
		"attempt":   e.Attempt,
		"reasoning": e.Plan.Reasoning,
		"num_steps": len(e.Plan.Steps),
	}
}

// ValidationPassedEvent reports that all deterministic checks passed.
type ValidationPassedEvent struct {
	base
	Attempt int
}

func NewValidationPassedEvent(attempt int) ValidationPassedEvent {
	return ValidationPassedEvent{base: newBase(EventValidationPassed), Attempt: attempt}
}

func (e ValidationPassedEvent) ToMap() map[string]any {
	return map[string]any{"type": string(e.Type), "timestamp": timestampSeconds(e.At), "attempt": e.Attempt}
}

// ValidationFailedEvent reports the failed checks of one attempt.
type ValidationFailedEvent struct {
	base
	Attempt  int
	Failures []CheckResult
}

func NewValidationFailedEvent(attempt int, failures []CheckResult) ValidationFailedEvent {
	return ValidationFailedEvent{base: newBase(EventValidationFailed), Attempt: attempt, Failures: failures}
}

func (e ValidationFailedEvent) ToMap() map[string]any {
	failures := make([]map[string]any, 0, len(e.Failures))
	for _, f := range e.Failures {
		failures = append(failures, map[string]any{"check": f.Check, "message": f.Message})
	}
	return map[string]any{
		"type":      string(e.Type),
		"timestamp": timestampSeconds(e.At),
		"attempt":   e.Attempt,
		"failures":  failures,
	}
}

// StepStartedEvent marks dispatch of one plan step.
type StepStartedEvent struct {
	base
	Step int
}

func NewStepStartedEvent(step int) StepStartedEvent {
	return StepStartedEvent{base: newBase(EventStepStarted), Step: step}
}

func (e StepStartedEvent) ToMap() map[string]any {
	return map[string]any{"type": string(e.Type), "timestamp": timestampSeconds(e.At), "step": e.Step}
}

// AgentSampleCompletedEvent reports one usable agent sample inside a
// voting round.
type AgentSampleCompletedEvent struct {
	base
	Step          int
	SampleIndex   int
	CanonicalHash string
}

func NewAgentSampleCompletedEvent(step, idx int, hash string) AgentSampleCompletedEvent {
	return AgentSampleCompletedEvent{base: newBase(EventAgentSampleCompleted), Step: step, SampleIndex: idx, CanonicalHash: hash}
}

func (e AgentSampleCompletedEvent) ToMap() map[string]any {
	return map[string]any{
		"type":           string(e.Type),
		"timestamp":      timestampSeconds(e.At),
		"step":           e.Step,
		"sample_index":   e.SampleIndex,
		"canonical_hash": e.CanonicalHash,
	}
}

// AgentSampleRedFlaggedEvent reports a discarded agent sample.
type AgentSampleRedFlaggedEvent struct {
	base
	Step        int
	SampleIndex int
	Reason      string
}

func NewAgentSampleRedFlaggedEvent(step, idx int, reason string) AgentSampleRedFlaggedEvent {
	return AgentSampleRedFlaggedEvent{base: newBase(EventAgentSampleRedFlagged), Step: step, SampleIndex: idx, Reason: reason}
}

func (e AgentSampleRedFlaggedEvent) ToMap() map[string]any {
	return map[string]any{
		"type":         string(e.Type),
		"timestamp":    timestampSeconds(e.At),
		"step":         e.Step,
		"sample_index": e.SampleIndex,
		"reason":       e.Reason,
	}
}

// VoteCompletedEvent reports the winner of a step's voting round.
type VoteCompletedEvent struct {
	base
	Step    int
	Summary VotingSummary
}

func NewVoteCompletedEvent(step int, summary VotingSummary) VoteCompletedEvent {
	return VoteCompletedEvent{base: newBase(EventVoteCompleted), Step: step, Summary: summary}
}

func (e VoteCompletedEvent) ToMap() map[string]any {
	return map[string]any{
		"type":      string(e.Type),
		"timestamp": timestampSeconds(e.At),
		"step":      e.Step,
		"summary":   votingSummaryMap(e.Summary),
	}
}

// StepCompletedEvent closes out a successful step.
type StepCompletedEvent struct {
	base
	Step       int
	Summary    VotingSummary
	DurationMs int64
}

func NewStepCompletedEvent(step int, summary VotingSummary, durationMs int64) StepCompletedEvent {
	return StepCompletedEvent{base: newBase(EventStepCompleted), Step: step, Summary: summary, DurationMs: durationMs}
}

func (e StepCompletedEvent) ToMap() map[string]any {
	return map[string]any{
		"type":        string(e.Type),
		"timestamp":   timestampSeconds(e.At),
		"step":        e.Step,
		"summary":     votingSummaryMap(e.Summary),
		"duration_ms": e.DurationMs,
	}
}

// StepFailedEvent is fatal to the task (spec.md §7).
type StepFailedEvent struct {
	base
	Step  int
	Error string
}

func NewStepFailedEvent(step int, errMsg string) StepFailedEvent {
	return StepFailedEvent{base: newBase(EventStepFailed), Step: step, Error: errMsg}
}

func (e StepFailedEvent) ToMap() map[string]any {
	return map[string]any{"type": string(e.Type), "timestamp": timestampSeconds(e.At), "step": e.Step, "error": e.Error}
}

// TaskCompletedEvent is the successful terminal event.
type TaskCompletedEvent struct {
	base
	TotalCost   float64
	StepResults []StepOutcome
}

func NewTaskCompletedEvent(totalCost float64, steps []StepOutcome) TaskCompletedEvent {
	return TaskCompletedEvent{base: newBase(EventTaskCompleted), TotalCost: totalCost, StepResults: steps}
}

func (e TaskCompletedEvent) ToMap() map[string]any {
	steps := make([]map[string]any, 0, len(e.StepResults))
	for _, s := range e.StepResults {
		steps = append(steps, map[string]any{
			"step":        s.Step,
			"output":      s.Output,
			"duration_ms": s.DurationMs,
		})
	}
	return map[string]any{
		"type":        string(e.Type),
		"timestamp":   timestampSeconds(e.At),
		"total_cost":  e.TotalCost,
		"step_results": steps,
	}
}

// TaskFailedEvent is the failed terminal event (spec.md §7).
type TaskFailedEvent struct {
	base
	Error string
}

func NewTaskFailedEvent(errMsg string) TaskFailedEvent {
	return TaskFailedEvent{base: newBase(EventTaskFailed), Error: errMsg}
}

func (e TaskFailedEvent) ToMap() map[string]any {
	return map[string]any{"type": string(e.Type), "timestamp": timestampSeconds(e.At), "error": e.Error}
}

// CheckResult is one deterministic validator check outcome (spec.md §4.7).
type CheckResult struct {
	Check   string
	Passed  bool
	Message string
}

// StepOutcome is one recorded step result, owned by the Result Collector
// (spec.md §4.9 "Record the step into the collector").
type StepOutcome struct {
	Step       int
	Output     map[string]any
	DurationMs int64
	Cost       float64
}

func timestampSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / 1e9
}

func votingSummaryMap(v VotingSummary) map[string]any {
	return map[string]any{
		"strategy":      string(v.Strategy),
		"total_samples": v.TotalSamples,
		"red_flagged":   v.RedFlagged,
		"winning_votes": v.WinningVotes,
	}
}
