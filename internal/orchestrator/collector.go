package orchestrator

import "github.com/Bitsy-Chuck/maker-with-rlm/internal/domain"

// Collector accumulates per-step outcomes and running totals for the
// final task result (spec.md §4.9, "Result Collector"). Grounded on
// the teacher's ExecutionResult accumulation in WorkflowEngine.Execute
// (engine.go), which folds per-node results into a single run summary.
type Collector struct {
	steps     []domain.StepOutcome
	totalCost float64
}

// NewCollector builds an empty Collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Record appends one completed step's outcome and folds its cost into
// the running total.
func (c *Collector) Record(step int, output map[string]any, durationMs int64, cost float64) {
	c.steps = append(c.steps, domain.StepOutcome{
		Step:       step,
		Output:     output,
		DurationMs: durationMs,
		Cost:       cost,
	})
	c.totalCost += cost
}

// Finalize returns the accumulated step outcomes and total cost for a
// TaskCompletedEvent.
func (c *Collector) Finalize() ([]domain.StepOutcome, float64) {
	return c.steps, c.totalCost
}
