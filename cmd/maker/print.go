package main

import (
	"fmt"
	"io"

	"github.com/Bitsy-Chuck/maker-with-rlm/internal/domain"
	"github.com/Bitsy-Chuck/maker-with-rlm/internal/quality"
)

// printEvent renders one pipeline event as a single human-readable
// line (spec.md §1, "pretty-printing of events" — external collaborator,
// sketched only). Grounded on the teacher's ConsoleLogger.formatEvent
// type-switch style (internal/infrastructure/monitoring/console_logger.go).
func printEvent(w io.Writer, event domain.Event) {
	switch e := event.(type) {
	case domain.TaskSubmittedEvent:
		fmt.Fprintf(w, "[task] submitted: %s\n", e.Instruction)
	case domain.PlanCreatedEvent:
		fmt.Fprintf(w, "[plan] attempt=%d steps=%d\n", e.Attempt, len(e.Plan.Steps))
	case domain.ValidationPassedEvent:
		fmt.Fprintf(w, "[validate] attempt=%d passed\n", e.Attempt)
	case domain.ValidationFailedEvent:
		fmt.Fprintf(w, "[validate] attempt=%d failed (%d check(s)):\n", e.Attempt, len(e.Failures))
		for _, f := range e.Failures {
			fmt.Fprintf(w, "  - %s: %s\n", f.Check, f.Message)
		}
	case domain.StepStartedEvent:
		fmt.Fprintf(w, "[step %d] started\n", e.Step)
	case domain.AgentSampleCompletedEvent:
		fmt.Fprintf(w, "[step %d] sample %d completed hash=%s\n", e.Step, e.SampleIndex, e.CanonicalHash)
	case domain.AgentSampleRedFlaggedEvent:
		fmt.Fprintf(w, "[step %d] sample %d red-flagged: %s\n", e.Step, e.SampleIndex, e.Reason)
	case domain.VoteCompletedEvent:
		fmt.Fprintf(w, "[step %d] vote completed winning_votes=%d/%d\n", e.Step, e.Summary.WinningVotes, e.Summary.TotalSamples)
	case domain.StepCompletedEvent:
		fmt.Fprintf(w, "[step %d] completed in %dms (votes=%d/%d red_flagged=%d)\n",
			e.Step, e.DurationMs, e.Summary.WinningVotes, e.Summary.TotalSamples, e.Summary.RedFlagged)
	case domain.StepFailedEvent:
		fmt.Fprintf(w, "[step %d] FAILED: %s\n", e.Step, e.Error)
	case domain.TaskCompletedEvent:
		fmt.Fprintf(w, "[task] completed: %d step(s), total_cost=$%.4f\n", len(e.StepResults), e.TotalCost)
	case domain.TaskFailedEvent:
		fmt.Fprintf(w, "[task] FAILED: %s\n", e.Error)
	default:
		fmt.Fprintf(w, "[event] %s\n", event.EventType())
	}
}

// printQualityResults renders the --quality-checks pass: one line per
// check plus the equally-weighted aggregate (spec.md §6, "quality
// checks" supplement).
func printQualityResults(w io.Writer, results []quality.Result) {
	fmt.Fprintf(w, "[quality] %d check(s):\n", len(results))
	for _, r := range results {
		fmt.Fprintf(w, "  - %s: %.2f (%s)\n", r.Check, r.Score, r.Details)
	}
	fmt.Fprintf(w, "[quality] aggregate=%.2f\n", quality.AggregateScore(results))
}
