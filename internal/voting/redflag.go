// Package voting implements the Red-flag Filter, Agent Runner, and the
// three voter variants (spec.md §4.3–§4.5). Grounded on the teacher's
// RetryExecutor classification pattern (internal/application/executor/retry.go)
// for accept/reject accounting, and its OpenAICompletionExecutor
// (node_executors.go) for driving one model call.
package voting

import "github.com/Bitsy-Chuck/maker-with-rlm/internal/domain"

// RedFlagCheck classifies an AgentResult as usable or discardable
// (spec.md §4.3). A result is flagged iff its Error is non-empty, or
// its Output is not a mapping. Empty mappings are not flagged.
func RedFlagCheck(result domain.AgentResult) (flagged bool, reason string) {
	if result.Error != "" {
		return true, "Agent error: " + result.Error
	}
	if _, ok := result.OutputMap(); !ok {
		return true, "Output is not a dict"
	}
	return false, ""
}
