// Package domain holds the pipeline's immutable data model: TaskConfig,
// Plan/PlanStep, AgentResult, VoteResult, VotingSummary, and the typed
// event taxonomy (spec.md §3).
package domain

import "fmt"

// VotingStrategy selects which Voter variant runs a step (spec.md §4.11).
type VotingStrategy string

const (
	VotingNone       VotingStrategy = "none"
	VotingMajority   VotingStrategy = "majority"
	VotingFirstToK   VotingStrategy = "first_to_k"
)

// TaskConfig is the immutable job request driving one orchestrator run.
type TaskConfig struct {
	Instruction        string
	ModelName          string
	VotingStrategy     VotingStrategy
	VotingN            int
	VotingK            int
	MaxVotingSamples   int
	StepMaxRetries     int
	MaxPlannerRetries  int
	EnableQualityChecks bool
}

// Validate enforces the TaskConfig invariants from spec.md §3:
// 1 ≤ voting_k ≤ max_voting_samples; voting_n ≤ max_voting_samples.
func (c TaskConfig) Validate() error {
	if c.MaxVotingSamples < 1 {
		return fmt.Errorf("max_voting_samples must be >= 1, got %d", c.MaxVotingSamples)
	}
	if c.VotingStrategy == VotingFirstToK {
		if c.VotingK < 1 || c.VotingK > c.MaxVotingSamples {
			return fmt.Errorf("voting_k must satisfy 1 <= voting_k <= max_voting_samples (%d), got %d", c.MaxVotingSamples, c.VotingK)
		}
	}
	if c.VotingStrategy == VotingMajority {
		if c.VotingN > c.MaxVotingSamples {
			return fmt.Errorf("voting_n (%d) must be <= max_voting_samples (%d)", c.VotingN, c.MaxVotingSamples)
		}
	}
	return nil
}
