package domain

import "time"

// AgentResult is the outcome of one model invocation for one step
// (spec.md §3, §4.4). Output is the raw parsed YAML value: it may be
// any shape, since the Red-flag Filter's job is precisely to detect
// when it is not a mapping (spec.md §4.3).
type AgentResult struct {
	Output      any
	RawResponse string
	WasRepaired bool
	Cost        float64
	Duration    time.Duration
	Error       string
}

// OutputMap returns Output as a map[string]any if it is one.
func (r AgentResult) OutputMap() (map[string]any, bool) {
	m, ok := r.Output.(map[string]any)
	return m, ok
}

// IsError reports whether the agent call produced an error marker
// rather than usable output.
func (r AgentResult) IsError() bool {
	return r.Error != ""
}

// VoteResult is the outcome of one voting round for one step
// (spec.md §3, §4.5).
type VoteResult struct {
	Output        map[string]any
	CanonicalHash string
	TotalSamples  int
	RedFlagged    int
	VoteCounts    map[string]int
	TotalCost     float64
}

// VotingSummary is the compressed projection of VoteResult carried on
// StepCompleted events (spec.md §3).
type VotingSummary struct {
	Strategy     VotingStrategy
	TotalSamples int
	RedFlagged   int
	WinningVotes int
}

// Summarize builds the VotingSummary for an outgoing StepCompleted
// event: winning_votes = vote_counts[canonical_hash], or 1 if absent
// (spec.md §4.9).
func (v VoteResult) Summarize(strategy VotingStrategy) VotingSummary {
	winningVotes := 1
	if n, ok := v.VoteCounts[v.CanonicalHash]; ok {
		winningVotes = n
	}
	return VotingSummary{
		Strategy:     strategy,
		TotalSamples: v.TotalSamples,
		RedFlagged:   v.RedFlagged,
		WinningVotes: winningVotes,
	}
}
