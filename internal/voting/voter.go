package voting

import (
	"context"
	"fmt"

	"github.com/Bitsy-Chuck/maker-with-rlm/internal/domain"
	"github.com/Bitsy-Chuck/maker-with-rlm/internal/voting/canon"
)

// Voter runs N agent samples for one step and aggregates them by
// canonical hash into a winner, or fails (spec.md §4.5).
type Voter interface {
	Vote(ctx context.Context, step domain.PlanStep, stepContext string, cfg domain.TaskConfig) (domain.VoteResult, error)
}

// sample is one classified agent invocation, used internally by every
// voter variant to track first-observed representative bytes per hash
// (spec.md §4.5, tie-breaking rule).
type sample struct {
	hash   string
	output map[string]any
	cost   float64
}

// runSample executes one agent call and classifies it via the Red-flag
// Filter, returning the sample (with its canonical hash) when usable.
// The sample's cost is returned regardless of flagging: every attempt
// is a real, billed model invocation.
func runSample(ctx context.Context, runner *Runner, step domain.PlanStep, stepContext string, cfg domain.TaskConfig) (sample, bool, string) {
	result := runner.Run(ctx, step, stepContext, cfg)
	flagged, reason := RedFlagCheck(result)
	if flagged {
		return sample{cost: result.Cost}, false, reason
	}
	out, _ := result.OutputMap()
	return sample{hash: canon.Hash(out), output: out, cost: result.Cost}, true, ""
}

// NoVoter runs the runner up to step_max_retries+1 times; the first
// non-flagged result wins (spec.md §4.5).
type NoVoter struct {
	runner *Runner
}

// NewNoVoter builds a NoVoter over the given Runner.
func NewNoVoter(runner *Runner) *NoVoter {
	return &NoVoter{runner: runner}
}

func (v *NoVoter) Vote(ctx context.Context, step domain.PlanStep, stepContext string, cfg domain.TaskConfig) (domain.VoteResult, error) {
	attempts := cfg.StepMaxRetries + 1
	redFlagged := 0
	totalCost := 0.0

	for i := 0; i < attempts; i++ {
		s, ok, _ := runSample(ctx, v.runner, step, stepContext, cfg)
		totalCost += s.cost
		if ok {
			return domain.VoteResult{
				Output:        s.output,
				CanonicalHash: s.hash,
				TotalSamples:  i + 1,
				RedFlagged:    redFlagged,
				VoteCounts:    map[string]int{s.hash: 1},
				TotalCost:     totalCost,
			}, nil
		}
		redFlagged++
	}

	return domain.VoteResult{}, fmt.Errorf("All %d retries exhausted for step %d", attempts, step.Step)
}

// MajorityVoter iterates up to max_voting_samples times, returning once
// a strict majority of valid samples share the leading hash, with
// voting_n valid samples required first (spec.md §4.5).
type MajorityVoter struct {
	runner *Runner
}

func NewMajorityVoter(runner *Runner) *MajorityVoter {
	return &MajorityVoter{runner: runner}
}

func (v *MajorityVoter) Vote(ctx context.Context, step domain.PlanStep, stepContext string, cfg domain.TaskConfig) (domain.VoteResult, error) {
	acc := newAccumulator()

	for i := 0; i < cfg.MaxVotingSamples; i++ {
		s, ok, _ := runSample(ctx, v.runner, step, stepContext, cfg)
		acc.totalCost += s.cost
		if !ok {
			acc.redFlagged++
			continue
		}
		acc.record(s)

		if acc.validCount() >= cfg.VotingN {
			leaderHash, leaderCount := acc.leader()
			if leaderCount*2 > acc.validCount() {
				return acc.result(leaderHash), nil
			}
		}
	}

	return domain.VoteResult{}, fmt.Errorf("Reached max_voting_samples (%d) with no majority for step %d", cfg.MaxVotingSamples, step.Step)
}

// FirstToKVoter iterates up to max_voting_samples times, returning as
// soon as the leading hash's lead over the runner-up reaches voting_k
// (spec.md §4.5).
type FirstToKVoter struct {
	runner *Runner
}

func NewFirstToKVoter(runner *Runner) *FirstToKVoter {
	return &FirstToKVoter{runner: runner}
}

func (v *FirstToKVoter) Vote(ctx context.Context, step domain.PlanStep, stepContext string, cfg domain.TaskConfig) (domain.VoteResult, error) {
	acc := newAccumulator()

	for i := 0; i < cfg.MaxVotingSamples; i++ {
		s, ok, _ := runSample(ctx, v.runner, step, stepContext, cfg)
		acc.totalCost += s.cost
		if !ok {
			acc.redFlagged++
			continue
		}
		acc.record(s)

		leaderHash, leaderCount := acc.leader()
		runnerUp := acc.runnerUpCount(leaderHash)
		if leaderCount-runnerUp >= cfg.VotingK {
			return acc.result(leaderHash), nil
		}
	}

	return domain.VoteResult{}, fmt.Errorf("Reached max_voting_samples without K=%d lead for step %d", cfg.VotingK, step.Step)
}

// accumulator tracks vote counts and first-observed representative
// output per canonical hash (spec.md §4.5 tie-breaking rule: "the
// chosen winner's exact bytes must be the output first observed for
// that hash").
type accumulator struct {
	order      []string
	counts     map[string]int
	firstSeen  map[string]map[string]any
	redFlagged int
	total      int
	totalCost  float64
}

func newAccumulator() *accumulator {
	return &accumulator{
		counts:    make(map[string]int),
		firstSeen: make(map[string]map[string]any),
	}
}

func (a *accumulator) record(s sample) {
	a.total++
	if _, ok := a.counts[s.hash]; !ok {
		a.order = append(a.order, s.hash)
		a.firstSeen[s.hash] = s.output
	}
	a.counts[s.hash]++
}

func (a *accumulator) validCount() int {
	total := 0
	for _, c := range a.counts {
		total += c
	}
	return total
}

// leader returns the hash with the highest count, breaking ties by
// first-observed insertion order (spec.md §4.5).
func (a *accumulator) leader() (string, int) {
	var leaderHash string
	leaderCount := -1
	for _, hash := range a.order {
		if a.counts[hash] > leaderCount {
			leaderHash = hash
			leaderCount = a.counts[hash]
		}
	}
	return leaderHash, leaderCount
}

// runnerUpCount returns the count of the second-highest hash, or 0 if
// only one hash has been seen (spec.md §4.5).
func (a *accumulator) runnerUpCount(leaderHash string) int {
	runnerUp := 0
	for _, hash := range a.order {
		if hash == leaderHash {
			continue
		}
		if a.counts[hash] > runnerUp {
			runnerUp = a.counts[hash]
		}
	}
	return runnerUp
}

func (a *accumulator) result(winnerHash string) domain.VoteResult {
	counts := make(map[string]int, len(a.counts))
	for k, v := range a.counts {
		counts[k] = v
	}
	return domain.VoteResult{
		Output:        a.firstSeen[winnerHash],
		CanonicalHash: winnerHash,
		TotalSamples:  a.total + a.redFlagged,
		RedFlagged:    a.redFlagged,
		VoteCounts:    counts,
		TotalCost:     a.totalCost,
	}
}
