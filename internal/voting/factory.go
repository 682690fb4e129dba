package voting

import (
	"fmt"

	"github.com/Bitsy-Chuck/maker-with-rlm/internal/domain"
)

// NewVoter dispatches to the three voter variants by strategy
// (spec.md §4.11). Grounded on the teacher's type-keyed dispatch in
// WorkflowEngine.registerDefaultExecutors (engine.go).
func NewVoter(strategy domain.VotingStrategy, runner *Runner) (Voter, error) {
	switch strategy {
	case domain.VotingNone:
		return NewNoVoter(runner), nil
	case domain.VotingMajority:
		return NewMajorityVoter(runner), nil
	case domain.VotingFirstToK:
		return NewFirstToKVoter(runner), nil
	default:
		return nil, fmt.Errorf("Unknown voting strategy: %s", strategy)
	}
}
