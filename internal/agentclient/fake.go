package agentclient

import (
	"context"
	"fmt"

	"github.com/expr-lang/expr"
)

// FixtureStep scripts one canned response for FakeClient: either a
// literal YAML text body, or an expr-lang boolean/arithmetic
// expression evaluated against Env to compute a conditional step's
// next_step field dynamically. Grounded on the teacher's
// ConditionEvaluator (internal/application/executor/conditions.go),
// which compiles and evaluates expr-lang programs over a variable
// environment to pick a workflow's next edge; here the same technique
// drives deterministic test fixtures instead of production branching,
// since spec.md places next_step selection inside the agent's own
// output, not a statically evaluated condition.
type FixtureStep struct {
	// Text is returned verbatim as the assistant's YAML body when set.
	Text string
	// Expression, if non-empty, is compiled and evaluated against Env
	// via expr-lang; its result is rendered into a
	// `next_step: <result>` YAML body, letting a test fixture compute
	// conditional routing from prior step outputs instead of hardcoding it.
	Expression string
	Env        map[string]any
	// Err, if set, makes RunStep fail outright for this step.
	Err error
	// ResultError marks the terminal ResultMessage as subtype "error".
	ResultError bool
	Cost        float64
	DurationS   float64
}

// FakeClient is a scripted AgentClient for tests: each call to RunStep
// consumes the next queued FixtureStep in order.
type FakeClient struct {
	steps []FixtureStep
	calls int
}

// NewFakeClient builds a FakeClient that replays steps in order, one
// per RunStep call.
func NewFakeClient(steps ...FixtureStep) *FakeClient {
	return &FakeClient{steps: steps}
}

// Calls returns the number of RunStep invocations made so far.
func (c *FakeClient) Calls() int {
	return c.calls
}

func (c *FakeClient) RunStep(ctx context.Context, req StepRequest) (<-chan Message, error) {
	if c.calls >= len(c.steps) {
		return nil, fmt.Errorf("fake client exhausted: %d steps scripted, call %d requested", len(c.steps), c.calls+1)
	}
	step := c.steps[c.calls]
	c.calls++

	if step.Err != nil {
		return nil, step.Err
	}

	ch := make(chan Message, 2)

	text := step.Text
	if step.Expression != "" {
		rendered, err := evalFixtureExpression(step.Expression, step.Env)
		if err != nil {
			close(ch)
			return ch, err
		}
		text = rendered
	}

	if text != "" {
		ch <- AssistantMessage{ContentBlocks: []ContentBlock{{Type: ContentText, Text: text}}}
	}

	subtype := ResultSuccess
	if step.ResultError {
		subtype = ResultError
	}
	ch <- ResultMessage{TotalCost: step.Cost, DurationS: step.DurationS, Subtype: subtype}
	close(ch)

	return ch, nil
}

// evalFixtureExpression compiles and runs an expr-lang expression
// against env, rendering its result as a `next_step: N` YAML body.
func evalFixtureExpression(expression string, env map[string]any) (string, error) {
	program, err := expr.Compile(expression, expr.Env(env))
	if err != nil {
		return "", fmt.Errorf("fixture expression compile error: %w", err)
	}
	result, err := expr.Run(program, env)
	if err != nil {
		return "", fmt.Errorf("fixture expression eval error: %w", err)
	}
	return fmt.Sprintf("next_step: %v\n", result), nil
}
