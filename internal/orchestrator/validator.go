package orchestrator

import (
	"fmt"
	"strings"

	"github.com/Bitsy-Chuck/maker-with-rlm/internal/domain"
	"github.com/Bitsy-Chuck/maker-with-rlm/internal/toolregistry"
)

// CheckFunc is one deterministic plan invariant check (spec.md §4.7).
type CheckFunc func(plan *domain.Plan, registry *toolregistry.Registry) domain.CheckResult

// Validator runs the fixed battery of 13 deterministic checks over a
// Plan. Grounded on the teacher's WorkflowGraph validation style
// (internal/application/executor/graph.go: HasCycles, GetReadyNodes)
// and ExecutionPlanner's structural checks (planner.go), generalised
// from DAG-wave validation to the linear plan-pointer model this spec
// requires.
type Validator struct {
	registry *toolregistry.Registry
	checks   []CheckFunc
}

// NewValidator builds a Validator bound to a tool registry, wired with
// all 13 checks in spec order.
func NewValidator(registry *toolregistry.Registry) *Validator {
	return &Validator{
		registry: registry,
		checks: []CheckFunc{
			checkRequiredFields,
			checkStepNumbering,
			checkTaskTypeValid,
			checkReasoningPresent,
			checkToolsMutuallyExclusive,
			checkToolsAreValid,
			checkConditionalStepNoTools,
			checkConditionalStepNoInstructions,
			checkNextStepValid,
			checkConditionalReturnsMinus2,
			checkFinalStepReturnsMinus1,
			checkNoOrphanSteps,
			checkOutputSchemaExists,
		},
	}
}

// Validate runs every check in order and returns their results plus
// whether the plan as a whole is valid (all checks passed).
func (v *Validator) Validate(plan *domain.Plan) ([]domain.CheckResult, bool) {
	results := make([]domain.CheckResult, 0, len(v.checks))
	allPassed := true
	for _, check := range v.checks {
		r := check(plan, v.registry)
		results = append(results, r)
		if !r.Passed {
			allPassed = false
		}
	}
	return results, allPassed
}

func checkRequiredFields(plan *domain.Plan, _ *toolregistry.Registry) domain.CheckResult {
	for _, s := range plan.Steps {
		if s.TaskType == "" {
			return domain.CheckResult{Check: "required_fields", Passed: false, Message: fmt.Sprintf("step %d missing task_type", s.Step)}
		}
		if s.OutputVariable == "" {
			return domain.CheckResult{Check: "required_fields", Passed: false, Message: fmt.Sprintf("step %d missing output_variable", s.Step)}
		}
	}
	return domain.CheckResult{Check: "required_fields", Passed: true}
}

func checkStepNumbering(plan *domain.Plan, _ *toolregistry.Registry) domain.CheckResult {
	seen := make(map[int]bool, len(plan.Steps))
	for _, s := range plan.Steps {
		seen[s.Step] = true
	}
	for i := 0; i < len(plan.Steps); i++ {
		if !seen[i] {
			return domain.CheckResult{Check: "step_numbering", Passed: false, Message: fmt.Sprintf("step ids are not exactly [0, %d): missing %d", len(plan.Steps), i)}
		}
	}
	return domain.CheckResult{Check: "step_numbering", Passed: true}
}

func checkTaskTypeValid(plan *domain.Plan, _ *toolregistry.Registry) domain.CheckResult {
	for _, s := range plan.Steps {
		if s.TaskType != domain.ActionStep && s.TaskType != domain.ConditionalStep {
			return domain.CheckResult{Check: "task_type_valid", Passed: false, Message: fmt.Sprintf("step %d has invalid task_type %q", s.Step, s.TaskType)}
		}
	}
	return domain.CheckResult{Check: "task_type_valid", Passed: true}
}

func checkReasoningPresent(plan *domain.Plan, _ *toolregistry.Registry) domain.CheckResult {
	if strings.TrimSpace(plan.Reasoning) == "" {
		return domain.CheckResult{Check: "reasoning_present", Passed: false, Message: "reasoning is blank"}
	}
	return domain.CheckResult{Check: "reasoning_present", Passed: true}
}

func checkToolsMutuallyExclusive(plan *domain.Plan, _ *toolregistry.Registry) domain.CheckResult {
	for _, s := range plan.Steps {
		fallback := make(map[string]bool, len(s.FallbackTools))
		for _, t := range s.FallbackTools {
			fallback[t] = true
		}
		for _, t := range s.PrimaryTools {
			if fallback[t] {
				return domain.CheckResult{Check: "tools_mutually_exclusive", Passed: false, Message: fmt.Sprintf("step %d has tool %q in both primary_tools and fallback_tools", s.Step, t)}
			}
		}
	}
	return domain.CheckResult{Check: "tools_mutually_exclusive", Passed: true}
}

func checkToolsAreValid(plan *domain.Plan, registry *toolregistry.Registry) domain.CheckResult {
	for _, s := range plan.Steps {
		for _, t := range append(append([]string{}, s.PrimaryTools...), s.FallbackTools...) {
			if !registry.ValidateToolName(t) {
				return domain.CheckResult{Check: "tools_are_valid", Passed: false, Message: fmt.Sprintf("step %d references unregistered tool %q", s.Step, t)}
			}
		}
	}
	return domain.CheckResult{Check: "tools_are_valid", Passed: true}
}

func checkConditionalStepNoTools(plan *domain.Plan, _ *toolregistry.Registry) domain.CheckResult {
	for _, s := range plan.Steps {
		if s.TaskType == domain.ConditionalStep && (len(s.PrimaryTools) > 0 || len(s.FallbackTools) > 0) {
			return domain.CheckResult{Check: "conditional_step_no_tools", Passed: false, Message: fmt.Sprintf("conditional step %d has non-empty tool lists", s.Step)}
		}
	}
	return domain.CheckResult{Check: "conditional_step_no_tools", Passed: true}
}

func checkConditionalStepNoInstructions(plan *domain.Plan, _ *toolregistry.Registry) domain.CheckResult {
	for _, s := range plan.Steps {
		if s.TaskType == domain.ConditionalStep && (s.PrimaryToolInstructions != "" || s.FallbackToolInstructions != "") {
			return domain.CheckResult{Check: "conditional_step_no_instructions", Passed: false, Message: fmt.Sprintf("conditional step %d has non-empty instruction strings", s.Step)}
		}
	}
	return domain.CheckResult{Check: "conditional_step_no_instructions", Passed: true}
}

func checkNextStepValid(plan *domain.Plan, _ *toolregistry.Registry) domain.CheckResult {
	ids := make(map[int]bool, len(plan.Steps))
	for _, s := range plan.Steps {
		ids[s.Step] = true
	}
	for _, s := range plan.Steps {
		n := s.NextStepSequenceNumber
		if n == domain.NextStepTerminal || n == domain.NextStepConditional || ids[n] {
			continue
		}
		return domain.CheckResult{Check: "next_step_valid", Passed: false, Message: fmt.Sprintf("step %d has invalid next_step_sequence_number %d", s.Step, n)}
	}
	return domain.CheckResult{Check: "next_step_valid", Passed: true}
}

// checkConditionalReturnsMinus2 enforces both directions: conditional
// steps must return -2, AND non-conditional steps must not (resolving
// spec.md §9's open question against silent inference).
func checkConditionalReturnsMinus2(plan *domain.Plan, _ *toolregistry.Registry) domain.CheckResult {
	for _, s := range plan.Steps {
		isConditional := s.TaskType == domain.ConditionalStep
		isMinus2 := s.NextStepSequenceNumber == domain.NextStepConditional
		if isConditional && !isMinus2 {
			return domain.CheckResult{Check: "conditional_returns_minus_2", Passed: false, Message: fmt.Sprintf("conditional step %d must have next_step_sequence_number -2", s.Step)}
		}
		if isMinus2 && !isConditional {
			return domain.CheckResult{Check: "conditional_returns_minus_2", Passed: false, Message: fmt.Sprintf("step %d has next_step_sequence_number -2 but is not conditional", s.Step)}
		}
	}
	return domain.CheckResult{Check: "conditional_returns_minus_2", Passed: true}
}

func checkFinalStepReturnsMinus1(plan *domain.Plan, _ *toolregistry.Registry) domain.CheckResult {
	if len(plan.Steps) == 0 {
		return domain.CheckResult{Check: "final_step_returns_minus_1", Passed: true}
	}
	last := plan.Steps[0]
	for _, s := range plan.Steps {
		if s.Step > last.Step {
			last = s
		}
	}
	if last.TaskType == domain.ConditionalStep {
		return domain.CheckResult{Check: "final_step_returns_minus_1", Passed: true}
	}
	if last.NextStepSequenceNumber != domain.NextStepTerminal {
		return domain.CheckResult{Check: "final_step_returns_minus_1", Passed: false, Message: fmt.Sprintf("final step %d must return -1", last.Step)}
	}
	return domain.CheckResult{Check: "final_step_returns_minus_1", Passed: true}
}

// checkNoOrphanSteps runs a BFS from step 0 over non-negative
// next_step pointers only; conditional steps (-2) are frontier
// endpoints and are not traversed further (spec.md §9, intentional).
// Steps numbered after the first conditional step the BFS reaches are
// only reachable through its run-time output, so they are not checked.
func checkNoOrphanSteps(plan *domain.Plan, _ *toolregistry.Registry) domain.CheckResult {
	byID := plan.StepByID()
	visited := make(map[int]bool, len(plan.Steps))
	firstConditional := -1
	queue := []int{0}
	if _, ok := byID[0]; ok {
		visited[0] = true
	}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		step, ok := byID[id]
		if !ok {
			continue
		}
		n := step.NextStepSequenceNumber
		if n == domain.NextStepConditional && (firstConditional < 0 || id < firstConditional) {
			firstConditional = id
		}
		if n < 0 {
			continue
		}
		if !visited[n] {
			visited[n] = true
			queue = append(queue, n)
		}
	}
	for _, s := range plan.Steps {
		if firstConditional >= 0 && s.Step > firstConditional {
			continue
		}
		if !visited[s.Step] {
			return domain.CheckResult{Check: "no_orphan_steps", Passed: false, Message: fmt.Sprintf("step %d is unreachable from step 0", s.Step)}
		}
	}
	return domain.CheckResult{Check: "no_orphan_steps", Passed: true}
}

func checkOutputSchemaExists(plan *domain.Plan, _ *toolregistry.Registry) domain.CheckResult {
	for _, s := range plan.Steps {
		if strings.TrimSpace(s.OutputSchema) == "" {
			return domain.CheckResult{Check: "output_schema_exists", Passed: false, Message: fmt.Sprintf("step %d has blank output_schema", s.Step)}
		}
	}
	return domain.CheckResult{Check: "output_schema_exists", Passed: true}
}
