package orchestrator

import (
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Bitsy-Chuck/maker-with-rlm/internal/domain"
)

// BuildContext assembles the accumulated step_outputs referenced by a
// step's input_variables into the YAML-serialised context string fed
// to the next step's prompt (spec.md §4.6). Grounded on the teacher's
// VariableBinder.BindInputs (internal/application/executor/variable_binder.go),
// which also collects named parent outputs into a scoped map before
// handing them to the next node.
func BuildContext(step domain.PlanStep, stepOutputs map[string]any) (string, error) {
	if len(step.InputVariables) == 0 {
		return "", nil
	}

	names := referencedStepNames(step.InputVariables)

	sorted := make([]string, 0, len(names))
	for name := range names {
		sorted = append(sorted, name)
	}
	sort.Strings(sorted)

	available := make([]string, 0, len(stepOutputs))
	for k := range stepOutputs {
		available = append(available, k)
	}
	sort.Strings(available)

	collected := make(map[string]any, len(sorted))
	for _, name := range sorted {
		output, ok := stepOutputs[name]
		if !ok {
			return "", fmt.Errorf("Step output '%s' not found. Available: %v", name, available)
		}
		collected[name] = output
	}

	raw, err := yaml.Marshal(collected)
	if err != nil {
		return "", fmt.Errorf("failed to serialize context: %w", err)
	}
	return string(raw), nil
}

// referencedStepNames extracts the set of step names referenced by a
// sequence of dotted paths "step_N_output[.field…]" — the prefix up to
// the first '.' (spec.md §4.6).
func referencedStepNames(inputVariables []string) map[string]struct{} {
	names := make(map[string]struct{})
	for _, v := range inputVariables {
		name := v
		if idx := strings.IndexByte(v, '.'); idx >= 0 {
			name = v[:idx]
		}
		names[name] = struct{}{}
	}
	return names
}
