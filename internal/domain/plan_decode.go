package domain

import (
	"fmt"

	"gopkg.in/yaml.v3"

	domerrors "github.com/Bitsy-Chuck/maker-with-rlm/internal/domain/errors"
)

// DecodePlan turns a generic YAML-parsed value (map[string]any, as
// produced by the repair pipeline) into a Plan, per the wire mapping in
// spec.md §6: top-level `reasoning` and `plan` (alias `steps`).
//
// Re-marshalling through yaml.v3 and decoding into a struct is how the
// teacher's storage models convert untyped JSONB payloads into typed
// structs (internal/infrastructure/storage/models/mappers.go); it gets
// us yaml.v3's tolerant extra-key handling for free.
func DecodePlan(value any) (*Plan, error) {
	raw, err := yaml.Marshal(value)
	if err != nil {
		return nil, domerrors.NewPlanParseError("failed to re-marshal plan value", err)
	}

	var wire planWireFormat
	if err := yaml.Unmarshal(raw, &wire); err != nil {
		return nil, domerrors.NewPlanParseError("failed to decode plan", err)
	}

	steps := wire.Plan
	if len(steps) == 0 {
		steps = wire.Steps
	}

	if wire.Reasoning == "" {
		return nil, domerrors.NewPlanParseError("missing required key 'reasoning'", nil)
	}
	if len(steps) == 0 {
		return nil, domerrors.NewPlanParseError("missing required key 'plan' (or 'steps')", nil)
	}

	for i, s := range steps {
		if s.TaskType == "" {
			return nil, domerrors.NewPlanParseError(fmt.Sprintf("step %d missing required key 'task_type'", i), nil)
		}
		if s.OutputVariable == "" {
			return nil, domerrors.NewPlanParseError(fmt.Sprintf("step %d missing required key 'output_variable'", i), nil)
		}
	}

	return &Plan{Reasoning: wire.Reasoning, Steps: steps}, nil
}
