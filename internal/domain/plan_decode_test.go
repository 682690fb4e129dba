package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodePlanAcceptsPlanKey(t *testing.T) {
	value := map[string]any{
		"reasoning": "r",
		"plan": []any{
			map[string]any{"step": 0, "task_type": "action_step", "output_variable": "step_0_output", "next_step_sequence_number": -1},
		},
	}
	plan, err := DecodePlan(value)
	require.NoError(t, err)
	assert.Equal(t, "r", plan.Reasoning)
	assert.Len(t, plan.Steps, 1)
}

func TestDecodePlanAcceptsStepsAlias(t *testing.T) {
	value := map[string]any{
		"reasoning": "r",
		"steps": []any{
			map[string]any{"step": 0, "task_type": "action_step", "output_variable": "step_0_output", "next_step_sequence_number": -1},
		},
	}
	plan, err := DecodePlan(value)
	require.NoError(t, err)
	assert.Len(t, plan.Steps, 1, "expected 'steps' alias to be accepted")
}

func TestDecodePlanMissingReasoningFails(t *testing.T) {
	value := map[string]any{
		"plan": []any{
			map[string]any{"step": 0, "task_type": "action_step", "output_variable": "step_0_output"},
		},
	}
	_, err := DecodePlan(value)
	require.Error(t, err, "expected error for missing reasoning")
}

func TestDecodePlanMissingStepKeysFails(t *testing.T) {
	value := map[string]any{
		"reasoning": "r",
		"plan": []any{
			map[string]any{"step": 0},
		},
	}
	_, err := DecodePlan(value)
	require.Error(t, err, "expected error for a step missing task_type/output_variable")
}

func TestDecodePlanIgnoresUnknownKeys(t *testing.T) {
	value := map[string]any{
		"reasoning": "r",
		"plan": []any{
			map[string]any{
				"step": 0, "task_type": "action_step", "output_variable": "step_0_output",
				"next_step_sequence_number": -1, "made_up_field": "should be ignored",
			},
		},
	}
	_, err := DecodePlan(value)
	require.NoError(t, err, "a plan with extra, unknown keys should still decode")
}

func TestPlanStepByID(t *testing.T) {
	plan := &Plan{Steps: []PlanStep{{Step: 5}, {Step: 2}}}
	byID := plan.StepByID()
	_, ok5 := byID[5]
	_, ok2 := byID[2]
	assert.True(t, ok5, "expected step 5 present")
	assert.True(t, ok2, "expected step 2 present")
}
