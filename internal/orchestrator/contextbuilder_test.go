package orchestrator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bitsy-Chuck/maker-with-rlm/internal/domain"
)

func TestBuildContextEmptyWhenNoInputVariables(t *testing.T) {
	step := domain.PlanStep{Step: 1}
	out, err := BuildContext(step, map[string]any{"step_0_output": map[string]any{"a": 1}})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestBuildContextIncludesFullReferencedOutput(t *testing.T) {
	step := domain.PlanStep{Step: 1, InputVariables: []string{"step_0_output.field"}}
	stepOutputs := map[string]any{
		"step_0_output": map[string]any{"field": "v", "other": "w"},
	}

	out, err := BuildContext(step, stepOutputs)
	require.NoError(t, err)
	assert.Contains(t, out, "field: v")
	assert.Contains(t, out, "other: w")
}

func TestBuildContextMissingReference(t *testing.T) {
	step := domain.PlanStep{Step: 1, InputVariables: []string{"step_0_output"}}
	_, err := BuildContext(step, map[string]any{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "step_0_output")
}

func TestBuildContextDedupesMultipleFieldsFromSameStep(t *testing.T) {
	step := domain.PlanStep{Step: 1, InputVariables: []string{"step_0_output.a", "step_0_output.b"}}
	stepOutputs := map[string]any{"step_0_output": map[string]any{"a": 1, "b": 2}}

	out, err := BuildContext(step, stepOutputs)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, "step_0_output:"))
}
