package orchestrator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bitsy-Chuck/maker-with-rlm/internal/agentclient"
	"github.com/Bitsy-Chuck/maker-with-rlm/internal/domain"
	"github.com/Bitsy-Chuck/maker-with-rlm/internal/toolregistry"
	"github.com/Bitsy-Chuck/maker-with-rlm/internal/yamlrepair"
)

func TestPlannerDecodesValidPlan(t *testing.T) {
	client := agentclient.NewFakeClient(agentclient.FixtureStep{Text: validTwoStepPlanYAML})
	registry := toolregistry.New()
	p := NewPlanner(client, registry, yamlrepair.New(nil))

	plan, err := p.Plan(context.Background(), "do the thing", "test-model")
	require.NoError(t, err)
	assert.Len(t, plan.Steps, 2)
}

func TestPlannerPromptIncludesToolsAndFeedback(t *testing.T) {
	client := agentclient.NewFakeClient(agentclient.FixtureStep{Text: validTwoStepPlanYAML})
	registry := toolregistry.New()
	_ = registry.RegisterBuiltin("WebSearch", "search the web")
	p := NewPlanner(client, registry, yamlrepair.New(nil))
	p.SetValidationFeedback([]domain.CheckResult{{Check: "no_orphan_steps", Message: "step 2 is unreachable"}})

	prompt := p.buildPrompt("do the thing")
	assert.Contains(t, prompt, "WebSearch")
	assert.Contains(t, prompt, "previous plan failed validation")
	assert.Contains(t, prompt, "step 2 is unreachable")
}

func TestPlannerClearsFeedbackAfterOneEmit(t *testing.T) {
	client := agentclient.NewFakeClient(
		agentclient.FixtureStep{Text: validTwoStepPlanYAML},
		agentclient.FixtureStep{Text: validTwoStepPlanYAML},
	)
	registry := toolregistry.New()
	p := NewPlanner(client, registry, yamlrepair.New(nil))
	p.SetValidationFeedback([]domain.CheckResult{{Check: "c", Message: "m"}})

	_, err := p.Plan(context.Background(), "instr", "model")
	require.NoError(t, err)
	assert.Empty(t, p.validationFeedback, "expected validation feedback to be cleared after one emit")

	secondPrompt := p.buildPrompt("instr")
	assert.NotContains(t, secondPrompt, "previous plan failed validation")
}

func TestPlannerNoAssistantMessageFails(t *testing.T) {
	client := agentclient.NewFakeClient(agentclient.FixtureStep{ResultError: true})
	registry := toolregistry.New()
	p := NewPlanner(client, registry, yamlrepair.New(nil))

	_, err := p.Plan(context.Background(), "instr", "model")
	require.Error(t, err, "expected error when the agent returns an error result with no assistant text")
}
