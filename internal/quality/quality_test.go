package quality

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bitsy-Chuck/maker-with-rlm/internal/agentclient"
	"github.com/Bitsy-Chuck/maker-with-rlm/internal/domain"
)

func samplePlan() *domain.Plan {
	return &domain.Plan{
		Reasoning: "split the task in two",
		Steps: []domain.PlanStep{
			{Step: 0, TaskType: domain.ActionStep, Title: "read", TaskDescription: "read the file",
				PrimaryTools: []string{"Read"}, OutputVariable: "contents", OutputSchema: "string"},
			{Step: 1, TaskType: domain.ActionStep, Title: "write", TaskDescription: "write a summary",
				PrimaryTools: []string{"Write"}, OutputVariable: "summary", OutputSchema: "string",
				NextStepSequenceNumber: -1},
		},
	}
}

func fixtureFor(text string) agentclient.FixtureStep {
	return agentclient.FixtureStep{Text: text}
}

func TestRunAllScoresEveryCheckInOrder(t *testing.T) {
	fixtures := make([]agentclient.FixtureStep, len(Checks))
	for i := range fixtures {
		fixtures[i] = fixtureFor("score: 0.8\ndetails: looks fine")
	}
	client := agentclient.NewFakeClient(fixtures...)
	checker := NewChecker(client)

	results, err := checker.RunAll(context.Background(), "claude-sonnet-4-5", samplePlan())
	require.NoError(t, err)
	require.Len(t, results, len(Checks))

	for i, r := range results {
		assert.Equal(t, Checks[i], r.Check)
		assert.InDelta(t, 0.8, r.Score, 0.0001)
		assert.Equal(t, "looks fine", r.Details)
	}
	assert.Equal(t, len(Checks), client.Calls())
}

func TestRunAllPropagatesClientError(t *testing.T) {
	client := agentclient.NewFakeClient() // no fixtures scripted
	checker := NewChecker(client)

	_, err := checker.RunAll(context.Background(), "claude-sonnet-4-5", samplePlan())
	require.Error(t, err)
}

func TestParseScoreFallsBackToRawResponseWhenUnparsable(t *testing.T) {
	score, details := parseScore("the model rambled instead of scoring")
	assert.Equal(t, 0.0, score)
	assert.Equal(t, "the model rambled instead of scoring", details)
}

func TestParseScoreDefaultsDetailsWhenMissing(t *testing.T) {
	score, details := parseScore("score: 0.5")
	assert.Equal(t, 0.5, score)
	assert.Equal(t, "score: 0.5", details)
}

func TestAggregateScoreIsEquallyWeightedAverage(t *testing.T) {
	results := []Result{
		{Check: SinglePurpose, Score: 1.0},
		{Check: SelfContained, Score: 0.0},
		{Check: MaxKTools, Score: 0.5},
	}
	assert.InDelta(t, 0.5, AggregateScore(results), 0.0001)
}

func TestAggregateScoreOfEmptyResultsIsZero(t *testing.T) {
	assert.Equal(t, 0.0, AggregateScore(nil))
}

func TestBuildPromptUsesPlanLevelLabelForPlanWideChecks(t *testing.T) {
	plan := samplePlan()
	assert.Contains(t, buildPrompt(NonOverlapping, plan), "plan_yaml:")
	assert.Contains(t, buildPrompt(AppropriatelyMerged, plan), "plan_yaml:")
	assert.Contains(t, buildPrompt(SinglePurpose, plan), "step_yaml:")
}
