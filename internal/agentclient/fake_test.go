package agentclient

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drainFake(t *testing.T, ch <-chan Message) (string, *ResultMessage) {
	t.Helper()
	var text string
	var result *ResultMessage
	for msg := range ch {
		switch m := msg.(type) {
		case AssistantMessage:
			if got, ok := m.LastText(); ok {
				text = got
			}
		case ResultMessage:
			rm := m
			result = &rm
		}
	}
	return text, result
}

func TestFakeClientReplaysStepsInOrder(t *testing.T) {
	client := NewFakeClient(
		FixtureStep{Text: "first\n", Cost: 0.1},
		FixtureStep{Text: "second\n", Cost: 0.2},
	)

	ch1, err := client.RunStep(context.Background(), StepRequest{})
	require.NoError(t, err)
	text1, result1 := drainFake(t, ch1)
	assert.Equal(t, "first\n", text1)
	assert.Equal(t, 0.1, result1.TotalCost)

	ch2, err := client.RunStep(context.Background(), StepRequest{})
	require.NoError(t, err)
	text2, result2 := drainFake(t, ch2)
	assert.Equal(t, "second\n", text2)
	assert.Equal(t, 0.2, result2.TotalCost)

	assert.Equal(t, 2, client.Calls())
}

func TestFakeClientExhaustionErrors(t *testing.T) {
	client := NewFakeClient(FixtureStep{Text: "only\n"})
	_, err := client.RunStep(context.Background(), StepRequest{})
	require.NoError(t, err)
	_, err = client.RunStep(context.Background(), StepRequest{})
	assert.Error(t, err, "expected error once the scripted steps are exhausted")
}

func TestFakeClientErrFieldFailsOutright(t *testing.T) {
	boom := context.DeadlineExceeded
	client := NewFakeClient(FixtureStep{Err: boom})
	_, err := client.RunStep(context.Background(), StepRequest{})
	assert.Error(t, err, "expected RunStep to surface the scripted error")
}

func TestFakeClientResultErrorSubtype(t *testing.T) {
	client := NewFakeClient(FixtureStep{ResultError: true})
	ch, err := client.RunStep(context.Background(), StepRequest{})
	require.NoError(t, err)
	text, result := drainFake(t, ch)
	assert.Empty(t, text)
	require.NotNil(t, result)
	assert.Equal(t, ResultError, result.Subtype)
}

func TestFakeClientExpressionComputesNextStep(t *testing.T) {
	client := NewFakeClient(FixtureStep{
		Expression: "step_0_output.score > 5 ? 2 : 3",
		Env: map[string]any{
			"step_0_output": map[string]any{"score": 9},
		},
	})
	ch, err := client.RunStep(context.Background(), StepRequest{})
	require.NoError(t, err)
	text, _ := drainFake(t, ch)
	assert.Equal(t, "next_step: 2\n", text)
}

func TestFakeClientExpressionCompileErrorPropagates(t *testing.T) {
	client := NewFakeClient(FixtureStep{Expression: "not a valid !!! expr"})
	_, err := client.RunStep(context.Background(), StepRequest{})
	assert.Error(t, err, "expected a compile error from the malformed expression")
}
