package yamlrepair

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseEmptyInputFails(t *testing.T) {
	p := New(nil)
	_, _, err := p.Parse(context.Background(), "   \n\t  ")
	require.Error(t, err)
}

func TestParseWellFormedYAMLNotRepaired(t *testing.T) {
	p := New(nil)
	value, repaired, err := p.Parse(context.Background(), "outer:\n  inner: v\n")
	require.NoError(t, err)
	require.False(t, repaired, "well-formed input must not be reported as repaired")

	m, ok := value.(map[string]any)
	require.True(t, ok, "expected map[string]any, got %T", value)
	outer, ok := m["outer"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "v", outer["inner"])
}

func TestParseFenceStripping(t *testing.T) {
	p := New(nil)
	text := "```yaml\nouter:\n  inner: v\n```"
	value, _, err := p.Parse(context.Background(), text)
	require.NoError(t, err)

	m := value.(map[string]any)
	outer := m["outer"].(map[string]any)
	require.Equal(t, "v", outer["inner"])
}

func TestParseTabRepair(t *testing.T) {
	p := New(nil)
	text := "```yaml\nouter:\n\tinner: v\n```"
	value, repaired, err := p.Parse(context.Background(), text)
	require.NoError(t, err)
	require.True(t, repaired, "expected was_repaired=true after tab-to-space fix")

	m := value.(map[string]any)
	outer := m["outer"].(map[string]any)
	require.Equal(t, "v", outer["inner"])
}

func TestParseTrailingCommaRepair(t *testing.T) {
	p := New(nil)
	text := "items: [1, 2],\nother: 3\n"
	_, repaired, err := p.Parse(context.Background(), text)
	require.NoError(t, err)
	require.True(t, repaired, "expected was_repaired=true after trailing-comma fix")
}

type fakeRepairer struct {
	output string
	err    error
}

func (f fakeRepairer) Repair(ctx context.Context, text string, parseErr string) (string, error) {
	return f.output, f.err
}

func TestParseModelRepairStage(t *testing.T) {
	p := New(fakeRepairer{output: "outer:\n  inner: v\n"})
	value, repaired, err := p.Parse(context.Background(), "not: valid: yaml: at: all: [")
	require.NoError(t, err)
	require.True(t, repaired, "expected was_repaired=true after model repair")

	m := value.(map[string]any)
	require.Equal(t, "v", m["outer"].(map[string]any)["inner"])
}

func TestParseModelRepairFailurePropagatesChainedError(t *testing.T) {
	p := New(fakeRepairer{err: errors.New("repair backend unavailable")})
	_, _, err := p.Parse(context.Background(), "not: valid: yaml: at: all: [")
	require.Error(t, err)
}

func TestParseIsIdempotentOnOwnOutput(t *testing.T) {
	p := New(nil)
	text := "```yaml\nouter:\n\tinner: v\n```"
	value1, _, err := p.Parse(context.Background(), text)
	require.NoError(t, err)

	reserialized, _, err := p.Parse(context.Background(), "outer:\n  inner: v\n")
	require.NoError(t, err, "reparsing repaired output")

	m1 := value1.(map[string]any)
	m2 := reserialized.(map[string]any)
	require.Equal(t, m1["outer"].(map[string]any)["inner"], m2["outer"].(map[string]any)["inner"])
}
