package voting

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Bitsy-Chuck/maker-with-rlm/internal/domain"
)

func TestRedFlagCheckAgentError(t *testing.T) {
	flagged, reason := RedFlagCheck(domain.AgentResult{Error: "boom"})
	assert.True(t, flagged)
	assert.Equal(t, "Agent error: boom", reason)
}

func TestRedFlagCheckNonMappingOutput(t *testing.T) {
	cases := []any{
		[]any{1, 2, 3},
		"a bare scalar",
		42,
		nil,
	}
	for _, output := range cases {
		flagged, reason := RedFlagCheck(domain.AgentResult{Output: output})
		assert.True(t, flagged, "expected flagged=true for non-mapping output %#v", output)
		assert.Equal(t, "Output is not a dict", reason)
	}
}

func TestRedFlagCheckUsableMapping(t *testing.T) {
	flagged, reason := RedFlagCheck(domain.AgentResult{Output: map[string]any{"a": 1}})
	assert.False(t, flagged, "reason=%q", reason)
}

func TestRedFlagCheckEmptyMappingNotFlagged(t *testing.T) {
	flagged, _ := RedFlagCheck(domain.AgentResult{Output: map[string]any{}})
	assert.False(t, flagged, "empty mappings must not be flagged")
}
