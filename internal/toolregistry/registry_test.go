package toolregistry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterBuiltinAndValidate(t *testing.T) {
	r := New()
	require.NoError(t, r.RegisterBuiltin("WebSearch", "search the web"))
	assert.True(t, r.ValidateToolName("WebSearch"))
	assert.False(t, r.ValidateToolName("Unregistered"))
}

func TestDuplicateRegistrationFails(t *testing.T) {
	r := New()
	require.NoError(t, r.RegisterBuiltin("WebSearch", "search the web"))
	assert.Error(t, r.RegisterBuiltin("WebSearch", "search the web again"))
}

func TestRegisterMCPServerAndUnregister(t *testing.T) {
	r := New()
	require.NoError(t, r.RegisterMCPServer("my-server", []Tool{
		{Name: "ToolA", Description: "does a"},
		{Name: "ToolB", Description: "does b"},
	}))
	assert.True(t, r.ValidateToolName("ToolA"))
	assert.True(t, r.ValidateToolName("ToolB"))

	r.UnregisterMCPServer("my-server")
	assert.False(t, r.ValidateToolName("ToolA"))
	assert.False(t, r.ValidateToolName("ToolB"))
}

func TestListToolsSortedAlphabetically(t *testing.T) {
	r := New()
	_ = r.RegisterBuiltin("Zeta", "last")
	_ = r.RegisterBuiltin("Alpha", "first")
	_ = r.RegisterBuiltin("Mid", "middle")

	tools := r.ListTools()
	require.Len(t, tools, 3)
	assert.Equal(t, "Alpha", tools[0].Name)
	assert.Equal(t, "Mid", tools[1].Name)
	assert.Equal(t, "Zeta", tools[2].Name)
}

func TestFormatAlphabeticalIncludesMCPAnnotation(t *testing.T) {
	r := New()
	_ = r.RegisterBuiltin("Builtin", "a builtin tool")
	_ = r.RegisterMCPServer("srv", []Tool{{Name: "Remote", Description: "a remote tool"}})

	lines := r.FormatAlphabetical()
	require.Len(t, lines, 2)
	assert.Equal(t, "- Builtin: a builtin tool", lines[0])
	assert.Equal(t, "- Remote: a remote tool (MCP: srv)", lines[1])
}
