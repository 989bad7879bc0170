package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEntry_CurrentSchema_User(t *testing.T) {
	line := `{"message":{"role":"user","content":[{"type":"text","text":"add retry logic"}]}}`

	e, err := ParseEntry([]byte(line))

	require.NoError(t, err)
	assert.Equal(t, RoleHuman, e.Role)
	assert.Equal(t, "add retry logic", e.FirstText())
}

func TestParseEntry_CurrentSchema_AssistantToolUse(t *testing.T) {
	line := `{"message":{"role":"assistant","content":[{"type":"tool_use","name":"Edit","input":{"file_path":"main.go"}}]}}`

	e, err := ParseEntry([]byte(line))

	require.NoError(t, err)
	assert.Equal(t, RoleAssistant, e.Role)
	require.Len(t, e.Blocks, 1)
	assert.Equal(t, BlockToolUse, e.Blocks[0].Type)
	assert.Equal(t, "Edit", e.Blocks[0].ToolName)
	assert.Equal(t, "main.go", e.Blocks[0].Input["file_path"])
}

func TestParseEntry_LegacySchema(t *testing.T) {
	line := `{"type":"assistant","content":[{"type":"text","text":"done"}]}`

	e, err := ParseEntry([]byte(line))

	require.NoError(t, err)
	assert.Equal(t, RoleAssistant, e.Role)
	assert.Equal(t, "done", e.FirstText())
}

func TestParseEntry_StringContent(t *testing.T) {
	line := `{"type":"human","content":"just a plain string"}`

	e, err := ParseEntry([]byte(line))

	require.NoError(t, err)
	assert.Equal(t, RoleHuman, e.Role)
	assert.Equal(t, "just a plain string", e.FirstText())
}

func TestParseEntry_ToolResultBlockRetagsRole(t *testing.T) {
	// Current schema delivers tool results as user-role entries. They must
	// not be mistaken for real user input.
	line := `{"message":{"role":"user","content":[{"type":"tool_result","content":"error: build failed\nexit 1"}]}}`

	e, err := ParseEntry([]byte(line))

	require.NoError(t, err)
	assert.Equal(t, RoleToolResult, e.Role)
	assert.Equal(t, "error: build failed\nexit 1", e.ResultText())
}

func TestParseEntry_ToolUseResultPayload(t *testing.T) {
	line := `{"message":{"role":"user","content":[]},"toolUseResult":{"stdout":"[main abc1234] feat: add retry"}}`

	e, err := ParseEntry([]byte(line))

	require.NoError(t, err)
	assert.Equal(t, RoleToolResult, e.Role)
	assert.Contains(t, e.ResultText(), "abc1234")
}

func TestParseEntry_ToolResultBlocksFlattened(t *testing.T) {
	line := `{"message":{"role":"user","content":[{"type":"tool_result","content":[{"type":"text","text":"failed: no such file"}]}]}}`

	e, err := ParseEntry([]byte(line))

	require.NoError(t, err)
	assert.Equal(t, "failed: no such file", e.ResultText())
}

func TestParseEntry_Malformed(t *testing.T) {
	cases := []string{
		"",
		"   ",
		"not json at all",
		`{"message": "truncated`,
	}
	for _, line := range cases {
		_, err := ParseEntry([]byte(line))
		assert.ErrorIs(t, err, ErrInvalidInput, "line %q", line)
	}
}

func TestParseEntry_UnknownFieldsTolerated(t *testing.T) {
	line := `{"uuid":"x","timestamp":"2026-01-01T00:00:00Z","message":{"role":"assistant","content":[{"type":"text","text":"ok"}],"model":"m"},"extra":42}`

	e, err := ParseEntry([]byte(line))

	require.NoError(t, err)
	assert.Equal(t, RoleAssistant, e.Role)
}

func TestParseEntry_UnknownRole(t *testing.T) {
	line := `{"type":"system","content":"housekeeping"}`

	e, err := ParseEntry([]byte(line))

	require.NoError(t, err)
	assert.Equal(t, RoleUnknown, e.Role)
}
