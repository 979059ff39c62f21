package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIntentPlainJSON(t *testing.T) {
	intent, ok := ParseIntent(`{"is_command": true, "command": "switch off", "target": "the lamp"}`)
	require.True(t, ok)
	assert.True(t, intent.IsCommand)
	assert.Equal(t, "switch off", intent.Action)
	assert.Equal(t, "the lamp", intent.Target)
}

func TestParseIntentNotCommand(t *testing.T) {
	intent, ok := ParseIntent(`{"is_command": false, "command": null, "target": null}`)
	require.True(t, ok)
	assert.False(t, intent.IsCommand)
}

func TestParseIntentFencedOutput(t *testing.T) {
	content := "Sure! Here is the parse:\n```json\n" +
		`{"is_command": true, "command": "open", "target": "garage door"}` +
		"\n```\nLet me know if you need anything else."
	intent, ok := ParseIntent(content)
	require.True(t, ok)
	assert.True(t, intent.IsCommand)
	assert.Equal(t, "open", intent.Action)
	assert.Equal(t, "garage door", intent.Target)
}

func TestParseIntentGarbage(t *testing.T) {
	for _, content := range []string{
		"",
		"   ",
		"I think you want to turn on the lights.",
		`{"command": "open"}`,   // missing is_command
		`{"is_command": "yes"}`, // wrong type
		"{broken json",
	} {
		_, ok := ParseIntent(content)
		assert.False(t, ok, "content %q must not parse", content)
	}
}

func TestParseIntentNullFieldsOnCommand(t *testing.T) {
	// A command verdict with null fields still parses; downstream
	// normalization rejects the empty action.
	intent, ok := ParseIntent(`{"is_command": true, "command": null, "target": null}`)
	require.True(t, ok)
	assert.True(t, intent.IsCommand)
	assert.Empty(t, intent.Action)
	assert.Empty(t, intent.Target)
}
