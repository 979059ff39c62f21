package command

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCatalog(t *testing.T) {
	cat := testCatalog(t)
	require.Len(t, cat.Devices(), 4)

	front := cat.Devices()[0]
	assert.Equal(t, "front_door", front.ID)
	assert.Equal(t, "front door", front.Name)
	assert.Contains(t, front.Aliases, "front door", "device name must double as alias")
	assert.Contains(t, front.Aliases, "main door")
	assert.True(t, front.Supports(ActionLock))
	assert.False(t, front.Supports(ActionStart))
}

func TestLoadCatalogRejectsMalformed(t *testing.T) {
	cases := map[string]string{
		"empty devices":   `{"devices": []}`,
		"not json":        `devices: front door`,
		"missing id":      `{"devices": [{"name": "x", "supported_commands": ["open"]}]}`,
		"blank name":      `{"devices": [{"id": "d", "name": "   ", "supported_commands": ["open"]}]}`,
		"no commands":     `{"devices": [{"id": "d", "name": "x"}]}`,
		"unknown command": `{"devices": [{"id": "d", "name": "x", "supported_commands": ["explode"]}]}`,
		"duplicate id": `{"devices": [
			{"id": "d", "name": "x", "supported_commands": ["open"]},
			{"id": "d", "name": "y", "supported_commands": ["open"]}
		]}`,
	}
	for label, doc := range cases {
		_, err := LoadCatalog(strings.NewReader(doc))
		assert.Error(t, err, label)
	}
}

func TestLoadCatalogNormalizesAliases(t *testing.T) {
	doc := `{"devices": [{
		"id": "d",
		"name": "  Robot   Vacuum ",
		"aliases": ["The Vacuum!", "cleaner", "robot vacuum", ""],
		"supported_commands": ["START", "stop"]
	}]}`
	cat, err := LoadCatalog(strings.NewReader(doc))
	require.NoError(t, err)

	dev := cat.Devices()[0]
	assert.Equal(t, "Robot Vacuum", dev.Name)
	assert.Equal(t, []string{"cleaner", "robot vacuum", "vacuum"}, dev.Aliases)
	assert.True(t, dev.Supports(ActionStart))
	assert.True(t, dev.Supports(ActionStop))
}

func TestCatalogContext(t *testing.T) {
	cat := testCatalog(t)
	ctx := cat.Context()
	assert.Contains(t, ctx, `"living room lights"`)
	assert.Contains(t, ctx, "turn_on, turn_off")
	assert.Equal(t, len(cat.Devices()), strings.Count(ctx, "- name:"))
}
