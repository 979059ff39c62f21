package command

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCatalogJSON = `{
  "devices": [
    {
      "id": "front_door",
      "name": "front door",
      "aliases": ["main door", "door"],
      "supported_commands": ["open", "close", "lock", "unlock"]
    },
    {
      "id": "garage_door",
      "name": "garage door",
      "aliases": ["garage"],
      "supported_commands": ["open", "close", "stop"]
    },
    {
      "id": "lr1",
      "name": "living room lights",
      "aliases": ["lights", "lamp"],
      "supported_commands": ["turn_on", "turn_off"]
    },
    {
      "id": "clock1",
      "name": "kitchen clock",
      "aliases": ["clock"],
      "supported_commands": ["turn_on", "turn_off"]
    }
  ]
}`

func testCatalog(t *testing.T) *Catalog {
	t.Helper()
	cat, err := LoadCatalog(strings.NewReader(testCatalogJSON))
	require.NoError(t, err)
	return cat
}

func TestCleanTarget(t *testing.T) {
	assert.Equal(t, "lamp", CleanTarget("the lamp"))
	assert.Equal(t, "lamp", CleanTarget("  The  Lamp!  "))
	assert.Equal(t, "garage door", CleanTarget("a garage   door."))
	assert.Equal(t, "", CleanTarget("  .,! "))
}

func TestResolveExactName(t *testing.T) {
	cat := testCatalog(t)
	dev := Resolve("living room lights", cat)
	require.NotNil(t, dev)
	assert.Equal(t, "lr1", dev.ID)
}

func TestResolveAlias(t *testing.T) {
	cat := testCatalog(t)

	dev := Resolve("the lamp", cat)
	require.NotNil(t, dev)
	assert.Equal(t, "lr1", dev.ID)

	dev = Resolve("Garage", cat)
	require.NotNil(t, dev)
	assert.Equal(t, "garage_door", dev.ID)
}

func TestResolveEveryAlias(t *testing.T) {
	cat := testCatalog(t)
	owners := make(map[string]int)
	for _, d := range cat.Devices() {
		for _, a := range d.Aliases {
			owners[a]++
		}
	}
	for _, d := range cat.Devices() {
		for _, alias := range d.Aliases {
			if owners[alias] > 1 {
				continue // shared alias, covered by the ambiguity test
			}
			got := Resolve(alias, cat)
			require.NotNil(t, got, "alias %q", alias)
			assert.Equal(t, d.ID, got.ID, "alias %q", alias)
		}
	}
}

func TestResolveWordContainment(t *testing.T) {
	cat := testCatalog(t)

	// Target phrase contains the alias as whole words.
	dev := Resolve("living room lights please", cat)
	require.NotNil(t, dev)
	assert.Equal(t, "lr1", dev.ID)

	// Alias contains the target phrase as whole words.
	dev = Resolve("living room", cat)
	require.NotNil(t, dev)
	assert.Equal(t, "lr1", dev.ID)
}

func TestResolveNoCharacterSubstring(t *testing.T) {
	cat := testCatalog(t)
	// "lock" is a word of no name or alias; it must not reach the
	// kitchen clock through a character-level substring.
	assert.Nil(t, Resolve("lock", cat))
}

func TestResolveAmbiguousContainment(t *testing.T) {
	cat := testCatalog(t)
	// "door" is an alias of the front door, so the alias tier wins
	// outright even though "garage door" also contains the word.
	dev := Resolve("door", cat)
	require.NotNil(t, dev)
	assert.Equal(t, "front_door", dev.ID)

	// A phrase naming both doors matches two devices in the
	// containment tier and must not pick one.
	assert.Nil(t, Resolve("the garage and the front door", cat))
}

func TestResolveSharedAliasIsAmbiguous(t *testing.T) {
	const twoLamps = `{
	  "devices": [
	    {"id": "l1", "name": "desk lamp", "aliases": ["lamp"], "supported_commands": ["turn_on"]},
	    {"id": "l2", "name": "floor lamp", "aliases": ["lamp"], "supported_commands": ["turn_on"]}
	  ]
	}`
	cat, err := LoadCatalog(strings.NewReader(twoLamps))
	require.NoError(t, err)

	assert.Nil(t, Resolve("lamp", cat), "shared alias must not pick an arbitrary device")
	// Unambiguous names still resolve.
	dev := Resolve("desk lamp", cat)
	require.NotNil(t, dev)
	assert.Equal(t, "l1", dev.ID)
}

func TestResolveNoMatch(t *testing.T) {
	cat := testCatalog(t)
	assert.Nil(t, Resolve("coffee machine", cat))
	assert.Nil(t, Resolve("", cat))
	assert.Nil(t, Resolve("the", cat))
}
