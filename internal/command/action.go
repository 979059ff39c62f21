package command

import "strings"

// Action is one of the fixed device-control verbs. The set is closed:
// anything the classifier produces that does not map here is treated as
// no action at all.
type Action string

const (
	ActionTurnOn  Action = "turn_on"
	ActionTurnOff Action = "turn_off"
	ActionOpen    Action = "open"
	ActionClose   Action = "close"
	ActionLock    Action = "lock"
	ActionUnlock  Action = "unlock"
	ActionStart   Action = "start"
	ActionStop    Action = "stop"
)

// Actions lists every canonical action, in a stable order. Used for
// catalog validation and for building the classifier prompt.
var Actions = []Action{
	ActionTurnOn,
	ActionTurnOff,
	ActionOpen,
	ActionClose,
	ActionLock,
	ActionUnlock,
	ActionStart,
	ActionStop,
}

// synonyms maps each action to the phrases accepted for it. Each
// canonical tag is its own synonym, so normalization is idempotent.
var synonyms = map[Action][]string{
	ActionTurnOn:  {"turn_on", "turn on", "switch on", "power on", "power up", "enable", "activate"},
	ActionTurnOff: {"turn_off", "turn off", "switch off", "power off", "power down", "shut off", "disable", "deactivate"},
	ActionOpen:    {"open", "open up", "raise"},
	ActionClose:   {"close", "shut", "lower"},
	ActionLock:    {"lock", "lock up", "secure"},
	ActionUnlock:  {"unlock", "unlatch"},
	ActionStart:   {"start", "run", "launch", "begin"},
	ActionStop:    {"stop", "halt", "cancel"},
}

var synonymIndex = buildSynonymIndex()

func buildSynonymIndex() map[string]Action {
	idx := make(map[string]Action)
	for act, words := range synonyms {
		for _, w := range words {
			idx[w] = act
		}
	}
	return idx
}

// NormalizeAction maps a raw action phrase to its canonical action.
// Returns false when the phrase is not recognized; the caller must not
// guess in that case.
func NormalizeAction(raw string) (Action, bool) {
	phrase := strings.ToLower(strings.TrimSpace(raw))
	phrase = strings.Join(strings.Fields(phrase), " ")
	act, ok := synonymIndex[phrase]
	return act, ok
}

// ValidAction reports whether s is exactly one of the canonical tags.
func ValidAction(s string) bool {
	for _, act := range Actions {
		if Action(s) == act {
			return true
		}
	}
	return false
}
