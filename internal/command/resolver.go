package command

import "strings"

// CleanTarget normalizes a target phrase for matching: lowercase,
// surrounding punctuation trimmed, whitespace collapsed, one leading
// article dropped ("the lamp" -> "lamp").
func CleanTarget(raw string) string {
	target := strings.ToLower(strings.Trim(raw, " \t\n\r.,!?"))
	target = strings.Join(strings.Fields(target), " ")
	for _, article := range []string{"the ", "a ", "an "} {
		if strings.HasPrefix(target, article) {
			target = target[len(article):]
			break
		}
	}
	return target
}

// Resolve maps a candidate target phrase to a catalog device.
//
// Matching runs in tiers, the first tier with any match decides:
//  1. exact match against a device name,
//  2. exact match against an alias,
//  3. word-level containment in either direction between the phrase
//     and a name/alias ("lock" never matches "clock").
//
// A tier that matches more than one device is ambiguous, and an
// ambiguous phrase resolves to nothing: guessing a device would mean
// acting on hardware the user did not name. Returns nil when no device
// qualifies.
func Resolve(candidate string, cat *Catalog) *Device {
	target := CleanTarget(candidate)
	if target == "" {
		return nil
	}

	tiers := []func(target string, d *Device) bool{
		matchName,
		matchAlias,
		matchContained,
	}
	for _, match := range tiers {
		var found *Device
		for _, d := range cat.Devices() {
			if !match(target, d) {
				continue
			}
			if found != nil && found != d {
				return nil // ambiguous within this tier
			}
			found = d
		}
		if found != nil {
			return found
		}
	}
	return nil
}

func matchName(target string, d *Device) bool {
	return target == CleanTarget(d.Name)
}

func matchAlias(target string, d *Device) bool {
	for _, alias := range d.Aliases {
		if target == alias {
			return true
		}
	}
	return false
}

func matchContained(target string, d *Device) bool {
	tw := strings.Fields(target)
	for _, alias := range d.Aliases {
		aw := strings.Fields(alias)
		if containsWords(tw, aw) || containsWords(aw, tw) {
			return true
		}
	}
	return false
}

// containsWords reports whether needle occurs in haystack as a
// contiguous run of whole words.
func containsWords(haystack, needle []string) bool {
	if len(needle) == 0 || len(needle) > len(haystack) {
		return false
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		ok := true
		for j, w := range needle {
			if haystack[i+j] != w {
				ok = false
				break
			}
		}
		if ok {
			return true
		}
	}
	return false
}
