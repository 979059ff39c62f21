package command

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// Device is one controllable entry in the catalog. Instances are built
// by LoadCatalog and never mutated afterwards, so concurrent reads are
// safe without locking.
type Device struct {
	ID      string
	Name    string
	Aliases []string
	Actions map[Action]bool
}

// Supports reports whether the device accepts the given action.
func (d *Device) Supports(act Action) bool {
	return d.Actions[act]
}

// Catalog holds every known device for the lifetime of the process.
type Catalog struct {
	devices []*Device
}

// Devices returns the catalog entries in load order.
func (c *Catalog) Devices() []*Device {
	return c.devices
}

// Context renders a compact device listing for the classifier prompt,
// one line per device.
func (c *Catalog) Context() string {
	var b strings.Builder
	for _, d := range c.devices {
		acts := make([]string, 0, len(d.Actions))
		for _, act := range Actions {
			if d.Actions[act] {
				acts = append(acts, string(act))
			}
		}
		fmt.Fprintf(&b, "- name: %q, aliases: [%s], commands: [%s]\n",
			d.Name, strings.Join(d.Aliases, ", "), strings.Join(acts, ", "))
	}
	return b.String()
}

type catalogFile struct {
	Devices []deviceEntry `json:"devices"`
}

type deviceEntry struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Aliases           []string `json:"aliases"`
	SupportedCommands []string `json:"supported_commands"`
}

// LoadCatalogFile reads and validates the device catalog from path.
func LoadCatalogFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return LoadCatalog(f)
}

// LoadCatalog parses the catalog document and validates every entry.
// A malformed entry is an error, not a skip: running with a partially
// understood catalog risks controlling the wrong device.
func LoadCatalog(r io.Reader) (*Catalog, error) {
	var file catalogFile
	if err := json.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(file.Devices) == 0 {
		return nil, fmt.Errorf("catalog has no devices")
	}

	cat := &Catalog{}
	seen := make(map[string]bool)
	for i, entry := range file.Devices {
		dev, err := buildDevice(entry)
		if err != nil {
			return nil, fmt.Errorf("device %d: %w", i, err)
		}
		if seen[dev.ID] {
			return nil, fmt.Errorf("device %d: duplicate id %q", i, dev.ID)
		}
		seen[dev.ID] = true
		cat.devices = append(cat.devices, dev)
	}
	return cat, nil
}

func buildDevice(entry deviceEntry) (*Device, error) {
	id := strings.TrimSpace(entry.ID)
	if id == "" {
		return nil, fmt.Errorf("missing id")
	}
	name := strings.Join(strings.Fields(entry.Name), " ")
	if name == "" {
		return nil, fmt.Errorf("missing name (id %q)", id)
	}

	if len(entry.SupportedCommands) == 0 {
		return nil, fmt.Errorf("device %q: no supported commands", id)
	}
	acts := make(map[Action]bool, len(entry.SupportedCommands))
	for _, raw := range entry.SupportedCommands {
		tag := strings.ToLower(strings.TrimSpace(raw))
		if !ValidAction(tag) {
			return nil, fmt.Errorf("device %q: unknown command %q", id, raw)
		}
		acts[Action(tag)] = true
	}

	// The display name always doubles as an alias.
	aliasSet := map[string]bool{CleanTarget(name): true}
	for _, a := range entry.Aliases {
		if alias := CleanTarget(a); alias != "" {
			aliasSet[alias] = true
		}
	}
	aliases := make([]string, 0, len(aliasSet))
	for a := range aliasSet {
		aliases = append(aliases, a)
	}
	sort.Strings(aliases)

	return &Device{ID: id, Name: name, Aliases: aliases, Actions: acts}, nil
}
