package chat

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Store persists session history as a JSON file. An empty path
// disables persistence entirely.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads the persisted history. A missing file is an empty
// history; entries without a role or content are dropped.
func (st *Store) Load() ([]Message, error) {
	if st.path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(st.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var raw []Message
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", st.path, err)
	}
	out := raw[:0]
	for _, m := range raw {
		if m.Role != "" && m.Content != "" {
			out = append(out, m)
		}
	}
	return out, nil
}

// Save writes the history atomically next to its final location.
func (st *Store) Save(history []Message) error {
	if st.path == "" {
		return nil
	}
	if dir := filepath.Dir(st.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	data, err := json.MarshalIndent(history, "", "  ")
	if err != nil {
		return err
	}
	tmp := st.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, st.path)
}
