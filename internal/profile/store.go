package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrNotFound is returned when no profile with the requested name exists.
var ErrNotFound = errors.New("profile not found")

// Store persists profiles as one JSON file per profile under a directory.
// It is an explicit, injectable registry: nothing here is process-global.
type Store struct {
	dir string
}

// NewStore opens (creating if needed) a profile directory.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create profile dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name+".json")
}

// List returns summaries of all stored profiles, sorted by name.
func (s *Store) List() ([]Summary, error) {
	files, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read profile dir: %w", err)
	}

	var out []Summary
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".json") {
			continue
		}
		p, err := s.Get(strings.TrimSuffix(f.Name(), ".json"))
		if err != nil {
			// A corrupt file should not hide every other profile.
			continue
		}
		out = append(out, p.Summarize())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Get loads one profile by name.
func (s *Store) Get(name string) (Profile, error) {
	if err := ValidateName(name); err != nil {
		return Profile{}, err
	}
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return Profile{}, fmt.Errorf("%q: %w", name, ErrNotFound)
		}
		return Profile{}, fmt.Errorf("read profile %q: %w", name, err)
	}
	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("decode profile %q: %w", name, err)
	}
	return p, nil
}

// Save writes a profile atomically: temp file in the same directory, then
// rename over the target.
func (s *Store) Save(p Profile) error {
	if err := ValidateName(p.Name); err != nil {
		return err
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("encode profile %q: %w", p.Name, err)
	}

	tmp := s.path(p.Name) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write profile %q: %w", p.Name, err)
	}
	if err := os.Rename(tmp, s.path(p.Name)); err != nil {
		return fmt.Errorf("replace profile %q: %w", p.Name, err)
	}
	return nil
}

// Delete removes a profile. Deleting a missing profile is ErrNotFound.
func (s *Store) Delete(name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	if err := os.Remove(s.path(name)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%q: %w", name, ErrNotFound)
		}
		return fmt.Errorf("delete profile %q: %w", name, err)
	}
	return nil
}
