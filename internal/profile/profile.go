// Package profile holds named, user-managed entry collections and their
// on-disk store. The hosts-file engine itself never owns profile lifecycle;
// everything here is glue around internal/hostsfile.
package profile

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/stephanjoseph/SaneHosts-sub000/internal/hostsfile"
)

// SourceKind records where a profile's entries came from.
type SourceKind string

const (
	SourceLocal  SourceKind = "local"
	SourceRemote SourceKind = "remote"
	SourceMerged SourceKind = "merged"
	SourceSystem SourceKind = "system"
)

// Provenance describes a profile's origin. URL and FetchedAt are meaningful
// for remote profiles, SourceCount for merged ones.
type Provenance struct {
	Kind        SourceKind `json:"kind"`
	URL         string     `json:"url,omitempty"`
	FetchedAt   time.Time  `json:"fetched_at,omitempty"`
	SourceCount int        `json:"source_count,omitempty"`
}

// Profile is a named collection of host entries.
type Profile struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Entries   []hostsfile.Entry `json:"entries"`
	Source    Provenance        `json:"source"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// New builds an empty profile with a fresh ID.
func New(name string, src Provenance) (Profile, error) {
	if err := ValidateName(name); err != nil {
		return Profile{}, err
	}
	now := time.Now().UTC()
	return Profile{
		ID:        uuid.NewString(),
		Name:      name,
		Source:    src,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// ValidateName rejects names that cannot serve as store filenames or section
// markers in generated output.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("profile name must not be empty")
	}
	if len(name) > 64 {
		return fmt.Errorf("profile name too long (%d chars, max 64)", len(name))
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case i > 0 && (c == '-' || c == '_' || c == '.'):
		default:
			return fmt.Errorf("profile name %q contains invalid character %q", name, c)
		}
	}
	return nil
}

// WithEntries returns a copy of the profile carrying the given entries and a
// bumped modification time. Profiles are value types like entries: edits
// never mutate in place.
func (p Profile) WithEntries(entries []hostsfile.Entry) Profile {
	c := p
	c.Entries = append([]hostsfile.Entry(nil), entries...)
	c.UpdatedAt = time.Now().UTC()
	return c
}

// Summary is the listing view of a profile.
type Summary struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Kind       SourceKind `json:"kind"`
	EntryCount int        `json:"entry_count"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// Summarize reduces a profile to its listing view.
func (p Profile) Summarize() Summary {
	return Summary{
		ID:         p.ID,
		Name:       p.Name,
		Kind:       p.Source.Kind,
		EntryCount: len(p.Entries),
		UpdatedAt:  p.UpdatedAt,
	}
}
