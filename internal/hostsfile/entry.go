package hostsfile

import (
	"fmt"
	"strings"

	"github.com/rs/xid"
)

// Hostnames that the operating system depends on. Entries carrying any of
// these are classified as system entries and are never touched by profile
// switches.
var systemHostnames = map[string]struct{}{
	"localhost":     {},
	"broadcasthost": {},
	"local":         {},
}

// Entry is one hostname-to-IP mapping. Entries are value types: every edit
// produces a fresh copy, the original is never mutated.
type Entry struct {
	ID         string   `json:"id"`
	IP         string   `json:"ip"`
	Hostnames  []string `json:"hostnames"`
	Comment    string   `json:"comment,omitempty"`
	Enabled    bool     `json:"enabled"`
	LineNumber int      `json:"line_number,omitempty"`
}

// NewEntry validates its inputs and builds an enabled entry with a fresh ID.
// The comment is sanitized so a single entry can never span multiple lines in
// the generated file.
func NewEntry(ip string, hostnames []string, comment string) (Entry, error) {
	if !IsValidIP(ip) {
		return Entry{}, fmt.Errorf("invalid ip address %q", ip)
	}

	valid := make([]string, 0, len(hostnames))
	for _, h := range hostnames {
		h = strings.TrimSpace(h)
		if IsValidHostname(h) {
			valid = append(valid, h)
		}
	}
	if len(valid) == 0 {
		return Entry{}, fmt.Errorf("entry for %s has no valid hostnames", ip)
	}

	return Entry{
		ID:        xid.New().String(),
		IP:        ip,
		Hostnames: valid,
		Comment:   SanitizeComment(comment),
		Enabled:   true,
	}, nil
}

// SanitizeComment collapses line terminators to spaces so caller-supplied
// text cannot break the one-entry-one-line structure of the generated file.
func SanitizeComment(comment string) string {
	if !strings.ContainsAny(comment, "\r\n") {
		return comment
	}
	comment = strings.ReplaceAll(comment, "\r\n", " ")
	comment = strings.ReplaceAll(comment, "\r", " ")
	comment = strings.ReplaceAll(comment, "\n", " ")
	return comment
}

// Primary returns the first hostname of the entry.
func (e Entry) Primary() string {
	if len(e.Hostnames) == 0 {
		return ""
	}
	return e.Hostnames[0]
}

// IsSystemEntry reports whether the entry carries a hostname the OS depends
// on. Classification is by hostname only, never by IP: "myserver.local" does
// not qualify, the literal "local" does.
func (e Entry) IsSystemEntry() bool {
	for _, h := range e.Hostnames {
		if _, ok := systemHostnames[strings.ToLower(h)]; ok {
			return true
		}
	}
	return false
}

// IsLoopback reports whether the entry points at the loopback address.
func (e Entry) IsLoopback() bool {
	return e.IP == "127.0.0.1" || e.IP == "::1"
}

// WithEnabled returns a copy of the entry with the enabled flag set.
func (e Entry) WithEnabled(enabled bool) Entry {
	c := e.clone()
	c.Enabled = enabled
	return c
}

// WithIP returns a copy of the entry pointing at a different address.
func (e Entry) WithIP(ip string) (Entry, error) {
	if !IsValidIP(ip) {
		return Entry{}, fmt.Errorf("invalid ip address %q", ip)
	}
	c := e.clone()
	c.IP = ip
	return c, nil
}

// WithComment returns a copy of the entry with a sanitized comment.
func (e Entry) WithComment(comment string) Entry {
	c := e.clone()
	c.Comment = SanitizeComment(comment)
	return c
}

func (e Entry) clone() Entry {
	c := e
	c.Hostnames = append([]string(nil), e.Hostnames...)
	return c
}
