package hostsfile

import (
	"fmt"
	"strings"
)

// The generated-file banner. Byte-for-byte stable so applies of identical
// content are detectable by checksum.
const banner = `# Managed by SaneHosts. This section is rewritten on every profile switch.
# Edit your profiles instead of editing between the markers below.`

// Generate renders a classified line sequence back to text, one line per
// element, terminated by a newline. For sequences produced by Parse the
// result is stable: parsing it again and regenerating yields identical bytes.
func Generate(lines []Line) string {
	var b strings.Builder
	for _, l := range lines {
		switch l.Kind {
		case LineBlank:
		case LineComment:
			b.WriteByte('#')
			if l.Comment != "" {
				b.WriteString(" ")
				b.WriteString(l.Comment)
			}
		case LineEntry:
			b.WriteString(renderEntry(l.Entry))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// GenerateMerged renders the final hosts file for one profile: the banner,
// the system section, then the profile's own entries between named markers.
// Entries in the profile that would qualify as system entries are excluded
// from the profile section so they cannot shadow the system section.
func GenerateMerged(system []Entry, profileName string, entries []Entry) string {
	var b strings.Builder
	b.WriteString(banner)
	b.WriteString("\n\n")

	for _, e := range system {
		b.WriteString(renderEntry(e))
		b.WriteByte('\n')
	}

	fmt.Fprintf(&b, "\n# === profile: %s ===\n", profileName)
	for _, e := range entries {
		if e.IsSystemEntry() {
			continue
		}
		b.WriteString(renderEntry(e))
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "# === end profile: %s ===\n", profileName)

	return b.String()
}

// renderEntry renders "[# ]ip<TAB>host host... [# comment]". The "# " prefix
// marks a disabled entry.
func renderEntry(e Entry) string {
	var b strings.Builder
	if !e.Enabled {
		b.WriteString("# ")
	}
	b.WriteString(e.IP)
	b.WriteByte('\t')
	b.WriteString(strings.Join(e.Hostnames, " "))
	if e.Comment != "" {
		b.WriteString(" # ")
		b.WriteString(e.Comment)
	}
	return b.String()
}
