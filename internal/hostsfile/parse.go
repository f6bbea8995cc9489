package hostsfile

import "strings"

// LineKind discriminates the variants of Line.
type LineKind int

const (
	LineBlank LineKind = iota
	LineComment
	LineEntry
)

// Line is one classified line of a hosts file. Exactly one of Entry or
// Comment is meaningful, selected by Kind; Blank lines carry neither.
type Line struct {
	Kind    LineKind
	Entry   Entry
	Comment string
	Number  int
}

// invalidMarker prefixes comments that preserve lines we could not parse.
// Nothing from the input is ever silently dropped.
const invalidMarker = "[invalid]"

// Parse splits content into lines on any newline convention and classifies
// each one. Line numbers are 1-based. No state is shared between invocations.
func Parse(content string) []Line {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	raw := strings.Split(content, "\n")
	// A trailing newline is file termination, not an extra blank line.
	if n := len(raw); n > 1 && raw[n-1] == "" {
		raw = raw[:n-1]
	}

	lines := make([]Line, 0, len(raw))
	for i, s := range raw {
		lines = append(lines, ClassifyLine(s, i+1))
	}
	return lines
}

// ClassifyLine decides whether a raw line is blank, a comment, an entry, or a
// disabled entry (a valid entry line behind a leading "#"). Lines that are
// none of these are retained as comments tagged with invalidMarker.
func ClassifyLine(raw string, number int) Line {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Line{Kind: LineBlank, Number: number}
	}

	if strings.HasPrefix(trimmed, "#") {
		rest := strings.TrimSpace(trimmed[1:])
		// "# 127.0.0.1 some.host" is a disabled entry, not prose. The
		// lookahead is deliberately shallow: a leading digit or colon.
		if looksLikeEntry(rest) {
			if e, ok := parseEntry(rest, false, number); ok {
				return Line{Kind: LineEntry, Entry: e, Number: number}
			}
		}
		return Line{Kind: LineComment, Comment: rest, Number: number}
	}

	if e, ok := parseEntry(trimmed, true, number); ok {
		return Line{Kind: LineEntry, Entry: e, Number: number}
	}
	return Line{
		Kind:    LineComment,
		Comment: invalidMarker + " " + trimmed,
		Number:  number,
	}
}

func looksLikeEntry(s string) bool {
	if s == "" {
		return false
	}
	c := s[0]
	return (c >= '0' && c <= '9') || c == ':'
}

// parseEntry parses "ip host [host...] [# comment]". It reports ok=false when
// the ip is invalid, fewer than two tokens are present, or no hostname
// survives validation.
func parseEntry(s string, enabled bool, number int) (Entry, bool) {
	var comment string
	if i := strings.Index(s, "#"); i >= 0 {
		comment = strings.TrimSpace(s[i+1:])
		s = strings.TrimSpace(s[:i])
	}

	fields := strings.Fields(s)
	if len(fields) < 2 {
		return Entry{}, false
	}
	if !IsValidIP(fields[0]) {
		return Entry{}, false
	}

	hostnames := make([]string, 0, len(fields)-1)
	for _, h := range fields[1:] {
		if IsValidHostname(h) {
			hostnames = append(hostnames, h)
		}
	}
	if len(hostnames) == 0 {
		return Entry{}, false
	}

	e, err := NewEntry(fields[0], hostnames, comment)
	if err != nil {
		return Entry{}, false
	}
	e.Enabled = enabled
	e.LineNumber = number
	return e, true
}

// Entries extracts the entries of a classified line sequence, preserving
// order.
func Entries(lines []Line) []Entry {
	var entries []Entry
	for _, l := range lines {
		if l.Kind == LineEntry {
			entries = append(entries, l.Entry)
		}
	}
	return entries
}
