// Package ingest consumes untrusted hosts-format text streams, typically
// remote blocklists with hundreds of thousands of lines, without holding the
// raw text in memory.
package ingest

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/idna"

	"github.com/stephanjoseph/SaneHosts-sub000/internal/hostsfile"
)

// DefaultMaxRecords caps how many entries a single source may contribute.
const DefaultMaxRecords = 100_000

// checkInterval bounds how many lines may pass between cancellation checks
// and progress callbacks.
const checkInterval = 1000

// maxLineBytes bounds a single input line; anything longer is hostile input.
const maxLineBytes = 64 * 1024

// Hostnames a remote list is never allowed to redefine. Broader than the
// system-entry set on purpose: blocklists must not reach localhost in any
// spelling.
var reservedHostnames = map[string]struct{}{
	"localhost":             {},
	"localhost.localdomain": {},
	"local":                 {},
	"broadcasthost":         {},
}

// sentinelIP is synthesized for domain-only lines: blocklist format implies
// block-via-null-route.
const sentinelIP = "0.0.0.0"

// Options tunes a single scan.
type Options struct {
	// MaxRecords caps accepted entries; zero means DefaultMaxRecords.
	MaxRecords int
	// Progress, when set, is invoked with the processed-line count at a
	// bounded interval. Observability only; it must not block.
	Progress func(processed int)
}

// Result is the outcome of one scan.
type Result struct {
	Entries   []hostsfile.Entry
	Processed int  // lines read, including skipped ones
	Skipped   int  // non-blank lines that produced no entry
	Truncated bool // record cap was hit; remainder of the source unread
}

// Scan reads hosts-format text line by line and returns the accepted entries.
// The grammar is a relaxed superset of the hosts format: a single-token line
// containing a dot is shorthand for "0.0.0.0 <domain>". Comments and blank
// lines are skipped. Scanning stops early, without error, once the record cap
// is reached. Cancellation of ctx is observed at a bounded interval and
// surfaces as ErrCanceled.
func Scan(ctx context.Context, r io.Reader, opts Options) (*Result, error) {
	max := opts.MaxRecords
	if max <= 0 {
		max = DefaultMaxRecords
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLineBytes)

	res := &Result{}
	for sc.Scan() {
		res.Processed++
		if res.Processed%checkInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("after %d lines: %w", res.Processed, ErrCanceled)
			}
			if opts.Progress != nil {
				opts.Progress(res.Processed)
			}
		}

		e, ok := scanLine(sc.Text())
		if !ok {
			res.Skipped++
			continue
		}
		res.Entries = append(res.Entries, e)

		if len(res.Entries) >= max {
			res.Truncated = true
			break
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("after %d lines: %w", res.Processed, ErrCanceled)
	}

	if opts.Progress != nil {
		opts.Progress(res.Processed)
	}
	if len(res.Entries) == 0 {
		return nil, fmt.Errorf("%d lines scanned: %w", res.Processed, ErrNoEntries)
	}
	return res, nil
}

// scanLine applies the two-shape grammar to one line. ok=false means the line
// contributed nothing: blank, comment, malformed, or entirely reserved.
func scanLine(raw string) (hostsfile.Entry, bool) {
	line := strings.TrimSpace(raw)
	if line == "" || strings.HasPrefix(line, "#") {
		return hostsfile.Entry{}, false
	}
	// Inline comments are discarded; remote lists carry no user metadata
	// worth keeping.
	if i := strings.Index(line, "#"); i >= 0 {
		line = strings.TrimSpace(line[:i])
		if line == "" {
			return hostsfile.Entry{}, false
		}
	}

	fields := strings.Fields(line)

	if len(fields) == 1 {
		// Domain-only shorthand, common in adblock-style lists.
		h, ok := normalizeHostname(fields[0])
		if !ok || !strings.Contains(h, ".") {
			return hostsfile.Entry{}, false
		}
		if _, reserved := reservedHostnames[h]; reserved {
			return hostsfile.Entry{}, false
		}
		e, err := hostsfile.NewEntry(sentinelIP, []string{h}, "")
		if err != nil {
			return hostsfile.Entry{}, false
		}
		return e, true
	}

	if !hostsfile.IsValidIP(fields[0]) {
		return hostsfile.Entry{}, false
	}

	hostnames := make([]string, 0, len(fields)-1)
	for _, f := range fields[1:] {
		h, ok := normalizeHostname(f)
		if !ok {
			continue
		}
		if _, reserved := reservedHostnames[h]; reserved {
			continue
		}
		hostnames = append(hostnames, h)
	}
	if len(hostnames) == 0 {
		return hostsfile.Entry{}, false
	}

	e, err := hostsfile.NewEntry(fields[0], hostnames, "")
	if err != nil {
		return hostsfile.Entry{}, false
	}
	return e, true
}

// normalizeHostname lowercases a candidate hostname, converting
// internationalized names to punycode first, and validates the result.
func normalizeHostname(raw string) (string, bool) {
	raw = strings.TrimSuffix(raw, ".")
	if raw == "" {
		return "", false
	}

	if !isASCII(raw) {
		ascii, err := idna.Lookup.ToASCII(raw)
		if err != nil {
			return "", false
		}
		raw = ascii
	}

	h := strings.ToLower(raw)
	if !hostsfile.IsValidHostname(h) {
		return "", false
	}
	return h, true
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
