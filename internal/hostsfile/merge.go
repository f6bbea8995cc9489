package hostsfile

import (
	"sort"
	"strings"
)

// SystemEntries returns the entries the OS depends on, preserving order.
func SystemEntries(entries []Entry) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.IsSystemEntry() {
			out = append(out, e)
		}
	}
	return out
}

// UserEntries returns the complement of SystemEntries, preserving order.
func UserEntries(entries []Entry) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if !e.IsSystemEntry() {
			out = append(out, e)
		}
	}
	return out
}

// Merge combines collections into one, keeping the first occurrence of each
// hostname set. Two entries with the same set of hostnames are duplicates
// regardless of hostname order, IP, or comment; the later entry is discarded
// wholesale. The result is deterministic in collection order, so callers
// combining concurrently fetched sources must pass them in declaration order,
// not completion order.
func Merge(collections ...[]Entry) []Entry {
	total := 0
	for _, c := range collections {
		total += len(c)
	}

	seen := make(map[string]struct{}, total)
	merged := make([]Entry, 0, total)
	for _, c := range collections {
		for _, e := range c {
			key := dedupKey(e)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			merged = append(merged, e)
		}
	}
	return merged
}

// dedupKey is the sorted, comma-joined hostname set of an entry.
func dedupKey(e Entry) string {
	if len(e.Hostnames) == 1 {
		return e.Hostnames[0]
	}
	hosts := append([]string(nil), e.Hostnames...)
	sort.Strings(hosts)
	return strings.Join(hosts, ",")
}
