package hostsfile

import "strings"

const (
	maxHostnameLen = 253
	maxLabelLen    = 63
)

// IsValidIP reports whether s is a syntactically valid IPv4 or IPv6 address.
func IsValidIP(s string) bool {
	if strings.Contains(s, ":") {
		return isValidIPv6(s)
	}
	return isValidIPv4(s)
}

// isValidIPv4 accepts exactly four dot-separated decimal groups in 0..255.
func isValidIPv4(s string) bool {
	groups := strings.Split(s, ".")
	if len(groups) != 4 {
		return false
	}
	for _, g := range groups {
		if len(g) == 0 || len(g) > 3 {
			return false
		}
		n := 0
		for i := 0; i < len(g); i++ {
			c := g[i]
			if c < '0' || c > '9' {
				return false
			}
			n = n*10 + int(c-'0')
		}
		if n > 255 {
			return false
		}
	}
	return true
}

// isValidIPv6 accepts colon-separated groups of at most 4 hex digits with at
// most one "::" compression. Without compression exactly 8 groups are
// required; with it, fewer than 8.
func isValidIPv6(s string) bool {
	var halves []string
	if i := strings.Index(s, "::"); i >= 0 {
		if strings.Contains(s[i+2:], "::") {
			return false
		}
		halves = []string{s[:i], s[i+2:]}
	} else {
		halves = []string{s}
	}

	groups := 0
	for _, half := range halves {
		if half == "" {
			continue
		}
		for _, g := range strings.Split(half, ":") {
			if !isHexGroup(g) {
				return false
			}
			groups++
		}
	}

	if len(halves) == 2 {
		return groups < 8
	}
	return groups == 8
}

func isHexGroup(g string) bool {
	if len(g) == 0 || len(g) > 4 {
		return false
	}
	for i := 0; i < len(g); i++ {
		c := g[i]
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

// IsValidHostname checks a hostname against DNS label rules: total length at
// most 253, dot-separated labels of 1..63 characters, labels start with an
// alphanumeric and contain only alphanumerics and hyphens.
func IsValidHostname(s string) bool {
	if len(s) == 0 || len(s) > maxHostnameLen {
		return false
	}
	for _, label := range strings.Split(s, ".") {
		if !isValidLabel(label) {
			return false
		}
	}
	return true
}

func isValidLabel(label string) bool {
	if len(label) == 0 || len(label) > maxLabelLen {
		return false
	}
	if !isAlphanumeric(label[0]) {
		return false
	}
	for i := 1; i < len(label); i++ {
		if !isAlphanumeric(label[i]) && label[i] != '-' {
			return false
		}
	}
	return true
}

func isAlphanumeric(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
