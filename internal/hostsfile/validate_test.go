package hostsfile

import (
	"strings"
	"testing"
)

func TestIsValidIP(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"127.0.0.1", true},
		{"0.0.0.0", true},
		{"255.255.255.255", true},
		{"192.168.1.1", true},
		{"::1", true},
		{"::", true},
		{"fe80::1", true},
		{"2001:db8:85a3::8a2e:370:7334", true},
		{"2001:0db8:0000:0000:0000:0000:0000:0001", true},

		{"", false},
		{"256.0.0.1", false},
		{"127.0.0", false},
		{"127.0.0.1.1", false},
		{"1.2.3.4444", false},
		{"gggg::1", false},
		{"1::2::3", false},
		{"12345::1", false},
		{"1:2:3:4:5:6:7:8:9", false},
		{"1:2:3:4:5:6:7", false},
		{"not-an-ip", false},
	}
	for _, tt := range tests {
		if got := IsValidIP(tt.in); got != tt.want {
			t.Errorf("IsValidIP(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestIsValidHostname(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"localhost", true},
		{"example.com", true},
		{"sub.domain.example.com", true},
		{"my-server", true},
		{"0x0.at", true},
		{strings.Repeat("a", 63), true},

		{"", false},
		{"-invalid", false},
		{"has space", false},
		{"trailing.", false},
		{"under_score", false},
		{strings.Repeat("a", 64), false},
		{strings.Repeat("a", 254), false},
	}
	for _, tt := range tests {
		if got := IsValidHostname(tt.in); got != tt.want {
			t.Errorf("IsValidHostname(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestIsValidHostname_MaxLength(t *testing.T) {
	// 253 characters of dotted labels is the ceiling; 254 is over it.
	label := strings.Repeat("a", 62) + "."
	long := strings.Repeat(label, 4) + "ab" // 4*63 + 2 = 254 chars
	if len(long) != 254 {
		t.Fatalf("fixture length = %d, want 254", len(long))
	}
	if IsValidHostname(long) {
		t.Errorf("IsValidHostname accepted %d-char name", len(long))
	}
	if !IsValidHostname(long[:253]) {
		t.Errorf("IsValidHostname rejected 253-char name")
	}
}
