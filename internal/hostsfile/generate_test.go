package hostsfile

import (
	"strings"
	"testing"
)

func TestGenerate_EntryRendering(t *testing.T) {
	e := mustEntry(t, "192.168.1.1", []string{"server", "server.lan"}, "the box")
	lines := []Line{{Kind: LineEntry, Entry: e, Number: 1}}

	got := Generate(lines)
	want := "192.168.1.1\tserver server.lan # the box\n"
	if got != want {
		t.Errorf("Generate = %q, want %q", got, want)
	}
}

func TestGenerate_DisabledEntry(t *testing.T) {
	e := mustEntry(t, "127.0.0.1", []string{"blocked.com"}, "")
	e = e.WithEnabled(false)

	got := Generate([]Line{{Kind: LineEntry, Entry: e}})
	if !strings.HasPrefix(got, "# 127.0.0.1") {
		t.Errorf("disabled entry rendered as %q, want leading %q", got, "# 127.0.0.1")
	}

	// And it must come back as a disabled entry, not a comment.
	back := Parse(got)
	if len(back) != 1 || back[0].Kind != LineEntry || back[0].Entry.Enabled {
		t.Errorf("disabled entry did not round-trip: %+v", back)
	}
}

func TestGenerateMerged_Structure(t *testing.T) {
	sys := []Entry{
		mustEntry(t, "127.0.0.1", []string{"localhost"}, ""),
		mustEntry(t, "255.255.255.255", []string{"broadcasthost"}, ""),
	}
	entries := []Entry{
		mustEntry(t, "0.0.0.0", []string{"ads.example.com"}, ""),
		mustEntry(t, "10.0.0.1", []string{"dev.example.com"}, "").WithEnabled(false),
	}

	out := GenerateMerged(sys, "adblock", entries)

	wantOrder := []string{
		"# Managed by SaneHosts",
		"127.0.0.1\tlocalhost",
		"255.255.255.255\tbroadcasthost",
		"# === profile: adblock ===",
		"0.0.0.0\tads.example.com",
		"# 10.0.0.1\tdev.example.com",
		"# === end profile: adblock ===",
	}
	pos := -1
	for _, marker := range wantOrder {
		i := strings.Index(out, marker)
		if i < 0 {
			t.Fatalf("output missing %q:\n%s", marker, out)
		}
		if i < pos {
			t.Fatalf("%q out of order:\n%s", marker, out)
		}
		pos = i
	}
}

func TestGenerateMerged_FiltersSystemFromProfile(t *testing.T) {
	sys := []Entry{mustEntry(t, "127.0.0.1", []string{"localhost"}, "")}
	entries := []Entry{
		mustEntry(t, "127.0.0.1", []string{"localhost"}, "sneaky duplicate"),
		mustEntry(t, "10.0.0.1", []string{"app.lan"}, ""),
	}

	out := GenerateMerged(sys, "dev", entries)
	if strings.Count(out, "localhost") != 1 {
		t.Errorf("system entry duplicated in profile section:\n%s", out)
	}
	if !strings.Contains(out, "app.lan") {
		t.Errorf("non-system profile entry missing:\n%s", out)
	}
}

func TestGenerateMerged_Deterministic(t *testing.T) {
	sys := []Entry{mustEntry(t, "127.0.0.1", []string{"localhost"}, "")}
	entries := []Entry{mustEntry(t, "0.0.0.0", []string{"x.com"}, "")}

	a := GenerateMerged(sys, "p", entries)
	b := GenerateMerged(sys, "p", entries)
	if a != b {
		t.Error("identical inputs produced different bytes")
	}
}

func TestGenerate_BlankAndComment(t *testing.T) {
	lines := []Line{
		{Kind: LineComment, Comment: "header"},
		{Kind: LineBlank},
	}
	got := Generate(lines)
	if got != "# header\n\n" {
		t.Errorf("Generate = %q", got)
	}
}

func TestGenerate_BareHashComment(t *testing.T) {
	// A "#" line parses to an empty comment and must render without a
	// trailing space.
	got := Generate([]Line{{Kind: LineComment, Comment: ""}})
	if got != "#\n" {
		t.Errorf("Generate = %q, want %q", got, "#\n")
	}

	once := Generate(Parse("#\n"))
	if once != "#\n" {
		t.Errorf("bare hash did not round-trip: %q", once)
	}
}
