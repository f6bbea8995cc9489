package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/stephanjoseph/SaneHosts-sub000/internal/hostsfile"
	"github.com/stephanjoseph/SaneHosts-sub000/internal/ingest"
	"github.com/stephanjoseph/SaneHosts-sub000/internal/profile"
	"github.com/stephanjoseph/SaneHosts-sub000/internal/system"
)

// Service orchestrates the hosts engine against its collaborators: profile
// store, privileged writer, backups, DNS flush. Both the CLI and the HTTP API
// drive this type; it holds no state of its own beyond injected dependencies.
type Service struct {
	Log        *zap.Logger
	Store      *profile.Store
	Holder     *profile.Holder
	Fetcher    *ingest.Fetcher
	Writer     system.Writer
	Backups    *system.Backups
	HostsPath  string
	MaxRecords int
}

// ReadHosts parses the live hosts file.
func (s *Service) ReadHosts() ([]hostsfile.Line, error) {
	data, err := os.ReadFile(s.HostsPath)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.HostsPath, err)
	}
	return hostsfile.Parse(string(data)), nil
}

// Apply renders the named profile against the live file's system entries and
// writes the result: backup, write, DNS flush, in that order. The returned
// snapshot is also published through the holder.
func (s *Service) Apply(ctx context.Context, name string) (*profile.Applied, error) {
	p, err := s.Store.Get(name)
	if err != nil {
		return nil, err
	}

	sys, err := s.currentSystemEntries()
	if err != nil {
		return nil, err
	}

	content := hostsfile.GenerateMerged(sys, p.Name, p.Entries)

	backup, err := s.Backups.Create()
	if err != nil {
		return nil, fmt.Errorf("apply %q: %w", name, err)
	}
	if backup != "" {
		s.Log.Info("hosts file backed up", zap.String("backup", backup))
	}

	if err := s.Writer.Apply(ctx, content); err != nil {
		return nil, fmt.Errorf("apply %q: %w", name, err)
	}

	system.FlushDNS(ctx, s.Log)

	applied := &profile.Applied{
		ProfileName: p.Name,
		ContentSum:  profile.ContentSum(content),
		AppliedAt:   time.Now().UTC(),
	}
	s.Holder.Set(applied)
	s.Log.Info("profile applied",
		zap.String("profile", p.Name),
		zap.Int("entries", len(p.Entries)))
	return applied, nil
}

// currentSystemEntries extracts system entries from the live file, falling
// back to the platform defaults when the file has none (or cannot be read,
// e.g. on first run against an empty path).
func (s *Service) currentSystemEntries() ([]hostsfile.Entry, error) {
	lines, err := s.ReadHosts()
	if err != nil {
		// ReadHosts wraps, so unwrap-aware matching is required here.
		if errors.Is(err, fs.ErrNotExist) {
			return defaultSystemEntries(), nil
		}
		return nil, err
	}
	sys := hostsfile.SystemEntries(hostsfile.Entries(lines))
	if len(sys) == 0 {
		return defaultSystemEntries(), nil
	}
	return sys, nil
}

func defaultSystemEntries() []hostsfile.Entry {
	var out []hostsfile.Entry
	for _, d := range []struct {
		ip   string
		host string
	}{
		{"127.0.0.1", "localhost"},
		{"255.255.255.255", "broadcasthost"},
		{"::1", "localhost"},
	} {
		e, err := hostsfile.NewEntry(d.ip, []string{d.host}, "")
		if err != nil {
			panic(fmt.Sprintf("default system entry %s %s: %v", d.ip, d.host, err))
		}
		out = append(out, e)
	}
	return out
}

// Ingest downloads the declared sources, merges them first-wins in declared
// order, and saves the result as a profile. One source yields a remote
// profile (refreshable later); several yield a merged profile. The returned
// flag reports whether any source hit the record cap: a truncated ingestion
// is a partial success the caller must be able to show, not an error.
func (s *Service) Ingest(ctx context.Context, name string, sources []ingest.Source, maxRecords int) (profile.Profile, bool, error) {
	if maxRecords <= 0 {
		maxRecords = s.MaxRecords
	}
	opts := ingest.Options{MaxRecords: maxRecords}

	res, err := ingest.FetchAll(ctx, s.Fetcher, sources, opts)
	if err != nil {
		return profile.Profile{}, false, err
	}
	if res.Truncated {
		s.Log.Warn("ingestion truncated at record cap",
			zap.String("profile", name), zap.Int("cap", maxRecords))
	}

	prov := profile.Provenance{Kind: profile.SourceMerged, SourceCount: len(sources)}
	if len(sources) == 1 {
		prov = profile.Provenance{
			Kind:      profile.SourceRemote,
			URL:       sources[0].URL,
			FetchedAt: time.Now().UTC(),
		}
	}

	p, err := profile.New(name, prov)
	if err != nil {
		return profile.Profile{}, false, err
	}
	p = p.WithEntries(res.Merged())

	if err := s.Store.Save(p); err != nil {
		return profile.Profile{}, false, err
	}
	s.Log.Info("profile ingested",
		zap.String("profile", p.Name),
		zap.Int("sources", len(sources)),
		zap.Int("entries", len(p.Entries)),
		zap.Bool("truncated", res.Truncated))
	return p, res.Truncated, nil
}

// RefreshRemote re-downloads a remote profile's source and replaces its
// entries, keeping the profile's identity and creation time.
func (s *Service) RefreshRemote(ctx context.Context, p profile.Profile) (profile.Profile, error) {
	if p.Source.Kind != profile.SourceRemote || p.Source.URL == "" {
		return profile.Profile{}, fmt.Errorf("profile %q has no remote source", p.Name)
	}

	src := ingest.Source{Name: p.Name, URL: p.Source.URL}
	res, err := s.Fetcher.Fetch(ctx, src, ingest.Options{MaxRecords: s.MaxRecords})
	if err != nil {
		return profile.Profile{}, err
	}

	p = p.WithEntries(hostsfile.Merge(res.Entries))
	p.Source.FetchedAt = time.Now().UTC()
	if err := s.Store.Save(p); err != nil {
		return profile.Profile{}, err
	}
	return p, nil
}
