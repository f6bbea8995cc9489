package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddr != ":7233" {
		t.Errorf("HTTPAddr = %q", cfg.HTTPAddr)
	}
	if cfg.MaxRecords != 100_000 {
		t.Errorf("MaxRecords = %d", cfg.MaxRecords)
	}
	if !cfg.WatchHosts {
		t.Error("WatchHosts should default to true")
	}
	if cfg.RefreshInterval != 0 {
		t.Error("background refresh should be off by default")
	}
	if cfg.BackupDir == "" || cfg.ProfileDir == "" {
		t.Errorf("derived dirs empty: backup=%q profile=%q", cfg.BackupDir, cfg.ProfileDir)
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
http_addr = "127.0.0.1:9000"
hosts_path = "/tmp/hosts"
max_records = 5000
fetch_timeout = "45s"
refresh_interval = "6h"
watch_hosts = false
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddr != "127.0.0.1:9000" {
		t.Errorf("HTTPAddr = %q", cfg.HTTPAddr)
	}
	if cfg.HostsPath != "/tmp/hosts" {
		t.Errorf("HostsPath = %q", cfg.HostsPath)
	}
	if cfg.MaxRecords != 5000 {
		t.Errorf("MaxRecords = %d", cfg.MaxRecords)
	}
	if cfg.FetchTimeout != 45*time.Second {
		t.Errorf("FetchTimeout = %s", cfg.FetchTimeout)
	}
	if cfg.RefreshInterval != 6*time.Hour {
		t.Errorf("RefreshInterval = %s", cfg.RefreshInterval)
	}
	if cfg.WatchHosts {
		t.Error("watch_hosts = false not honored")
	}
	// backup dir derives from the overridden hosts path
	if cfg.BackupDir != filepath.Join("/tmp", "hosts_backups") {
		t.Errorf("BackupDir = %q", cfg.BackupDir)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`http_addr = ":1111"`+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SANEHOSTS_HTTP_ADDR", ":2222")
	t.Setenv("SANEHOSTS_MAX_RECORDS", "42")
	t.Setenv("SANEHOSTS_FETCH_TIMEOUT", "90s")
	t.Setenv("SANEHOSTS_WATCH_HOSTS", "false")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddr != ":2222" {
		t.Errorf("HTTPAddr = %q, env must beat file", cfg.HTTPAddr)
	}
	if cfg.MaxRecords != 42 {
		t.Errorf("MaxRecords = %d", cfg.MaxRecords)
	}
	if cfg.FetchTimeout != 90*time.Second {
		t.Errorf("FetchTimeout = %s", cfg.FetchTimeout)
	}
	if cfg.WatchHosts {
		t.Error("SANEHOSTS_WATCH_HOSTS=false not honored")
	}
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"negative max records", map[string]string{"SANEHOSTS_MAX_RECORDS": "-1"}},
		{"absurd max records", map[string]string{"SANEHOSTS_MAX_RECORDS": "99999999"}},
		{"bad max records", map[string]string{"SANEHOSTS_MAX_RECORDS": "lots"}},
		{"tiny refresh interval", map[string]string{"SANEHOSTS_REFRESH_INTERVAL": "5s"}},
		{"bad refresh interval", map[string]string{"SANEHOSTS_REFRESH_INTERVAL": "soonish"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(""); err == nil {
				t.Error("Load accepted invalid configuration")
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Error("Load accepted a named but missing config file")
	}
}
