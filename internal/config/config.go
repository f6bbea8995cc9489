package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/stephanjoseph/SaneHosts-sub000/internal/system"
)

// Config is the resolved runtime configuration. Values come from defaults,
// then an optional TOML file, then SANEHOSTS_* environment overrides.
type Config struct {
	HTTPAddr        string
	HostsPath       string
	BackupDir       string
	ProfileDir      string
	MaxRecords      int
	FetchTimeout    time.Duration
	RefreshInterval time.Duration // 0 disables background refresh of remote profiles
	WatchHosts      bool
}

// fileConfig is the TOML shape. Durations are strings so the file reads
// "30m", not nanosecond integers.
type fileConfig struct {
	HTTPAddr        string `toml:"http_addr"`
	HostsPath       string `toml:"hosts_path"`
	BackupDir       string `toml:"backup_dir"`
	ProfileDir      string `toml:"profile_dir"`
	MaxRecords      int    `toml:"max_records"`
	FetchTimeout    string `toml:"fetch_timeout"`
	RefreshInterval string `toml:"refresh_interval"`
	WatchHosts      *bool  `toml:"watch_hosts"`
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Load resolves configuration. path may be empty, in which case only
// defaults and the environment apply; a named file that does not exist is an
// error.
func Load(path string) (Config, error) {
	cfg := Config{
		HTTPAddr:     ":7233",
		HostsPath:    system.HostsPath(),
		MaxRecords:   100_000,
		FetchTimeout: 2 * time.Minute,
		WatchHosts:   true,
	}

	if path != "" {
		var fc fileConfig
		if _, err := toml.DecodeFile(path, &fc); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := applyFile(&cfg, fc); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	if cfg.BackupDir == "" {
		cfg.BackupDir = filepath.Join(filepath.Dir(cfg.HostsPath), "hosts_backups")
	}
	if cfg.ProfileDir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return Config{}, fmt.Errorf("resolve config dir: %w", err)
		}
		cfg.ProfileDir = filepath.Join(base, "sanehosts", "profiles")
	}

	if err := validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyFile(cfg *Config, fc fileConfig) error {
	if fc.HTTPAddr != "" {
		cfg.HTTPAddr = fc.HTTPAddr
	}
	if fc.HostsPath != "" {
		cfg.HostsPath = fc.HostsPath
	}
	if fc.BackupDir != "" {
		cfg.BackupDir = fc.BackupDir
	}
	if fc.ProfileDir != "" {
		cfg.ProfileDir = fc.ProfileDir
	}
	if fc.MaxRecords != 0 {
		cfg.MaxRecords = fc.MaxRecords
	}
	if fc.FetchTimeout != "" {
		d, err := time.ParseDuration(fc.FetchTimeout)
		if err != nil {
			return fmt.Errorf("invalid fetch_timeout %q: %w", fc.FetchTimeout, err)
		}
		cfg.FetchTimeout = d
	}
	if fc.RefreshInterval != "" {
		d, err := time.ParseDuration(fc.RefreshInterval)
		if err != nil {
			return fmt.Errorf("invalid refresh_interval %q: %w", fc.RefreshInterval, err)
		}
		cfg.RefreshInterval = d
	}
	if fc.WatchHosts != nil {
		cfg.WatchHosts = *fc.WatchHosts
	}
	return nil
}

func applyEnv(cfg *Config) error {
	cfg.HTTPAddr = getenv("SANEHOSTS_HTTP_ADDR", cfg.HTTPAddr)
	cfg.HostsPath = getenv("SANEHOSTS_HOSTS_PATH", cfg.HostsPath)
	cfg.BackupDir = getenv("SANEHOSTS_BACKUP_DIR", cfg.BackupDir)
	cfg.ProfileDir = getenv("SANEHOSTS_PROFILE_DIR", cfg.ProfileDir)

	if v := os.Getenv("SANEHOSTS_MAX_RECORDS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid SANEHOSTS_MAX_RECORDS=%q: %w", v, err)
		}
		cfg.MaxRecords = n
	}
	if v := os.Getenv("SANEHOSTS_FETCH_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid SANEHOSTS_FETCH_TIMEOUT=%q: %w", v, err)
		}
		cfg.FetchTimeout = d
	}
	if v := os.Getenv("SANEHOSTS_REFRESH_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid SANEHOSTS_REFRESH_INTERVAL=%q: %w", v, err)
		}
		cfg.RefreshInterval = d
	}
	if v := os.Getenv("SANEHOSTS_WATCH_HOSTS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid SANEHOSTS_WATCH_HOSTS=%q: %w", v, err)
		}
		cfg.WatchHosts = b
	}
	return nil
}

func validate(cfg Config) error {
	if cfg.MaxRecords < 1 {
		return fmt.Errorf("max_records must be positive, got %d", cfg.MaxRecords)
	}
	if cfg.MaxRecords > 5_000_000 {
		return fmt.Errorf("max_records too large (%d), must be <=5000000", cfg.MaxRecords)
	}
	if cfg.FetchTimeout < time.Second {
		return fmt.Errorf("fetch_timeout too small (%s), must be >=1s", cfg.FetchTimeout)
	}
	if cfg.RefreshInterval != 0 && cfg.RefreshInterval < time.Minute {
		return fmt.Errorf("refresh_interval too small (%s), must be >=1m or 0", cfg.RefreshInterval)
	}
	if cfg.HostsPath == "" {
		return fmt.Errorf("hosts_path must not be empty")
	}
	return nil
}
