package system

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const backupPrefix = "hosts.bak."

// BackupInfo describes one stored backup file.
type BackupInfo struct {
	Name     string    `json:"name"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified"`
}

// Backups manages timestamped copies of the hosts file. A backup is taken
// before every write so a bad profile switch is always recoverable.
type Backups struct {
	HostsFile string
	Dir       string
}

// Create copies the current hosts file into the backup directory. On a first
// run with no hosts file yet there is nothing to preserve; Create returns an
// empty name and no error.
func (b *Backups) Create() (string, error) {
	if _, err := os.Stat(b.HostsFile); os.IsNotExist(err) {
		return "", nil
	}
	if err := os.MkdirAll(b.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create backup dir: %w", err)
	}
	name := backupPrefix + time.Now().Format("20060102-150405")
	dst := filepath.Join(b.Dir, name)
	if err := copyFile(b.HostsFile, dst); err != nil {
		return "", fmt.Errorf("backup %s: %w", b.HostsFile, err)
	}
	return name, nil
}

// List returns known backups, newest first.
func (b *Backups) List() ([]BackupInfo, error) {
	files, err := os.ReadDir(b.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read backup dir: %w", err)
	}

	var backups []BackupInfo
	for _, f := range files {
		if !strings.HasPrefix(f.Name(), backupPrefix) {
			continue
		}
		info, err := f.Info()
		if err != nil {
			continue
		}
		backups = append(backups, BackupInfo{
			Name:     f.Name(),
			Size:     info.Size(),
			Modified: info.ModTime(),
		})
	}
	sort.Slice(backups, func(i, j int) bool {
		return backups[i].Modified.After(backups[j].Modified)
	})
	return backups, nil
}

// Restore copies a backup over the hosts file.
func (b *Backups) Restore(name string) error {
	src := name
	if !filepath.IsAbs(name) {
		src = filepath.Join(b.Dir, filepath.Base(name))
	}
	if err := copyFile(src, b.HostsFile); err != nil {
		return fmt.Errorf("restore %s: %w", name, err)
	}
	return nil
}

func copyFile(src, dst string) error {
	s, err := os.Open(src)
	if err != nil {
		return err
	}
	defer s.Close()
	d, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer d.Close()
	if _, err := io.Copy(d, s); err != nil {
		return err
	}
	return d.Sync()
}
