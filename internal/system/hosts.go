// Package system wraps the collaborators around the hosts engine: the
// privileged file write, backups, DNS cache flushing, and change watching.
// The engine itself only produces strings; everything OS-facing lives here.
package system

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// HostsPath returns the platform's hosts file location.
func HostsPath() string {
	if runtime.GOOS == "windows" {
		windir := os.Getenv("SystemRoot")
		if windir == "" {
			windir = `C:\Windows`
		}
		return filepath.Join(windir, "System32", "drivers", "etc", "hosts")
	}
	return "/etc/hosts"
}

// Writer is the privileged-write sink: it accepts final, already-composed
// file content. Implementations do not validate or rewrite the content.
type Writer interface {
	Apply(ctx context.Context, content string) error
}

// FileWriter writes content atomically to a fixed path via a temp file and
// rename. The process must already hold sufficient privileges; elevation is
// someone else's job.
type FileWriter struct {
	Path string
}

func (w *FileWriter) Apply(ctx context.Context, content string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tmp := w.Path + ".tmp"
	if err := os.WriteFile(tmp, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, w.Path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace %s: %w", w.Path, err)
	}
	return nil
}
