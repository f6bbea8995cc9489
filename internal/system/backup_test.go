package system

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestFileWriter_Atomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hosts")
	w := &FileWriter{Path: path}

	if err := w.Apply(context.Background(), "127.0.0.1\tlocalhost\n"); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "127.0.0.1\tlocalhost\n" {
		t.Errorf("content = %q", data)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file left behind")
	}

	// Overwrite replaces, never appends.
	if err := w.Apply(context.Background(), "::1\tlocalhost\n"); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	data, _ = os.ReadFile(path)
	if string(data) != "::1\tlocalhost\n" {
		t.Errorf("content after rewrite = %q", data)
	}
}

func TestFileWriter_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w := &FileWriter{Path: filepath.Join(t.TempDir(), "hosts")}
	if err := w.Apply(ctx, "data"); err == nil {
		t.Error("Apply succeeded with canceled context")
	}
}

func TestBackups_CreateListRestore(t *testing.T) {
	dir := t.TempDir()
	hosts := filepath.Join(dir, "hosts")
	if err := os.WriteFile(hosts, []byte("original\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	b := &Backups{HostsFile: hosts, Dir: filepath.Join(dir, "backups")}

	name, err := b.Create()
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	list, err := b.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 || list[0].Name != name {
		t.Fatalf("List = %+v, want the one backup", list)
	}

	// Clobber the hosts file, then restore.
	if err := os.WriteFile(hosts, []byte("clobbered\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := b.Restore(name); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	data, _ := os.ReadFile(hosts)
	if string(data) != "original\n" {
		t.Errorf("restored content = %q", data)
	}
}

func TestBackups_ListEmptyDir(t *testing.T) {
	b := &Backups{
		HostsFile: "/nonexistent/hosts",
		Dir:       filepath.Join(t.TempDir(), "never-created"),
	}
	list, err := b.List()
	if err != nil {
		t.Fatalf("List on missing dir: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("List = %+v, want empty", list)
	}
}

func TestBackups_CreateMissingHostsFile(t *testing.T) {
	dir := t.TempDir()
	b := &Backups{
		HostsFile: filepath.Join(dir, "hosts"),
		Dir:       filepath.Join(dir, "backups"),
	}
	name, err := b.Create()
	if err != nil {
		t.Fatalf("Create with no hosts file: %v", err)
	}
	if name != "" {
		t.Errorf("name = %q, want empty when nothing was backed up", name)
	}
}
