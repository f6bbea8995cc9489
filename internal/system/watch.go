package system

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/stephanjoseph/SaneHosts-sub000/internal/profile"
)

// Watcher observes the hosts file and reports when something other than us
// rewrites it, by comparing the file's checksum against the last applied
// snapshot. Detection only; it never writes.
type Watcher struct {
	Path   string
	Holder *profile.Holder
	Log    *zap.Logger
}

// Run blocks until ctx is canceled. Editors replace files rather than write
// in place, so the parent directory is watched and events are filtered by
// name.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(filepath.Dir(w.Path)); err != nil {
		return fmt.Errorf("watch %s: %w", w.Path, err)
	}
	w.Log.Info("watching hosts file for external changes", zap.String("path", w.Path))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != filepath.Clean(w.Path) {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			w.checkDrift()

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.Log.Warn("hosts watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) checkDrift() {
	applied := w.Holder.Get()
	if applied.ContentSum == "" {
		// Nothing applied yet this run; any state is acceptable.
		return
	}
	data, err := os.ReadFile(w.Path)
	if err != nil {
		w.Log.Warn("hosts file unreadable after change event", zap.Error(err))
		return
	}
	if profile.ContentSum(string(data)) == applied.ContentSum {
		return
	}
	w.Log.Warn("hosts file changed outside of this tool",
		zap.String("active_profile", applied.ProfileName),
		zap.Time("applied_at", applied.AppliedAt))
}
