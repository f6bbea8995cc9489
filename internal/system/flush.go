package system

import (
	"context"
	"os/exec"
	"runtime"

	"go.uber.org/zap"
)

// FlushDNS asks the OS to drop its DNS cache so a freshly written hosts file
// takes effect immediately. Invoked only after a successful write. Failures
// are logged, not propagated: a stale cache expires on its own.
func FlushDNS(ctx context.Context, log *zap.Logger) {
	var cmds [][]string
	switch runtime.GOOS {
	case "darwin":
		cmds = [][]string{
			{"dscacheutil", "-flushcache"},
			{"killall", "-HUP", "mDNSResponder"},
		}
	case "linux":
		// resolvectl on current systemd, systemd-resolve on older ones.
		cmds = [][]string{
			{"resolvectl", "flush-caches"},
			{"systemd-resolve", "--flush-caches"},
		}
	case "windows":
		cmds = [][]string{
			{"ipconfig", "/flushdns"},
		}
	default:
		return
	}

	for _, c := range cmds {
		cmd := exec.CommandContext(ctx, c[0], c[1:]...)
		if err := cmd.Run(); err != nil {
			log.Debug("dns flush command failed",
				zap.Strings("cmd", c), zap.Error(err))
			continue
		}
		if runtime.GOOS == "linux" {
			// One of the two linux variants succeeding is enough.
			return
		}
	}
}
