package app

import (
	"context"
	"math"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/stephanjoseph/SaneHosts-sub000/internal/profile"
)

// RefreshConfig tunes the background refresh of remote-sourced profiles.
type RefreshConfig struct {
	Interval       time.Duration // base refresh interval; <=0 disables
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// StartRefresher re-downloads remote profiles on an interval until the
// context stops. Failures back off exponentially with jitter so a flapping
// source does not get hammered. The refreshed entries are saved to the store;
// an active profile is not re-applied automatically.
func StartRefresher(ctx context.Context, cfg RefreshConfig, svc *Service) error {
	if cfg.Interval <= 0 {
		return nil
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = 30 * time.Second
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = 30 * time.Minute
	}

	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	var consecutiveFailures int

	for {
		select {
		case <-ctx.Done():
			svc.Log.Info("refresher stopped", zap.Error(ctx.Err()))
			return ctx.Err()

		case <-ticker.C:
			if err := refreshOnce(ctx, svc); err != nil {
				consecutiveFailures++
				backoff := calcBackoff(cfg.InitialBackoff, cfg.MaxBackoff, consecutiveFailures)
				svc.Log.Warn("refresh failed",
					zap.Int("attempt", consecutiveFailures),
					zap.Duration("backoff", backoff),
					zap.Error(err))

				timer := time.NewTimer(backoff)
				select {
				case <-ctx.Done():
					timer.Stop()
					return ctx.Err()
				case <-timer.C:
				}
				continue
			}

			if consecutiveFailures > 0 {
				svc.Log.Info("refresh recovered",
					zap.Int("failures", consecutiveFailures))
			}
			consecutiveFailures = 0
		}
	}
}

func calcBackoff(initial, max time.Duration, failures int) time.Duration {
	pow := math.Pow(2, float64(failures-1))
	backoff := time.Duration(float64(initial) * pow)
	if backoff > max {
		backoff = max
	}

	// Jitter avoids synchronized retries across instances.
	jitterFrac := 0.2
	jitter := time.Duration(rand.Float64()*2*jitterFrac*float64(backoff)) -
		time.Duration(jitterFrac*float64(backoff))

	return backoff + jitter
}

// refreshOnce re-ingests every remote profile. The last error wins; earlier
// failures are logged per profile.
func refreshOnce(ctx context.Context, svc *Service) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Minute)
	defer cancel()

	summaries, err := svc.Store.List()
	if err != nil {
		return err
	}

	var lastErr error
	for _, sum := range summaries {
		if sum.Kind != profile.SourceRemote {
			continue
		}
		p, err := svc.Store.Get(sum.Name)
		if err != nil {
			lastErr = err
			continue
		}
		if _, err := svc.RefreshRemote(ctx, p); err != nil {
			svc.Log.Warn("remote profile refresh failed",
				zap.String("profile", p.Name),
				zap.String("url", p.Source.URL),
				zap.Error(err))
			lastErr = err
			continue
		}
		svc.Log.Info("remote profile refreshed", zap.String("profile", p.Name))
	}
	return lastErr
}
