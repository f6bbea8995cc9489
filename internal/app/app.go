package app

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/stephanjoseph/SaneHosts-sub000/internal/config"
	"github.com/stephanjoseph/SaneHosts-sub000/internal/ingest"
	"github.com/stephanjoseph/SaneHosts-sub000/internal/profile"
	"github.com/stephanjoseph/SaneHosts-sub000/internal/system"
	transport "github.com/stephanjoseph/SaneHosts-sub000/internal/transport/http"
)

// Run wires the service together and blocks until the context stops or a
// component fails.
func Run(ctx context.Context, cfg config.Config, log *zap.Logger) error {
	svc, err := NewService(cfg, log)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)

	srv := &transport.Server{
		Log:    log,
		Store:  svc.Store,
		Holder: svc.Holder,
		Svc:    svc,
	}
	g.Go(func() error {
		return srv.Run(ctx, cfg.HTTPAddr)
	})

	if cfg.WatchHosts {
		w := &system.Watcher{
			Path:   cfg.HostsPath,
			Holder: svc.Holder,
			Log:    log,
		}
		g.Go(func() error {
			return w.Run(ctx)
		})
	}

	if cfg.RefreshInterval > 0 {
		g.Go(func() error {
			return StartRefresher(ctx, RefreshConfig{
				Interval:       cfg.RefreshInterval,
				InitialBackoff: 30 * time.Second,
				MaxBackoff:     30 * time.Minute,
			}, svc)
		})
	}

	if err := g.Wait(); err != nil && err != context.Canceled {
		log.Error("service stopped with error", zap.Error(err))
		return err
	}
	log.Info("service stopped gracefully")
	return nil
}

// NewService builds a Service and its collaborators from configuration.
func NewService(cfg config.Config, log *zap.Logger) (*Service, error) {
	store, err := profile.NewStore(cfg.ProfileDir)
	if err != nil {
		return nil, err
	}

	return &Service{
		Log:     log,
		Store:   store,
		Holder:  profile.NewHolder(),
		Fetcher: ingest.NewFetcher(cfg.FetchTimeout),
		Writer:  &system.FileWriter{Path: cfg.HostsPath},
		Backups: &system.Backups{
			HostsFile: cfg.HostsPath,
			Dir:       cfg.BackupDir,
		},
		HostsPath:  cfg.HostsPath,
		MaxRecords: cfg.MaxRecords,
	}, nil
}
