package http

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/stephanjoseph/SaneHosts-sub000/internal/hostsfile"
	"github.com/stephanjoseph/SaneHosts-sub000/internal/ingest"
	"github.com/stephanjoseph/SaneHosts-sub000/internal/profile"
)

// Service is the slice of the application the API needs. The concrete
// implementation lives in internal/app.
type Service interface {
	ReadHosts() ([]hostsfile.Line, error)
	Apply(ctx context.Context, name string) (*profile.Applied, error)
	Ingest(ctx context.Context, name string, sources []ingest.Source, maxRecords int) (profile.Profile, bool, error)
}

// Server exposes profiles and the hosts engine over a local JSON API.
type Server struct {
	Log    *zap.Logger
	Store  *profile.Store
	Holder *profile.Holder
	Svc    Service
}

// Router builds the HTTP handler tree.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.HandleFunc("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/profiles", s.handleListProfiles).Methods(http.MethodGet)
	api.HandleFunc("/profiles", s.handleCreateProfile).Methods(http.MethodPost)
	api.HandleFunc("/profiles/{name}", s.handleGetProfile).Methods(http.MethodGet)
	api.HandleFunc("/profiles/{name}", s.handleDeleteProfile).Methods(http.MethodDelete)
	api.HandleFunc("/profiles/{name}/apply", s.handleApplyProfile).Methods(http.MethodPost)
	api.HandleFunc("/ingest", s.handleIngest).Methods(http.MethodPost)
	api.HandleFunc("/hosts", s.handleReadHosts).Methods(http.MethodGet)
	api.HandleFunc("/active", s.handleActive).Methods(http.MethodGet)

	return handlers.CompressHandler(
		handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(r))
}

// Run serves until the parent context is canceled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Minute, // ingest requests download large lists
		IdleTimeout:  60 * time.Second,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.Log.Warn("http server shutdown error", zap.Error(err))
		}
	}()

	s.Log.Info("http api listening", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
