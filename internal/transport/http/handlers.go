package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/stephanjoseph/SaneHosts-sub000/internal/hostsfile"
	"github.com/stephanjoseph/SaneHosts-sub000/internal/ingest"
	"github.com/stephanjoseph/SaneHosts-sub000/internal/profile"
)

const maxBodyBytes = 16 << 20 // profiles can be large, blocklists are not sent inline

type errorBody struct {
	Error string `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Log.Warn("encode response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	var statusErr *ingest.StatusError
	switch {
	case errors.Is(err, profile.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, ingest.ErrNoEntries):
		code = http.StatusUnprocessableEntity
	case errors.Is(err, ingest.ErrCanceled):
		code = http.StatusServiceUnavailable
	case errors.As(err, &statusErr):
		code = http.StatusBadGateway
	}
	s.writeJSON(w, code, errorBody{Error: err.Error()})
}

func (s *Server) writeBadRequest(w http.ResponseWriter, err error) {
	s.writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
}

func (s *Server) handleListProfiles(w http.ResponseWriter, _ *http.Request) {
	summaries, err := s.Store.List()
	if err != nil {
		s.writeError(w, err)
		return
	}
	if summaries == nil {
		summaries = []profile.Summary{}
	}
	s.writeJSON(w, http.StatusOK, summaries)
}

type entryRequest struct {
	IP        string   `json:"ip"`
	Hostnames []string `json:"hostnames"`
	Comment   string   `json:"comment"`
	Enabled   *bool    `json:"enabled"`
}

type createProfileRequest struct {
	Name    string         `json:"name"`
	Entries []entryRequest `json:"entries"`
}

func (s *Server) handleCreateProfile(w http.ResponseWriter, r *http.Request) {
	var req createProfileRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeBadRequest(w, err)
		return
	}

	entries := make([]hostsfile.Entry, 0, len(req.Entries))
	for _, er := range req.Entries {
		e, err := hostsfile.NewEntry(er.IP, er.Hostnames, er.Comment)
		if err != nil {
			s.writeBadRequest(w, err)
			return
		}
		if er.Enabled != nil {
			e = e.WithEnabled(*er.Enabled)
		}
		entries = append(entries, e)
	}

	p, err := profile.New(req.Name, profile.Provenance{Kind: profile.SourceLocal})
	if err != nil {
		s.writeBadRequest(w, err)
		return
	}
	p = p.WithEntries(entries)

	if err := s.Store.Save(p); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := s.Store.Get(mux.Vars(r)["name"])
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleDeleteProfile(w http.ResponseWriter, r *http.Request) {
	if err := s.Store.Delete(mux.Vars(r)["name"]); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleApplyProfile(w http.ResponseWriter, r *http.Request) {
	applied, err := s.Svc.Apply(r.Context(), mux.Vars(r)["name"])
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, applied)
}

type ingestRequest struct {
	Name       string          `json:"name"`
	Sources    []ingest.Source `json:"sources"`
	MaxRecords int             `json:"max_records"`
}

// ingestResponse carries the stored summary plus whether the record cap cut
// the ingestion short, so clients can tell a partial result from a full one.
type ingestResponse struct {
	profile.Summary
	Truncated bool `json:"truncated"`
}

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	var req ingestRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeBadRequest(w, err)
		return
	}
	if len(req.Sources) == 0 {
		s.writeBadRequest(w, errors.New("at least one source is required"))
		return
	}

	p, truncated, err := s.Svc.Ingest(r.Context(), req.Name, req.Sources, req.MaxRecords)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, ingestResponse{
		Summary:   p.Summarize(),
		Truncated: truncated,
	})
}

type hostsResponse struct {
	Entries []hostsfile.Entry `json:"entries"`
	System  []hostsfile.Entry `json:"system"`
	Stats   hostsStats        `json:"stats"`
}

type hostsStats struct {
	Lines    int `json:"lines"`
	Entries  int `json:"entries"`
	Enabled  int `json:"enabled"`
	Disabled int `json:"disabled"`
	Comments int `json:"comments"`
}

func (s *Server) handleReadHosts(w http.ResponseWriter, _ *http.Request) {
	lines, err := s.Svc.ReadHosts()
	if err != nil {
		s.writeError(w, err)
		return
	}

	entries := hostsfile.Entries(lines)
	stats := hostsStats{Lines: len(lines), Entries: len(entries)}
	for _, l := range lines {
		if l.Kind == hostsfile.LineComment {
			stats.Comments++
		}
	}
	for _, e := range entries {
		if e.Enabled {
			stats.Enabled++
		} else {
			stats.Disabled++
		}
	}

	s.writeJSON(w, http.StatusOK, hostsResponse{
		Entries: entries,
		System:  hostsfile.SystemEntries(entries),
		Stats:   stats,
	})
}

func (s *Server) handleActive(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Holder.Get())
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
