// Package v1 implements the native REST API.
package v1

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync/atomic"

	"github.com/vmunix/modport/internal/importer"
	"github.com/vmunix/modport/internal/profile"
	"github.com/vmunix/modport/internal/source"
)

// Server is the v1 API server.
type Server struct {
	deps    ServerDeps
	running atomic.Bool // set while an import batch runs
}

// New creates a v1 API server.
func New(deps ServerDeps) (*Server, error) {
	if err := deps.Validate(); err != nil {
		return nil, err
	}
	return &Server{deps: deps}, nil
}

// RegisterRoutes registers API routes on the given mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	// Profiles
	mux.HandleFunc("GET /api/v1/profiles", s.listProfiles)
	mux.HandleFunc("GET /api/v1/profiles/{id}", s.getProfile)
	mux.HandleFunc("GET /api/v1/profiles/{id}/mods", s.listMods)

	// Imports
	mux.HandleFunc("GET /api/v1/scan", s.scan)
	mux.HandleFunc("POST /api/v1/imports", s.requireRunner(s.runImport))
	mux.HandleFunc("GET /api/v1/history", s.listHistory)

	// System
	mux.HandleFunc("GET /api/v1/events", s.requireEventLog(s.listEvents))
	mux.HandleFunc("GET /api/v1/status", s.getStatus)
}

// Error response
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, code int, errCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: message, Code: errCode})
}

func writeJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(data)
}

// pathID extracts the integer {id} from the URL path.
func pathID(r *http.Request) (int64, error) {
	idStr := r.PathValue("id")
	if idStr == "" {
		return 0, errors.New("missing path parameter: id")
	}
	return strconv.ParseInt(idStr, 10, 64)
}

// queryInt extracts an optional integer from the query string.
func queryInt(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return i
}

// queryString extracts an optional string from the query string.
func queryString(r *http.Request, name string) *string {
	val := r.URL.Query().Get(name)
	if val == "" {
		return nil
	}
	return &val
}

func (s *Server) listProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := s.deps.Profiles.Profiles()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "DATABASE_ERROR", err.Error())
		return
	}

	resp := listProfilesResponse{Items: make([]profileResponse, len(profiles)), Total: len(profiles)}
	for i, p := range profiles {
		resp.Items[i] = toProfileResponse(p)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) getProfile(w http.ResponseWriter, r *http.Request) {
	p, ok := s.lookupProfile(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toProfileResponse(p))
}

func (s *Server) listMods(w http.ResponseWriter, r *http.Request) {
	p, ok := s.lookupProfile(w, r)
	if !ok {
		return
	}

	mods, err := s.deps.Profiles.Mods(p.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "DATABASE_ERROR", err.Error())
		return
	}

	resp := listModsResponse{Items: make([]modResponse, len(mods)), Total: len(mods)}
	for i, m := range mods {
		resp.Items[i] = modResponse{FullName: m.FullName, Version: m.Version, Enabled: m.Enabled}
	}
	writeJSON(w, http.StatusOK, resp)
}

// lookupProfile resolves {id} to a profile of the managed game,
// writing the error response itself when it fails.
func (s *Server) lookupProfile(w http.ResponseWriter, r *http.Request) (*profile.Profile, bool) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return nil, false
	}

	p, err := s.deps.Profiles.Profile(id)
	if errors.Is(err, profile.ErrNotFound) {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Profile not found")
		return nil, false
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "DATABASE_ERROR", err.Error())
		return nil, false
	}
	return p, true
}

func toProfileResponse(p *profile.Profile) profileResponse {
	return profileResponse{
		ID:        p.ID,
		Name:      p.Name,
		Path:      p.Path,
		Source:    p.Source,
		CreatedAt: p.CreatedAt,
	}
}

func (s *Server) scan(w http.ResponseWriter, r *http.Request) {
	info, err := source.GatherInfo(s.deps.Locator, s.deps.GameDir)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "SCAN_ERROR", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) runImport(w http.ResponseWriter, r *http.Request) {
	var req importRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
			return
		}
	}

	kind := source.KindR2modman
	if req.Source != "" {
		k, err := source.ParseKind(req.Source)
		if err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_SOURCE", err.Error())
			return
		}
		kind = k
	}

	root := req.Path
	if root == "" {
		dir, err := s.deps.Locator.Find(kind)
		if err != nil {
			writeError(w, http.StatusNotFound, "SOURCE_NOT_FOUND", err.Error())
			return
		}
		root = dir
	}

	include, err := importer.Select(root, s.deps.GameDir, req.Only)
	if errors.Is(err, source.ErrProfilesNotFound) {
		writeError(w, http.StatusNotFound, "PROFILES_NOT_FOUND", err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_SELECTION", err.Error())
		return
	}

	if !s.running.CompareAndSwap(false, true) {
		writeError(w, http.StatusConflict, "IMPORT_RUNNING", "An import is already running")
		return
	}
	defer s.running.Store(false)

	result, err := s.deps.Runner.Run(r.Context(), root, include)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "IMPORT_FAILED", err.Error())
		return
	}

	resp := importResponse{
		BatchID:    result.ID,
		SourcePath: result.SourcePath,
		Outcomes:   make([]outcomeResponse, len(result.Outcomes)),
	}
	for i, o := range result.Outcomes {
		resp.Outcomes[i] = outcomeResponse{
			Profile:    o.Name,
			Status:     string(o.Status),
			Mods:       o.Mods,
			RolledBack: o.RolledBack,
		}
		if o.Err != nil {
			resp.Outcomes[i].Error = o.Err.Error()
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) listHistory(w http.ResponseWriter, r *http.Request) {
	filter := importer.HistoryFilter{
		BatchID: queryString(r, "batch"),
		Limit:   queryInt(r, "limit", 50),
	}
	if st := queryString(r, "status"); st != nil {
		status := importer.Status(*st)
		filter.Status = &status
	}

	entries, err := s.deps.History.List(filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "DATABASE_ERROR", err.Error())
		return
	}

	resp := listHistoryResponse{Items: make([]historyResponse, len(entries)), Total: len(entries)}
	for i, h := range entries {
		resp.Items[i] = historyResponse{
			ID:         h.ID,
			BatchID:    h.BatchID,
			Profile:    h.Profile,
			Status:     string(h.Status),
			Error:      h.Error,
			SourcePath: h.SourcePath,
			CreatedAt:  h.CreatedAt,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) getStatus(w http.ResponseWriter, r *http.Request) {
	importing := s.running.Load()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"game":      s.deps.Profiles.Game(),
		"importing": importing,
		"imports":   s.deps.Runner != nil,
		"version":   Version,
	})
}

// Version is reported by GET /status; set at build time.
var Version = "dev"
