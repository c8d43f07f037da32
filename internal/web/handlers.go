package web

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/koeppern/gtd-system-sub000/internal/core"
)

// HealthResponse is returned by GET /healthz.
type HealthResponse struct {
	Status   string            `json:"status"`
	Pending  int               `json:"pending"`
	Degraded []core.EntityType `json:"degraded_lookups,omitempty"`
}

// EntityView describes a registered entity.
type EntityView struct {
	Key             string   `json:"key"`
	Label           string   `json:"label"`
	FilePattern     string   `json:"file_pattern"`
	Order           int      `json:"order"`
	Columns         []string `json:"columns"`
	IdentityColumns []string `json:"identity_columns"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, HealthResponse{
		Status:   "ok",
		Pending:  s.queue.Pending(),
		Degraded: s.cache.Degraded(),
	})
}

func (s *Server) handleListEntities(w http.ResponseWriter, r *http.Request) {
	defs := core.All()
	views := make([]EntityView, 0, len(defs))
	for _, def := range defs {
		views = append(views, EntityView{
			Key:             def.Info.Key,
			Label:           def.Info.Label,
			FilePattern:     def.Info.FilePattern,
			Order:           def.Info.Order,
			Columns:         def.Info.Columns,
			IdentityColumns: def.Info.IdentityColumns,
		})
	}
	writeJSON(w, r, http.StatusOK, views)
}

// handleStartImport queues a run for one entity, or a single run that
// imports all of them in order and stops at the first fatal error. There is
// nobody to answer a prompt, so truncation is forced whenever it is
// requested. The export is always discovered in the data directory; clients
// cannot name server paths.
//
// Query parameters: truncate (default true), dry_run (default false).
func (s *Server) handleStartImport(w http.ResponseWriter, r *http.Request) {
	entity := chi.URLParam(r, "entity")

	var opts core.RunOptions
	if entity == core.EntityAll {
		opts = core.RunOptions{All: true}
	} else if _, ok := core.Get(entity); ok {
		opts = core.DefaultRunOptions(entity)
	} else {
		respondError(w, r, fmt.Errorf("%w: %s", core.ErrUnknownEntity, entity), http.StatusNotFound)
		return
	}

	truncate, err := boolParam(r, "truncate", true)
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}
	dryRun, err := boolParam(r, "dry_run", false)
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}
	opts.TruncateExisting = truncate
	opts.Force = true
	opts.DryRun = dryRun

	st, err := s.queue.Submit(opts)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, core.ErrQueueFull) {
			status = http.StatusServiceUnavailable
			w.Header().Set("Retry-After", "30")
		}
		respondError(w, r, err, status)
		return
	}

	w.Header().Set("Location", "/api/runs/"+st.RunID)
	writeJSON(w, r, http.StatusAccepted, st)
}

func (s *Server) handleImportStatus(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")
	st, ok := s.queue.Status(runID)
	if !ok {
		writeJSON(w, r, http.StatusNotFound, ErrorResponse{
			Error: "Import run not found",
			Code:  "RUN404",
		})
		return
	}
	writeJSON(w, r, http.StatusOK, st)
}

// handleInvalidateCache drops every cached lookup so the next run reloads
// categories and projects from the store.
func (s *Server) handleInvalidateCache(w http.ResponseWriter, r *http.Request) {
	s.cache.Invalidate()
	w.WriteHeader(http.StatusNoContent)
}

// boolParam parses an optional boolean query parameter.
func boolParam(r *http.Request, name string, def bool) (bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%w: %s=%q", core.ErrInvalidOption, name, raw)
	}
	return v, nil
}
