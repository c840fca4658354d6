package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/dirgraph/pkg/buildinfo"
	"github.com/matzehuels/dirgraph/pkg/depgraph"
	errs "github.com/matzehuels/dirgraph/pkg/errors"
	"github.com/matzehuels/dirgraph/pkg/fileset"
	"github.com/matzehuels/dirgraph/pkg/graph"
	"github.com/matzehuels/dirgraph/pkg/pipeline"
	"github.com/matzehuels/dirgraph/pkg/store"
)

// CreateRequest is the body of POST /api/v1/analyses.
type CreateRequest struct {
	Files  map[string]string `json:"files"`
	Source string            `json:"source,omitempty"`
}

// CreateResponse is returned by POST /api/v1/analyses.
type CreateResponse struct {
	ID     string       `json:"id"`
	Graph  graph.Graph  `json:"graph"`
	Layout graph.Layout `json:"layout"`
	Cached bool         `json:"cached"`
	Cycles []graph.Edge `json:"cycles"` // back edges closing import cycles
}

// NeighborsResponse is returned by the neighbors endpoint.
type NeighborsResponse struct {
	Focus string   `json:"focus"`
	Nodes []string `json:"nodes"`
	Edges []string `json:"edges"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": buildinfo.Get(),
	})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if !errors.As(err, &tooLarge) {
			err = errs.Wrap(errs.ErrCodeInvalidInput, err, "invalid JSON body")
		}
		writeError(w, r, s.logger, err)
		return
	}
	if len(req.Files) == 0 {
		writeError(w, r, s.logger, errs.New(errs.ErrCodeInvalidInput, "files must not be empty"))
		return
	}

	fs, err := s.fileSet(req.Files)
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}

	ctx := r.Context()
	opts := pipeline.Options{}
	data, analyzeHit, err := s.runner.AnalyzeWithCacheInfo(ctx, fs, opts)
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	l, layoutHit, err := s.runner.ComputeLayoutWithCacheInfo(ctx, data, opts)
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}

	a := store.NewAnalysis(fs.Hash(), len(fs), data, l)
	a.Source = req.Source
	if err := s.store.Save(ctx, a); err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	s.logger.Info("saved analysis", "id", a.ID, "files", len(fs), "edges", len(data.Edges))

	cycles := []graph.Edge{}
	for _, e := range depgraph.CycleEdges(data) {
		cycles = append(cycles, graph.Edge{Source: e.Source, Target: e.Target})
	}

	w.Header().Set("Location", "/api/v1/analyses/"+a.ID)
	writeJSON(w, http.StatusCreated, CreateResponse{
		ID:     a.ID,
		Graph:  a.Graph,
		Layout: a.Layout,
		Cached: analyzeHit && layoutHit,
		Cycles: cycles,
	})
}

// fileSet validates request files against the configured limits. Oversized
// files are kept with empty content, as the loaders do.
func (s *Server) fileSet(files map[string]string) (fileset.FileSet, error) {
	if err := errs.ValidateFileCount(len(files), s.cfg.Limits.MaxFiles); err != nil {
		return nil, err
	}
	fs := make(fileset.FileSet, len(files))
	for p, content := range files {
		if err := errs.ValidatePath(p); err != nil {
			return nil, err
		}
		if s.cfg.Limits.MaxFileBytes > 0 && int64(len(content)) > s.cfg.Limits.MaxFileBytes {
			content = ""
		}
		fs[p] = content
	}
	return fs, nil
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, r, s.logger, errs.New(errs.ErrCodeInvalidInput, "limit must be a non-negative integer"))
			return
		}
		limit = n
	}

	list, err := s.store.List(r.Context(), limit)
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"analyses": list})
}

// analysis loads the analysis named by the {id} URL parameter.
func (s *Server) analysis(r *http.Request) (*store.Analysis, error) {
	id := chi.URLParam(r, "id")
	if !store.ValidID(id) {
		return nil, errs.New(errs.ErrCodeInvalidInput, "invalid analysis id: %q", id)
	}
	return s.store.Get(r.Context(), id)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	a, err := s.analysis(r)
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !store.ValidID(id) {
		writeError(w, r, s.logger, errs.New(errs.ErrCodeInvalidInput, "invalid analysis id: %q", id))
		return
	}
	if err := s.store.Delete(r.Context(), id); err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleNeighbors(w http.ResponseWriter, r *http.Request) {
	focus := r.URL.Query().Get("focus")
	if focus == "" {
		writeError(w, r, s.logger, errs.New(errs.ErrCodeInvalidInput, "focus is required"))
		return
	}
	a, err := s.analysis(r)
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	data, err := a.Graph.Data()
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	if _, ok := data.Node(focus); !ok {
		writeError(w, r, s.logger, errs.New(errs.ErrCodeNodeNotFound, "node not in graph: %q", focus))
		return
	}

	hl := depgraph.Neighbors(data, focus)
	writeJSON(w, http.StatusOK, NeighborsResponse{
		Focus: focus,
		Nodes: hl.NodeIDs(),
		Edges: hl.EdgeKeys(),
	})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	format := q.Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	opts := pipeline.Options{
		VizType: q.Get("viz"),
		Formats: []string{format},
		Focus:   q.Get("focus"),
	}
	if err := opts.ValidateForRender(); err != nil {
		writeError(w, r, s.logger, err)
		return
	}

	a, err := s.analysis(r)
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	data, err := a.Graph.Data()
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}

	artifacts, err := s.runner.Render(r.Context(), data, a.Layout, opts)
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}

	w.Header().Set("Content-Type", pipeline.ContentTypes[format])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifacts[format])
}
