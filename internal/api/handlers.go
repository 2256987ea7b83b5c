package api

import (
	"net/http"

	"github.com/sprite-ai/prtriage/internal/classify"
	"github.com/sprite-ai/prtriage/internal/diff"
	"github.com/sprite-ai/prtriage/internal/model"
	"github.com/sprite-ai/prtriage/internal/pipeline"
)

// --- Health ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// --- Plan ---

// planRequest routes either a raw unified diff or an explicit file list.
type planRequest struct {
	Diff   string              `json:"diff,omitempty"`
	Files  []model.ChangedFile `json:"files,omitempty"`
	Roster []string            `json:"roster,omitempty"`
}

type planResponse struct {
	Decisions []model.AgentDecision `json:"decisions"`
	Signals   []model.ChangeSignal  `json:"signals,omitempty"`
	Stats     diffStatsJSON         `json:"stats"`
}

type diffStatsJSON struct {
	Files   int `json:"files"`
	Added   int `json:"added"`
	Deleted int `json:"deleted"`
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	var req planRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	files, err := s.requestFiles(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	roster := req.Roster
	if len(roster) == 0 {
		roster = s.opts.Roster
	}

	plan, err := pipeline.MakePlan(files, roster)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp := planResponse{
		Decisions: plan.Decisions,
		Signals:   plan.Signals,
		Stats:     statsFor(files),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) requestFiles(req planRequest) ([]model.ChangedFile, error) {
	if req.Diff == "" {
		return req.Files, nil
	}
	ds, err := diff.Parse(req.Diff)
	if err != nil {
		return nil, err
	}
	return ds.Changed(), nil
}

func statsFor(files []model.ChangedFile) diffStatsJSON {
	stats := diffStatsJSON{Files: len(files)}
	for _, f := range files {
		stats.Added += f.Additions
		stats.Deleted += f.Deletions
	}
	return stats
}

// --- Merge ---

type mergeRequest struct {
	Results []model.AgentResult `json:"results"`
}

func (s *Server) handleMerge(w http.ResponseWriter, r *http.Request) {
	var req mergeRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	if len(req.Results) == 0 {
		writeError(w, http.StatusBadRequest, "results are required")
		return
	}

	combined := pipeline.Combine(req.Results, pipeline.CombineOptions{
		Matcher:      s.opts.Matcher,
		MaxResultAge: s.opts.MaxResultAge,
	})
	writeJSON(w, http.StatusOK, combined)
}

// --- Classify ---

type classifyRequest struct {
	Paths []string `json:"paths"`
}

type classifiedPath struct {
	Path     string `json:"path"`
	Category string `json:"category"`
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	var req classifyRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	if len(req.Paths) == 0 {
		writeError(w, http.StatusBadRequest, "paths are required")
		return
	}

	out := make([]classifiedPath, 0, len(req.Paths))
	for _, p := range req.Paths {
		out = append(out, classifiedPath{Path: p, Category: classify.File(p).String()})
	}
	writeJSON(w, http.StatusOK, map[string][]classifiedPath{"paths": out})
}
