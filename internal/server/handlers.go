package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/conduit-lang/gridmeta/internal/table/definition"
)

const maxBodyBytes = 1 << 20

type visibleColumnsRequest struct {
	Columns []string `json:"columns"`
}

type contextPathRequest struct {
	ContextPath string `json:"contextPath"`
}

type draftIndicatorResponse struct {
	Column   string `json:"column,omitempty"`
	Assigned bool   `json:"assigned"`
}

type rebindResponse struct {
	StatePath string `json:"statePath"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"tables": len(s.delegate.TableIDs()),
	})
}

func (s *Server) handleListTables(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.delegate.Tables())
}

func (s *Server) handleGetTable(w http.ResponseWriter, r *http.Request) {
	info, err := s.delegate.Table(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) handleProperties(w http.ResponseWriter, r *http.Request) {
	infos, err := s.delegate.FetchPropertyInfos(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, infos)
}

func (s *Server) handleInvalidate(w http.ResponseWriter, r *http.Request) {
	if err := s.delegate.Invalidate(chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleVisibleColumns(w http.ResponseWriter, r *http.Request) {
	var req visibleColumnsRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		badRequest(w, r, "invalid request body")
		return
	}
	name, ok, err := s.delegate.SetVisibleColumns(chi.URLParam(r, "id"), req.Columns)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, draftIndicatorResponse{Column: name, Assigned: ok})
}

func (s *Server) handleAddColumn(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		badRequest(w, r, "invalid request body")
		return
	}
	decl, err := definition.DecodeColumn(body)
	if err != nil {
		writeError(w, r, err)
		return
	}
	id := chi.URLParam(r, "id")
	if err := s.delegate.AddColumn(id, decl); err != nil {
		writeError(w, r, err)
		return
	}
	info, err := s.delegate.Table(id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, info)
}

func (s *Server) handleRemoveColumn(w http.ResponseWriter, r *http.Request) {
	if err := s.delegate.RemoveColumn(chi.URLParam(r, "id"), chi.URLParam(r, "name")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleContextPath(w http.ResponseWriter, r *http.Request) {
	var req contextPathRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil || req.ContextPath == "" {
		badRequest(w, r, "contextPath is required")
		return
	}
	if err := s.delegate.SetContextPath(chi.URLParam(r, "id"), req.ContextPath); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRebind(w http.ResponseWriter, r *http.Request) {
	path, err := s.delegate.Rebind(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rebindResponse{StatePath: path})
}

func (s *Server) handleDraftIndicator(w http.ResponseWriter, r *http.Request) {
	name, ok, err := s.delegate.DraftIndicatorColumn(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, draftIndicatorResponse{Column: name, Assigned: ok})
}
