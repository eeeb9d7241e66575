package api

import (
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/didilebossducode/lettre-motivation-ai/internal/canned"
	"github.com/didilebossducode/lettre-motivation-ai/internal/session"
)

type templateRequest struct {
	Name string `json:"name"`
	Body string `json:"body"`
}

func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"templates": s.deps.Templates.List()})
}

func (s *Server) handleSearchTemplates(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	writeJSON(w, http.StatusOK, map[string]any{
		"query":     q,
		"templates": s.deps.Templates.Search(q),
	})
}

func (s *Server) handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	name := nameParam(r)
	body, err := s.deps.Templates.Get(name)
	if err != nil {
		jsonError(w, err.Error(), errorStatus(err))
		return
	}
	writeJSON(w, http.StatusOK, canned.Entry{Name: canned.Normalize(name), Body: body})
}

func (s *Server) handleAddTemplate(w http.ResponseWriter, r *http.Request) {
	var req templateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	err := s.deps.Templates.Add(req.Name, req.Body)
	s.mutated(w, "add", canned.Normalize(req.Name), http.StatusCreated, err)
}

func (s *Server) handleEditTemplate(w http.ResponseWriter, r *http.Request) {
	var req templateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	name := nameParam(r)
	err := s.deps.Templates.Edit(name, req.Body)
	s.mutated(w, "edit", canned.Normalize(name), http.StatusOK, err)
}

func (s *Server) handleRenameTemplate(w http.ResponseWriter, r *http.Request) {
	var req templateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	err := s.deps.Templates.Rename(nameParam(r), req.Name)
	s.mutated(w, "rename", canned.Normalize(req.Name), http.StatusOK, err)
}

func (s *Server) handleDeleteTemplate(w http.ResponseWriter, r *http.Request) {
	name := nameParam(r)
	err := s.deps.Templates.Delete(name)
	s.mutated(w, "delete", canned.Normalize(name), http.StatusOK, err)
}

// mutated answers a template change. A persistence failure still leaves the
// in-memory collection changed, so it is reported as a warning.
func (s *Server) mutated(w http.ResponseWriter, op, name string, code int, err error) {
	resp := map[string]any{"name": name}
	var pe *canned.PersistenceError
	switch {
	case err == nil:
	case errors.As(err, &pe):
		s.log.Warn("template store write failed", "op", op, "name", name, "error", err)
		resp["warning"] = err.Error()
	default:
		jsonError(w, err.Error(), errorStatus(err))
		return
	}
	s.syncSession()
	s.log.Info("template changed", "op", op, "name", name)
	writeJSON(w, code, resp)
}

// syncSession copies the template collection into the saved session.
func (s *Server) syncSession() {
	if s.deps.Sessions == nil {
		return
	}
	all := s.deps.Templates.Snapshot()
	s.deps.Sessions.Update(func(snap *session.Snapshot) { snap.CustomTemplates = all })
}

// handleImportTemplates adds templates from a CSV body or a multipart "file".
func (s *Server) handleImportTemplates(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	var src io.Reader = r.Body
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		file, _, err := r.FormFile("file")
		if err != nil {
			jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
			return
		}
		defer file.Close()
		src = file
	}

	added, err := s.deps.Templates.ImportCSV(src)
	if added == nil {
		added = []string{}
	}
	resp := map[string]any{"added": added}
	if rows := canned.RowErrors(err); len(rows) > 0 {
		msgs := make([]string, len(rows))
		for i, e := range rows {
			msgs[i] = e.Error()
		}
		resp["errors"] = msgs
		if len(added) == 0 {
			resp["error"] = "no template imported"
			writeJSON(w, http.StatusBadRequest, resp)
			return
		}
	}
	var pe *canned.PersistenceError
	if errors.As(err, &pe) {
		s.log.Warn("template store write failed", "op", "import", "error", pe)
		resp["warning"] = pe.Error()
	}
	s.syncSession()
	s.log.Info("templates imported", "added", len(added))
	writeJSON(w, http.StatusOK, resp)
}

// nameParam is the {name} route parameter, unescaped when chi saw the raw path.
func nameParam(r *http.Request) string {
	name := chi.URLParam(r, "name")
	if v, err := url.PathUnescape(name); err == nil {
		return v
	}
	return name
}
