package api

import (
	"net/http"

	"github.com/didilebossducode/lettre-motivation-ai/internal/export"
	"github.com/didilebossducode/lettre-motivation-ai/internal/session"
)

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.deps.Sessions.Get())
}

// handlePutSession replaces the whole session. Keys missing from the body
// take their defaults.
func (s *Server) handlePutSession(w http.ResponseWriter, r *http.Request) {
	snap := session.New()
	if err := decodeJSON(w, r, snap); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if snap.TextStyles == nil {
		snap.TextStyles = session.New().TextStyles
	}
	_, skipped, err := snap.Document()
	if err != nil {
		jsonError(w, err.Error(), errorStatus(err))
		return
	}
	if len(skipped) > 0 {
		s.log.Warn("session has unknown tags", "tags", skipped)
	}
	out := s.deps.Sessions.Set(snap)
	writeJSON(w, http.StatusOK, out)
}

// handleGenerateSession renders the current session into a download.
// ?format= picks docx (default) or pdf.
func (s *Server) handleGenerateSession(w http.ResponseWriter, r *http.Request) {
	format := export.FormatDOCX
	if v := r.URL.Query().Get("format"); v != "" {
		f, err := export.ParseFormat(v)
		if err != nil {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
		format = f
	}

	snap := s.deps.Sessions.Get()
	layout, err := snap.Layout(s.now())
	if err != nil {
		jsonError(w, err.Error(), errorStatus(err))
		return
	}
	data, err := s.render(r.Context(), layout, format)
	if err != nil {
		s.log.Error("session generate failed", "format", format, "error", err)
		jsonError(w, err.Error(), errorStatus(err))
		return
	}
	s.log.Info("session generated", "company", snap.Company, "format", format, "bytes", len(data))
	sendFile(w, data, format.ContentType(), snap.Filename(s.cfg.Author, format))
}
