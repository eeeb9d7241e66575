package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/didilebossducode/lettre-motivation-ai/internal/export"
)

var errNoConverter = errors.New("PDF conversion is not available")

// handleExport renders a letter request synchronously. Errors use the
// {"success": false, "error": msg} envelope.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	// Browser clients send extra form fields, so unknown keys are ignored.
	var letter export.Letter
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(&letter); err != nil {
		exportError(w, "invalid JSON body: "+err.Error(), http.StatusBadRequest)
		return
	}

	format, err := letter.Validate()
	if err != nil {
		msg := err.Error()
		if errors.Is(err, export.ErrUnsupportedFormat) {
			msg = export.ErrUnsupportedFormat.Error()
		}
		exportError(w, msg, http.StatusBadRequest)
		return
	}

	now := s.now()
	data, err := s.render(r.Context(), export.BuildLetter(letter, now), format)
	if err != nil {
		s.log.Error("export failed", "format", format, "error", err)
		exportError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	sendFile(w, data, format.ContentType(), export.DownloadName(format, now))
}

func exportError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]any{"success": false, "error": msg})
}

// render writes layout as DOCX and converts it when PDF is asked for.
func (s *Server) render(ctx context.Context, layout *export.Layout, f export.Format) ([]byte, error) {
	data, err := export.DOCXBytes(layout)
	if err != nil {
		return nil, err
	}
	if f != export.FormatPDF {
		return data, nil
	}
	if s.deps.Converter == nil {
		return nil, errNoConverter
	}
	return s.deps.Converter.ToPDF(ctx, data)
}
