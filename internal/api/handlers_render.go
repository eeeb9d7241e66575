package api

import (
	"net/http"

	"github.com/didilebossducode/lettre-motivation-ai/internal/doc"
	"github.com/didilebossducode/lettre-motivation-ai/internal/engine"
	"github.com/didilebossducode/lettre-motivation-ai/internal/export"
	"github.com/didilebossducode/lettre-motivation-ai/internal/marker"
)

type renderRequest struct {
	Document    *doc.Document     `json:"document"`
	Values      map[string]string `json:"values"`
	LineSpacing float64           `json:"line_spacing"`
	Alignment   string            `json:"alignment"`
	Format      string            `json:"format"`
}

type replacementJSON struct {
	Marker string `json:"marker"`
	Value  string `json:"value"`
	Start  int    `json:"start"`
	End    int    `json:"end"`
}

type markerJSON struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	Color string `json:"color"`
}

func (s *Server) handleMarkers(w http.ResponseWriter, r *http.Request) {
	entries := marker.Entries()
	out := make([]markerJSON, len(entries))
	for i, e := range entries {
		out[i] = markerJSON{Name: e.Marker.String(), Label: e.Label, Color: e.Color}
	}
	writeJSON(w, http.StatusOK, map[string]any{"markers": out})
}

// substitute decodes a render request and runs the engine on it.
func (s *Server) substitute(w http.ResponseWriter, r *http.Request) (*renderRequest, *doc.Document, []engine.Replacement, bool) {
	var req renderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return nil, nil, nil, false
	}
	if req.Document == nil {
		jsonError(w, "document is required", http.StatusBadRequest)
		return nil, nil, nil, false
	}
	ctx := marker.FromValues(req.Values).WithDefaults(s.now())
	out, reps, err := engine.SubstituteTrace(req.Document, ctx, engine.Options{LineSpacing: req.LineSpacing})
	if err != nil {
		jsonError(w, err.Error(), errorStatus(err))
		return nil, nil, nil, false
	}
	return &req, out, reps, true
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	_, out, reps, ok := s.substitute(w, r)
	if !ok {
		return
	}
	list := make([]replacementJSON, len(reps))
	for i, rep := range reps {
		list[i] = replacementJSON{Marker: rep.Marker.String(), Value: rep.Value, Start: rep.Start, End: rep.End}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"document":     out,
		"replacements": list,
	})
}

func (s *Server) handleRenderDocument(w http.ResponseWriter, r *http.Request) {
	req, out, _, ok := s.substitute(w, r)
	if !ok {
		return
	}
	format := export.FormatDOCX
	if req.Format != "" {
		f, err := export.ParseFormat(req.Format)
		if err != nil {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
		format = f
	}
	opts := export.DesktopOptions()
	if req.Alignment != "" {
		opts.Alignment = export.ParseAlignment(req.Alignment)
	}
	data, err := s.render(r.Context(), export.FromDocument(out, opts), format)
	if err != nil {
		s.log.Error("render document failed", "format", format, "error", err)
		jsonError(w, err.Error(), errorStatus(err))
		return
	}
	company := req.Values[doc.MarkerCompany.String()]
	sendFile(w, data, format.ContentType(), export.Filename(s.cfg.Author, company, format))
}

type plainRequest struct {
	Template string            `json:"template"`
	Values   map[string]string `json:"values"`
}

func (s *Server) handleRenderPlain(w http.ResponseWriter, r *http.Request) {
	var req plainRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"text": marker.ReplacePlain(req.Template, req.Values),
		"keys": marker.PlainKeys(req.Template),
	})
}
