package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/didilebossducode/lettre-motivation-ai/internal/fill"
	"github.com/didilebossducode/lettre-motivation-ai/internal/importer"
)

// formOverhead is allowed on top of MaxUploadBytes for multipart framing.
const formOverhead = 1 << 20

// handleImport turns an uploaded template file into a tagged document.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+formOverhead)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	name := sanitizeFilename(header.Filename)
	imp, err := importer.ForFile(name)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if p, ok := imp.(*importer.PDFImporter); ok {
		p.FallbackPdftotext = s.cfg.PDFFallbackPdftotext
	}

	d, err := imp.Import(file)
	if err != nil {
		s.log.Warn("template import failed", "filename", name, "error", err)
		jsonError(w, "import "+name+": "+err.Error(), http.StatusUnprocessableEntity)
		return
	}
	n := len(d.MarkerSpans())
	s.log.Info("template imported", "filename", name, "chars", d.Len(), "markers", n)
	writeJSON(w, http.StatusOK, map[string]any{
		"filename": name,
		"markers":  n,
		"document": d,
	})
}

// handleFill replaces [[key]] placeholders inside an uploaded .docx. Values
// come from a JSON "values" field or from every other form field.
func (s *Server) handleFill(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+formOverhead)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	name := sanitizeFilename(header.Filename)
	if !strings.EqualFold(filepath.Ext(name), ".docx") {
		jsonError(w, "only .docx files can be filled", http.StatusBadRequest)
		return
	}

	values := make(map[string]string)
	if raw := r.FormValue("values"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &values); err != nil {
			jsonError(w, "invalid values: "+err.Error(), http.StatusBadRequest)
			return
		}
	} else {
		for k, v := range r.MultipartForm.Value {
			if len(v) > 0 {
				values[k] = v[0]
			}
		}
	}

	data, err := io.ReadAll(file)
	if err != nil {
		jsonError(w, "read upload: "+err.Error(), http.StatusBadRequest)
		return
	}
	out, n, err := fill.Template(bytes.NewReader(data), int64(len(data)), values)
	if err != nil {
		jsonError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	s.log.Info("docx filled", "filename", name, "replacements", n)
	w.Header().Set("X-Replacements", strconv.Itoa(n))
	sendFile(w, out, "application/vnd.openxmlformats-officedocument.wordprocessingml.document", name)
}
