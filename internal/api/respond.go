package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/didilebossducode/lettre-motivation-ai/internal/canned"
	"github.com/didilebossducode/lettre-motivation-ai/internal/convert"
	"github.com/didilebossducode/lettre-motivation-ai/internal/doc"
	"github.com/didilebossducode/lettre-motivation-ai/internal/export"
	"github.com/didilebossducode/lettre-motivation-ai/internal/pipeline"
)

// maxJSONBody bounds request bodies that are not file uploads.
const maxJSONBody = 2 << 20

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// decodeJSON reads a bounded JSON body into v, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return errors.New("invalid JSON body: trailing data")
	}
	return nil
}

// errorStatus maps a domain error to its HTTP status.
func errorStatus(err error) int {
	var (
		missing   *export.MissingFieldError
		rangeErr  *doc.InvalidRangeError
		notFound  *canned.NotFoundError
		duplicate *canned.DuplicateNameError
		reserved  *canned.ReservedNameError
		conv      *convert.ConversionError
	)
	switch {
	case errors.As(err, &missing),
		errors.As(err, &rangeErr),
		errors.Is(err, export.ErrUnsupportedFormat),
		errors.Is(err, canned.ErrEmptyName):
		return http.StatusBadRequest
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &duplicate), errors.As(err, &reserved):
		return http.StatusConflict
	case errors.As(err, &conv):
		return http.StatusBadGateway
	case errors.Is(err, pipeline.ErrNoGenerator):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// sendFile writes data as an attachment.
func sendFile(w http.ResponseWriter, data []byte, contentType, filename string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": sanitizeFilename(filename),
	}))
	w.Header().Set("Content-Length", fmt.Sprint(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." || name == "/" {
		name = "lettre"
	}
	return name
}
