// Package importer reads letter templates from common file formats into
// tagged documents. Bold and italic runs, paragraph alignment and line
// spacing become presentation tags; [[marker]] placeholders become marker
// tags.
package importer

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/didilebossducode/lettre-motivation-ai/internal/doc"
	"github.com/didilebossducode/lettre-motivation-ai/internal/marker"
)

// Importer converts raw template bytes into a Document.
type Importer interface {
	Import(r io.Reader) (*doc.Document, error)
}

// SupportedExtensions lists the file extensions ForFile accepts.
var SupportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
}

// ForFile returns the importer for a filename's extension.
func ForFile(filename string) (Importer, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &TextImporter{}, nil
	case ".md", ".markdown":
		return &MarkdownImporter{}, nil
	case ".html", ".htm":
		return &HTMLImporter{}, nil
	case ".pdf":
		return &PDFImporter{}, nil
	case ".docx":
		return &DOCXImporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// MarkPlaceholders tags every [[name]] in d whose name is a known marker
// with that marker, over the bracketed text. It returns how many it tagged.
func MarkPlaceholders(d *doc.Document) (int, error) {
	text := d.Text()
	n := 0
	for _, ph := range marker.FindPlaceholders(text) {
		m := doc.Marker(ph.Key)
		if !m.Valid() {
			continue
		}
		start := utf8.RuneCountInString(text[:ph.Start])
		end := start + utf8.RuneCountInString(text[ph.Start:ph.End])
		if err := d.AddSpan(m, start, end); err != nil {
			return n, fmt.Errorf("mark %s: %w", m, err)
		}
		n++
	}
	return n, nil
}
