package importer

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/didilebossducode/lettre-motivation-ai/internal/doc"
	pdflib "github.com/ledongthuc/pdf"
)

// PDFImporter handles PDF files. PDFs carry no usable run styles, so only
// the text is imported; pages are separated by a blank line. It tries the
// Go library first, then pdftotext when FallbackPdftotext is set.
type PDFImporter struct {
	FallbackPdftotext bool
}

func (p *PDFImporter) Import(r io.Reader) (*doc.Document, error) {
	// ledongthuc/pdf opens by path, so we write to a temp file.
	tmp, err := os.CreateTemp("", "lettre-import-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	pages, err := extractPDFPages(tmpPath)
	if err != nil && p.FallbackPdftotext {
		pages, err = extractPdftotext(tmpPath)
	}
	if err != nil {
		return nil, fmt.Errorf("extract pdf text: %w", err)
	}

	var kept []string
	for _, page := range pages {
		if page = strings.TrimSpace(strings.ReplaceAll(page, "\r\n", "\n")); page != "" {
			kept = append(kept, page)
		}
	}
	d := doc.New(strings.Join(kept, "\n\n"))
	if _, err := MarkPlaceholders(d); err != nil {
		return nil, err
	}
	return d, nil
}

func extractPDFPages(path string) (pages []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		pages = append(pages, text)
	}
	return pages, nil
}

func extractPdftotext(path string) ([]string, error) {
	cmd := exec.Command("pdftotext", "-layout", path, "-")
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("pdftotext: %w", err)
	}
	return strings.Split(string(out), "\f"), nil
}
