package importer

import (
	"fmt"
	"io"
	"strings"

	"github.com/didilebossducode/lettre-motivation-ai/internal/doc"
)

// TextImporter handles plain text files. Lines are kept as written.
type TextImporter struct{}

func (p *TextImporter) Import(r io.Reader) (*doc.Document, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read text: %w", err)
	}
	text := strings.TrimPrefix(string(raw), "\ufeff")
	text = strings.ReplaceAll(text, "\r\n", "\n")

	d := doc.New(text)
	if _, err := MarkPlaceholders(d); err != nil {
		return nil, err
	}
	return d, nil
}
