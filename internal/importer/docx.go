package importer

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/didilebossducode/lettre-motivation-ai/internal/doc"
	"github.com/fumiama/go-docx"
)

// DOCXImporter handles .docx files. Each Word paragraph becomes one line;
// run bold and italic, paragraph justification and auto line spacing are
// carried over. Heading paragraphs are bold.
type DOCXImporter struct{}

func (p *DOCXImporter) Import(r io.Reader) (*doc.Document, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read docx: %w", err)
	}
	f, err := docx.Parse(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	b := newBuilder("\n", false)
	for _, item := range f.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		b.para(docxParagraphStyles(para)...)
		heading := docxHeadingLevel(para) > 0
		wrote := false
		for _, child := range para.Children {
			run, ok := child.(*docx.Run)
			if !ok {
				continue
			}
			bold, italic := heading, false
			if rp := run.RunProperties; rp != nil {
				bold = bold || rp.Bold != nil
				italic = rp.Italic != nil
			}
			for _, rc := range run.Children {
				switch t := rc.(type) {
				case *docx.Text:
					if t.Text != "" {
						b.write(t.Text, bold, italic)
						wrote = true
					}
				case *docx.Tab:
					b.write("\t", bold, italic)
					wrote = true
				case *docx.BarterRabbet:
					b.br()
					wrote = true
				}
			}
		}
		if !wrote {
			b.blank()
		}
	}
	return b.document()
}

func docxParagraphStyles(para *docx.Paragraph) []doc.Name {
	props := para.Properties
	if props == nil {
		return nil
	}
	var out []doc.Name
	if props.Justification != nil {
		switch props.Justification.Val {
		case "center":
			out = append(out, doc.AlignCenter)
		case "right", "end":
			out = append(out, doc.AlignRight)
		case "both", "justify", "distribute":
			out = append(out, doc.AlignJustify)
		}
	}
	if sp := props.Spacing; sp != nil && sp.Line > 0 && (sp.LineRule == "" || sp.LineRule == "auto") && sp.Line != 240 {
		out = append(out, doc.Spacing(float64(sp.Line)/240))
	}
	return out
}

func docxHeadingLevel(para *docx.Paragraph) int {
	if para.Properties == nil || para.Properties.Style == nil {
		return 0
	}
	style := strings.ToLower(strings.ReplaceAll(para.Properties.Style.Val, " ", ""))
	if rest, ok := strings.CutPrefix(style, "heading"); ok && len(rest) == 1 && rest[0] >= '1' && rest[0] <= '6' {
		return int(rest[0] - '0')
	}
	return 0
}
