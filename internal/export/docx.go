package export

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/fumiama/go-docx"
)

func mmToTwips(mm float64) int { return int(math.Round(mm * 1440 / 25.4)) }
func ptToTwips(pt float64) int { return int(math.Round(pt * 20)) }

// halfPoints formats a point size the way w:sz expects it.
func halfPoints(pt float64) string { return strconv.Itoa(int(math.Round(pt * 2))) }

var justification = map[Alignment]string{
	AlignCenter:  "center",
	AlignRight:   "end",
	AlignJustify: "both",
}

// WriteDOCX serializes l as a .docx file.
//
// WordprocessingML has no "space after" attribute in go-docx, so each
// paragraph's SpaceAfter is added to the following paragraph's space before.
func WriteDOCX(w io.Writer, l *Layout) error {
	f := docx.New().WithDefaultTheme()

	carry := 0.0
	for _, p := range l.Paragraphs {
		para := f.AddParagraph()
		spacing := p.LineSpacing
		if spacing <= 0 {
			spacing = 1
		}
		props := &docx.ParagraphProperties{
			Spacing: &docx.Spacing{
				Before:   ptToTwips(p.SpaceBefore + carry),
				Line:     int(math.Round(240 * spacing)),
				LineRule: "auto",
			},
		}
		if jc, ok := justification[p.Alignment]; ok {
			props.Justification = &docx.Justification{Val: jc}
		}
		if p.FirstLineIndent > 0 || p.LeftIndent > 0 {
			props.Ind = &docx.Ind{Left: mmToTwips(p.LeftIndent), FirstLine: mmToTwips(p.FirstLineIndent)}
		}
		para.Properties = props
		carry = p.SpaceAfter

		for _, r := range p.Runs {
			if r.Text == "" {
				continue
			}
			run := para.AddText(r.Text)
			for _, c := range run.Children {
				if t, ok := c.(*docx.Text); ok {
					t.XMLSpace = "preserve"
				}
			}
			size := r.Size
			if size <= 0 {
				size = l.FontSize
			}
			if l.Font != "" {
				run.Font(l.Font, l.Font, l.Font, "")
			}
			if size > 0 {
				run.Size(halfPoints(size))
			}
			if r.Bold {
				run.Bold()
			}
			if r.Italic {
				run.Italic()
			}
			if r.Color != "" {
				run.Color(r.Color)
			}
		}
	}

	page := l.Page
	if page.Width == 0 || page.Height == 0 {
		page = A4()
	}
	f.Document.Body.Items = append(f.Document.Body.Items, &docx.SectPr{
		PgSz: &docx.PgSz{W: mmToTwips(page.Width), H: mmToTwips(page.Height)},
		PgMar: &docx.PgMar{
			Top:    mmToTwips(page.MarginTop),
			Bottom: mmToTwips(page.MarginBottom),
			Left:   mmToTwips(page.MarginLeft),
			Right:  mmToTwips(page.MarginRight),
			Header: 720,
			Footer: 720,
		},
	})

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write docx: %w", err)
	}
	return nil
}

// DOCXBytes is WriteDOCX into memory.
func DOCXBytes(l *Layout) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteDOCX(&buf, l); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
