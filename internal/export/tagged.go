package export

import "github.com/didilebossducode/lettre-motivation-ai/internal/doc"

// Options are the fixed defaults applied when laying out a tagged document.
type Options struct {
	Font        string
	FontSize    float64 // points
	Alignment   Alignment
	LineSpacing float64
	SpaceAfter  float64 // points, after every paragraph
	Page        Page
}

// DesktopOptions returns Times New Roman 11.5pt, single spacing, 12pt after
// each paragraph, on an A4 page.
func DesktopOptions() Options {
	return Options{
		Font:        "Times New Roman",
		FontSize:    11.5,
		Alignment:   AlignLeft,
		LineSpacing: 1,
		SpaceAfter:  12,
		Page:        A4(),
	}
}

// FromDocument lays out d with one paragraph per line. Alignment and line
// spacing come from the tags covering each line's first character; runs
// split wherever bold or italic membership changes.
func FromDocument(d *doc.Document, opts Options) *Layout {
	if opts.Alignment == "" {
		opts.Alignment = AlignLeft
	}
	if opts.LineSpacing <= 0 {
		opts.LineSpacing = 1
	}

	l := &Layout{Font: opts.Font, FontSize: opts.FontSize, Page: opts.Page}
	for _, line := range d.Lines() {
		start, end := line[0], line[1]
		p := Paragraph{
			Alignment:   opts.Alignment,
			LineSpacing: opts.LineSpacing,
			SpaceAfter:  opts.SpaceAfter,
		}
		for _, n := range d.TagsAtOffset(start) {
			s, ok := n.(doc.Style)
			if !ok {
				continue
			}
			if a, ok := alignmentOf(s); ok {
				p.Alignment = a
			}
			if v, ok := s.SpacingValue(); ok {
				p.LineSpacing = v
			}
		}
		p.Runs = runs(d, start, end)
		l.Paragraphs = append(l.Paragraphs, p)
	}
	return l
}

func alignmentOf(s doc.Style) (Alignment, bool) {
	switch s {
	case doc.AlignCenter:
		return AlignCenter, true
	case doc.AlignRight:
		return AlignRight, true
	case doc.AlignJustify:
		return AlignJustify, true
	}
	return "", false
}

func runs(d *doc.Document, start, end int) []Run {
	var out []Run
	for i := start; i < end; {
		bold, italic := d.HasTagAt(doc.Bold, i), d.HasTagAt(doc.Italic, i)
		j := i + 1
		for j < end && d.HasTagAt(doc.Bold, j) == bold && d.HasTagAt(doc.Italic, j) == italic {
			j++
		}
		out = append(out, Run{Text: d.Slice(i, j), Bold: bold, Italic: italic})
		i = j
	}
	return out
}
