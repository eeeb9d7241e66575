// Package export turns letters into styled paragraphs and writes them as
// .docx files.
package export

import "strings"

// Alignment is a paragraph's horizontal alignment.
type Alignment string

const (
	AlignLeft    Alignment = "left"
	AlignCenter  Alignment = "center"
	AlignRight   Alignment = "right"
	AlignJustify Alignment = "justify"
)

// ParseAlignment maps a name to an Alignment, defaulting to left.
func ParseAlignment(s string) Alignment {
	switch a := Alignment(strings.ToLower(strings.TrimSpace(s))); a {
	case AlignCenter, AlignRight, AlignJustify:
		return a
	}
	return AlignLeft
}

// Run is a stretch of text sharing one character style. Zero Size and empty
// Color mean the layout defaults.
type Run struct {
	Text   string  `json:"text"`
	Bold   bool    `json:"bold,omitempty"`
	Italic bool    `json:"italic,omitempty"`
	Size   float64 `json:"size,omitempty"`
	Color  string  `json:"color,omitempty"`
}

// Paragraph is one output paragraph. Spacing is in points, indents in
// millimetres, LineSpacing a multiple of single spacing.
type Paragraph struct {
	Runs            []Run     `json:"runs"`
	Alignment       Alignment `json:"alignment"`
	LineSpacing     float64   `json:"line_spacing"`
	SpaceBefore     float64   `json:"space_before,omitempty"`
	SpaceAfter      float64   `json:"space_after,omitempty"`
	FirstLineIndent float64   `json:"first_line_indent,omitempty"`
	LeftIndent      float64   `json:"left_indent,omitempty"`
}

// Text returns the concatenated run text.
func (p Paragraph) Text() string {
	var b strings.Builder
	for _, r := range p.Runs {
		b.WriteString(r.Text)
	}
	return b.String()
}

// Page is the sheet size and margins in millimetres.
type Page struct {
	Width        float64 `json:"width"`
	Height       float64 `json:"height"`
	MarginTop    float64 `json:"margin_top"`
	MarginBottom float64 `json:"margin_bottom"`
	MarginLeft   float64 `json:"margin_left"`
	MarginRight  float64 `json:"margin_right"`
}

// A4 returns an A4 page with 25mm top and bottom and 20mm side margins.
func A4() Page {
	return Page{Width: 210, Height: 297, MarginTop: 25, MarginBottom: 25, MarginLeft: 20, MarginRight: 20}
}

// Layout is a complete styled document ready for a writer.
type Layout struct {
	Font       string      `json:"font"`
	FontSize   float64     `json:"font_size"`
	Page       Page        `json:"page"`
	Paragraphs []Paragraph `json:"paragraphs"`
}

// Text returns the paragraphs' text joined by newlines.
func (l *Layout) Text() string {
	lines := make([]string, len(l.Paragraphs))
	for i, p := range l.Paragraphs {
		lines[i] = p.Text()
	}
	return strings.Join(lines, "\n")
}
