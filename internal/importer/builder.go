package importer

import (
	"strings"
	"unicode"

	"github.com/didilebossducode/lettre-motivation-ai/internal/doc"
)

// builder accumulates styled paragraphs. Paragraphs open lazily on the
// first write, so empty blocks leave no trace unless forced with blank.
type builder struct {
	sep      string // written between paragraphs
	collapse bool   // fold whitespace runs as HTML rendering does

	text   []rune
	spans  []doc.Span
	paras  int
	open   bool
	start  int
	styles []doc.Name
}

func newBuilder(sep string, collapse bool) *builder {
	return &builder{sep: sep, collapse: collapse}
}

// para ends the current paragraph; the next write opens one carrying styles.
func (b *builder) para(styles ...doc.Name) {
	b.end()
	b.styles = styles
}

func (b *builder) materialize() {
	if b.open {
		return
	}
	if b.paras > 0 {
		b.text = append(b.text, []rune(b.sep)...)
	}
	b.paras++
	b.open = true
	b.start = len(b.text)
}

func (b *builder) write(s string, bold, italic bool) {
	if b.collapse {
		s = collapseSpace(s)
		if !b.open || b.atLineStart() {
			s = strings.TrimLeftFunc(s, unicode.IsSpace)
		}
	}
	if s == "" {
		return
	}
	b.materialize()
	from := len(b.text)
	b.text = append(b.text, []rune(s)...)
	if bold {
		b.spans = append(b.spans, doc.Span{Name: doc.Bold, Start: from, End: len(b.text)})
	}
	if italic {
		b.spans = append(b.spans, doc.Span{Name: doc.Italic, Start: from, End: len(b.text)})
	}
}

func (b *builder) atLineStart() bool {
	return len(b.text) == b.start || b.text[len(b.text)-1] == '\n'
}

// br starts a new line inside the current paragraph.
func (b *builder) br() {
	b.trimTrailing()
	b.materialize()
	b.text = append(b.text, '\n')
}

// blank emits an empty paragraph.
func (b *builder) blank() {
	b.end()
	b.materialize()
	b.end()
}

func (b *builder) end() {
	if !b.open {
		b.styles = nil
		return
	}
	b.trimTrailing()
	for _, n := range b.styles {
		b.spans = append(b.spans, doc.Span{Name: n, Start: b.start, End: len(b.text)})
	}
	b.open = false
	b.styles = nil
}

func (b *builder) trimTrailing() {
	if !b.collapse || !b.open {
		return
	}
	n := len(b.text)
	for n > b.start && b.text[n-1] == ' ' {
		n--
	}
	b.text = b.text[:n]
	for i := range b.spans {
		b.spans[i].End = min(b.spans[i].End, n)
	}
}

func (b *builder) document() (*doc.Document, error) {
	b.end()
	d := doc.New(string(b.text))
	for _, sp := range b.spans {
		if sp.Start >= sp.End {
			continue
		}
		if err := d.AddSpan(sp.Name, sp.Start, sp.End); err != nil {
			return nil, err
		}
	}
	if _, err := MarkPlaceholders(d); err != nil {
		return nil, err
	}
	return d, nil
}

func collapseSpace(s string) string {
	var out strings.Builder
	space := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !space {
				out.WriteByte(' ')
			}
			space = true
			continue
		}
		space = false
		out.WriteRune(r)
	}
	return out.String()
}
