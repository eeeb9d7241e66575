package doc

import (
	"fmt"
	"slices"
	"sort"
)

// Document is text plus named, possibly overlapping ranges over it.
// Ranges are half-open and addressed either by Position or by rune offset.
// Use New to construct one.
type Document struct {
	text  []rune
	lines []int // rune offset of each line start
	spans []Span
}

// Span is a tag addressed by rune offsets [Start, End).
type Span struct {
	Name  Name
	Start int
	End   int
}

// Tag is a tag addressed by positions [Start, End).
type Tag struct {
	Name  Name
	Start Position
	End   Position
}

// Range is a tagged extent without its name.
type Range struct {
	Start Position
	End   Position
}

// New returns an untagged document holding text.
func New(text string) *Document {
	d := &Document{text: []rune(text)}
	d.index()
	return d
}

func (d *Document) index() {
	d.lines = append(d.lines[:0], 0)
	for i, r := range d.text {
		if r == '\n' {
			d.lines = append(d.lines, i+1)
		}
	}
}

func (d *Document) lineStarts() []int {
	if len(d.lines) == 0 {
		d.index()
	}
	return d.lines
}

// Text returns the document text.
func (d *Document) Text() string { return string(d.text) }

// Len returns the number of runes in the document.
func (d *Document) Len() int { return len(d.text) }

// LineCount returns the number of lines; an empty document has one.
func (d *Document) LineCount() int { return len(d.lineStarts()) }

// Slice returns the text in [start, end), clamped to the document.
func (d *Document) Slice(start, end int) string {
	start = max(0, min(start, len(d.text)))
	end = max(start, min(end, len(d.text)))
	return string(d.text[start:end])
}

// Clone returns a deep copy; tags are never shared between documents.
func (d *Document) Clone() *Document {
	c := &Document{
		text:  slices.Clone(d.text),
		spans: slices.Clone(d.spans),
	}
	c.index()
	return c
}

func (d *Document) lineEnd(line int) int {
	starts := d.lineStarts()
	if line < len(starts) {
		return starts[line] - 1
	}
	return len(d.text)
}

// Offset converts p to a rune offset. The column may address the line's
// terminating newline (or the end of the document) but nothing past it.
func (d *Document) Offset(p Position) (int, error) {
	starts := d.lineStarts()
	if p.Line < 1 || p.Line > len(starts) {
		return 0, fmt.Errorf("line %d outside 1..%d", p.Line, len(starts))
	}
	start := starts[p.Line-1]
	if p.Col < 0 || start+p.Col > d.lineEnd(p.Line) {
		return 0, fmt.Errorf("column %d outside line %d", p.Col, p.Line)
	}
	return start + p.Col, nil
}

// PositionAt converts a rune offset to a Position, clamping to the document.
func (d *Document) PositionAt(off int) Position {
	off = max(0, min(off, len(d.text)))
	starts := d.lineStarts()
	i := sort.Search(len(starts), func(i int) bool { return starts[i] > off }) - 1
	return Position{Line: i + 1, Col: off - starts[i]}
}

// ClampPosition moves p to the nearest valid position. Lines past the end map
// to the end of the document; columns past a line end map to that line end.
func (d *Document) ClampPosition(p Position) Position {
	starts := d.lineStarts()
	if p.Line < 1 {
		return Position{Line: 1}
	}
	if p.Line > len(starts) {
		return d.PositionAt(len(d.text))
	}
	width := d.lineEnd(p.Line) - starts[p.Line-1]
	return Position{Line: p.Line, Col: max(0, min(p.Col, width))}
}

// Advance returns the position n characters after p (n may be negative).
func (d *Document) Advance(p Position, n int) (Position, error) {
	off, err := d.Offset(p)
	if err != nil {
		return Position{}, err
	}
	off += n
	if off < 0 || off > len(d.text) {
		return Position{}, fmt.Errorf("%s%+d leaves the document", p, n)
	}
	return d.PositionAt(off), nil
}

// LineStart returns the start of the line holding p.
func (d *Document) LineStart(p Position) (Position, error) {
	if _, err := d.Offset(p); err != nil {
		return Position{}, err
	}
	return Position{Line: p.Line}, nil
}

// LineAt returns the text of the line containing off, without its newline.
func (d *Document) LineAt(off int) string {
	p := d.PositionAt(off)
	start := d.lineStarts()[p.Line-1]
	return string(d.text[start:d.lineEnd(p.Line)])
}

// Lines returns each line's [start, end) offsets, newline excluded.
func (d *Document) Lines() [][2]int {
	starts := d.lineStarts()
	out := make([][2]int, len(starts))
	for i, s := range starts {
		out[i] = [2]int{s, d.lineEnd(i + 1)}
	}
	return out
}

func (d *Document) checkSpan(name Name, start, end int) error {
	label := ""
	if name != nil {
		label = name.String()
	}
	switch {
	case start < 0 || end > len(d.text):
		return &InvalidRangeError{Name: label, Start: d.PositionAt(start), End: d.PositionAt(end),
			Reason: fmt.Sprintf("offsets [%d, %d) outside document of length %d", start, end, len(d.text))}
	case start > end:
		return &InvalidRangeError{Name: label, Start: d.PositionAt(start), End: d.PositionAt(end),
			Reason: "start after end"}
	}
	return nil
}

func (d *Document) resolve(name Name, start, end Position) (int, int, error) {
	s, err := d.Offset(start)
	if err != nil {
		return 0, 0, &InvalidRangeError{Name: nameLabel(name), Start: start, End: end, Reason: err.Error()}
	}
	e, err := d.Offset(end)
	if err != nil {
		return 0, 0, &InvalidRangeError{Name: nameLabel(name), Start: start, End: end, Reason: err.Error()}
	}
	if s > e {
		return 0, 0, &InvalidRangeError{Name: nameLabel(name), Start: start, End: end, Reason: "start after end"}
	}
	return s, e, nil
}

func nameLabel(n Name) string {
	if n == nil {
		return ""
	}
	return n.String()
}

// AddTag tags [start, end) with name. Exclusive categories (markers,
// alignment, spacing) first clear every other name of the same category
// from the range. Same-name ranges that overlap or touch are merged.
func (d *Document) AddTag(name Name, start, end Position) error {
	s, e, err := d.resolve(name, start, end)
	if err != nil {
		return err
	}
	return d.AddSpan(name, s, e)
}

// AddSpan is AddTag with rune offsets. An empty range is accepted and
// stores nothing.
func (d *Document) AddSpan(name Name, start, end int) error {
	if name == nil {
		return &InvalidRangeError{Start: d.PositionAt(start), End: d.PositionAt(end), Reason: "nil tag name"}
	}
	if !ValidName(name) {
		return fmt.Errorf("unknown tag name %q", name.String())
	}
	if err := d.checkSpan(name, start, end); err != nil {
		return err
	}
	if start == end {
		return nil
	}
	if cat := name.Category(); cat.Exclusive() {
		d.clip(start, end, func(n Name) bool { return n != name && n.Category() == cat })
	}
	d.spans = append(d.spans, Span{Name: name, Start: start, End: end})
	d.normalize()
	return nil
}

// RemoveTag removes the tag with exactly this name and range. Absent tags
// are not an error.
func (d *Document) RemoveTag(name Name, start, end Position) error {
	s, e, err := d.resolve(name, start, end)
	if err != nil {
		return err
	}
	d.RemoveSpan(name, s, e)
	return nil
}

// RemoveSpan is RemoveTag with rune offsets.
func (d *Document) RemoveSpan(name Name, start, end int) {
	d.spans = slices.DeleteFunc(d.spans, func(sp Span) bool {
		return sp.Name == name && sp.Start == start && sp.End == end
	})
}

// clip removes [start, end) from every span matched by match, splitting
// spans that extend past either side.
func (d *Document) clip(start, end int, match func(Name) bool) {
	out := make([]Span, 0, len(d.spans)+1)
	for _, sp := range d.spans {
		if !match(sp.Name) || sp.End <= start || sp.Start >= end {
			out = append(out, sp)
			continue
		}
		if sp.Start < start {
			out = append(out, Span{Name: sp.Name, Start: sp.Start, End: start})
		}
		if sp.End > end {
			out = append(out, Span{Name: sp.Name, Start: end, End: sp.End})
		}
	}
	d.spans = out
}

// normalize merges overlapping or touching spans of one name into the
// earliest inserted of them and drops empty spans.
func (d *Document) normalize() {
	for {
		out := make([]Span, 0, len(d.spans))
		for _, sp := range d.spans {
			if sp.Start >= sp.End {
				continue
			}
			merged := false
			for i := range out {
				if out[i].Name == sp.Name && out[i].Start <= sp.End && sp.Start <= out[i].End {
					out[i].Start = min(out[i].Start, sp.Start)
					out[i].End = max(out[i].End, sp.End)
					merged = true
					break
				}
			}
			if !merged {
				out = append(out, sp)
			}
		}
		stable := len(out) == len(d.spans)
		d.spans = out
		if stable {
			return
		}
	}
}

// TagsAt returns the names of all tags containing p, in insertion order.
func (d *Document) TagsAt(p Position) []Name {
	off, err := d.Offset(p)
	if err != nil {
		return nil
	}
	return d.TagsAtOffset(off)
}

// TagsAtOffset is TagsAt with a rune offset.
func (d *Document) TagsAtOffset(off int) []Name {
	var names []Name
	for _, sp := range d.spans {
		if sp.Start <= off && off < sp.End && !slices.Contains(names, sp.Name) {
			names = append(names, sp.Name)
		}
	}
	return names
}

// HasTagAt reports whether name covers off.
func (d *Document) HasTagAt(name Name, off int) bool {
	for _, sp := range d.spans {
		if sp.Name == name && sp.Start <= off && off < sp.End {
			return true
		}
	}
	return false
}

// RangesOf returns the disjoint ranges tagged name, in document order.
func (d *Document) RangesOf(name Name) []Range {
	spans := d.SpansOf(name)
	out := make([]Range, len(spans))
	for i, sp := range spans {
		out[i] = Range{Start: d.PositionAt(sp.Start), End: d.PositionAt(sp.End)}
	}
	return out
}

// SpansOf is RangesOf with rune offsets.
func (d *Document) SpansOf(name Name) []Span {
	var out []Span
	for _, sp := range d.spans {
		if sp.Name == name {
			out = append(out, sp)
		}
	}
	sortSpans(out)
	return out
}

// Spans returns a copy of every span in insertion order.
func (d *Document) Spans() []Span {
	return slices.Clone(d.spans)
}

// Tags returns every tag in insertion order.
func (d *Document) Tags() []Tag {
	out := make([]Tag, len(d.spans))
	for i, sp := range d.spans {
		out[i] = Tag{Name: sp.Name, Start: d.PositionAt(sp.Start), End: d.PositionAt(sp.End)}
	}
	return out
}

// MarkerSpans returns every marker span ordered by start.
func (d *Document) MarkerSpans() []Span {
	var out []Span
	for _, sp := range d.spans {
		if IsMarker(sp.Name) {
			out = append(out, sp)
		}
	}
	sortSpans(out)
	return out
}

func sortSpans(s []Span) {
	sort.SliceStable(s, func(i, j int) bool { return s[i].Start < s[j].Start })
}

// Splice replaces the runes in [start, end) with repl and carries every span
// through the edit: offsets before the edit stay, offsets after it shift by
// the length delta, offsets inside it collapse to the end of the inserted
// text. Spans named in inherit that cover start are stretched over the
// inserted text. Spans left empty are dropped.
func (d *Document) Splice(start, end int, repl string, inherit []Name) error {
	if err := d.checkSpan(nil, start, end); err != nil {
		return err
	}
	ins := []rune(repl)
	n := len(ins)
	delta := n - (end - start)

	text := make([]rune, 0, len(d.text)+delta)
	text = append(text, d.text[:start]...)
	text = append(text, ins...)
	text = append(text, d.text[end:]...)
	d.text = text
	d.index()

	remap := func(p int) int {
		switch {
		case p <= start:
			return p
		case p >= end:
			return p + delta
		}
		return start + n
	}

	spans := make([]Span, 0, len(d.spans))
	for _, sp := range d.spans {
		ns, ne := remap(sp.Start), remap(sp.End)
		if sp.Start <= start && start < sp.End && slices.Contains(inherit, sp.Name) {
			ns = min(ns, start)
			ne = max(ne, start+n)
		}
		spans = append(spans, Span{Name: sp.Name, Start: ns, End: ne})
	}
	d.spans = spans
	d.normalize()
	return nil
}
