// Package engine turns a tagged letter template into a finished document by
// replacing marker ranges while keeping presentation tags anchored.
package engine

import (
	"fmt"

	"github.com/didilebossducode/lettre-motivation-ai/internal/doc"
	"github.com/didilebossducode/lettre-motivation-ai/internal/marker"
)

// Options tune a substitution run.
type Options struct {
	// LineSpacing, when non-zero, is applied to the whole result before the
	// template's own presentation tags, which therefore take precedence.
	LineSpacing float64
}

// Replacement records one substituted marker in result offsets.
type Replacement struct {
	Marker doc.Marker
	Value  string
	Start  int
	End    int
}

// Substitute returns a new document where every marker range of src is
// replaced by its resolved value. src is never modified.
func Substitute(src *doc.Document, ctx marker.Context, opts Options) (*doc.Document, error) {
	out, _, err := SubstituteTrace(src, ctx, opts)
	return out, err
}

// SubstituteTrace is Substitute that also reports each replacement, in
// document order.
func SubstituteTrace(src *doc.Document, ctx marker.Context, opts Options) (*doc.Document, []Replacement, error) {
	out := doc.New(src.Text())
	if opts.LineSpacing > 0 {
		if err := out.AddSpan(doc.Spacing(opts.LineSpacing), 0, out.Len()); err != nil {
			return nil, nil, fmt.Errorf("base spacing: %w", err)
		}
	}
	for _, sp := range src.Spans() {
		if doc.IsMarker(sp.Name) {
			continue
		}
		if err := out.AddSpan(sp.Name, sp.Start, sp.End); err != nil {
			return nil, nil, fmt.Errorf("copy %s: %w", sp.Name, err)
		}
	}

	// Right to left: an edit only moves text after it, so the source offsets
	// of markers still to be processed stay valid in out.
	markers := src.MarkerSpans()
	reps := make([]Replacement, len(markers))
	for i := len(markers) - 1; i >= 0; i-- {
		sp := markers[i]
		m, ok := sp.Name.(doc.Marker)
		if !ok {
			continue
		}
		value := marker.Resolve(m, ctx, out.LineAt(sp.Start))
		inherited := presentationAt(out, sp.Start)
		if err := out.Splice(sp.Start, sp.End, value, inherited); err != nil {
			return nil, nil, fmt.Errorf("replace %s at %s: %w", m, src.PositionAt(sp.Start), err)
		}

		n := len([]rune(value))
		delta := n - (sp.End - sp.Start)
		for j := i + 1; j < len(reps); j++ {
			reps[j].Start += delta
			reps[j].End += delta
		}
		reps[i] = Replacement{Marker: m, Value: value, Start: sp.Start, End: sp.Start + n}
	}
	return out, reps, nil
}

// presentationAt lists the presentation tags covering off.
func presentationAt(d *doc.Document, off int) []doc.Name {
	var out []doc.Name
	for _, n := range d.TagsAtOffset(off) {
		if !doc.IsMarker(n) {
			out = append(out, n)
		}
	}
	return out
}
