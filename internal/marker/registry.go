package marker

import (
	"strings"
	"time"

	"github.com/didilebossducode/lettre-motivation-ai/internal/doc"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TitlePhrase marks the heading line on which the company name is shouted.
const TitlePhrase = "LETTRE DE MOTIVATION"

// Context holds the replacement value for each marker.
type Context map[doc.Marker]string

// Entry describes one marker: its highlight color in an editor, a French
// label and how its value is resolved.
type Entry struct {
	Marker doc.Marker
	Color  string
	Label  string

	resolve func(ctx Context, line string) string
}

// Resolve computes the replacement for this marker. line is the text of the
// line holding the marker in the document being generated.
func (e Entry) Resolve(ctx Context, line string) string {
	return e.resolve(ctx, line)
}

// upper upper-cases s with French rules. Casers are stateful; do not share one.
func upper(s string) string {
	return cases.Upper(language.French).String(s)
}

func verbatim(m doc.Marker) func(Context, string) string {
	return func(ctx Context, _ string) string { return ctx[m] }
}

var registry = []Entry{
	{
		Marker: doc.MarkerCompany, Color: "#34C759", Label: "Entreprise",
		resolve: func(ctx Context, line string) string {
			v := ctx[doc.MarkerCompany]
			if strings.Contains(upper(line), TitlePhrase) {
				return upper(v)
			}
			return v
		},
	},
	{Marker: doc.MarkerPosition, Color: "#3498DB", Label: "Poste", resolve: verbatim(doc.MarkerPosition)},
	{Marker: doc.MarkerDuration, Color: "#9B59B6", Label: "Durée", resolve: verbatim(doc.MarkerDuration)},
	{Marker: doc.MarkerStartDate, Color: "#F7DC6F", Label: "Date de début", resolve: verbatim(doc.MarkerStartDate)},
	{Marker: doc.MarkerTodayDate, Color: "#FFC5C5", Label: "Date du jour", resolve: verbatim(doc.MarkerTodayDate)},
	{
		Marker: doc.MarkerCustom, Color: "#FFA07A", Label: "Paragraphe personnalisé",
		resolve: func(ctx Context, _ string) string {
			return strings.TrimSpace(ctx[doc.MarkerCustom])
		},
	},
}

// Lookup returns the registry entry for m.
func Lookup(m doc.Marker) (Entry, bool) {
	for _, e := range registry {
		if e.Marker == m {
			return e, true
		}
	}
	return Entry{}, false
}

// Entries returns every registry entry in display order.
func Entries() []Entry {
	out := make([]Entry, len(registry))
	copy(out, registry)
	return out
}

// Resolve resolves m against ctx; unknown markers resolve to "".
func Resolve(m doc.Marker, ctx Context, line string) string {
	e, ok := Lookup(m)
	if !ok {
		return ""
	}
	return e.Resolve(ctx, line)
}

// FromValues builds a Context from string keys, ignoring unknown keys.
func FromValues(values map[string]string) Context {
	ctx := make(Context, len(values))
	for k, v := range values {
		if m := doc.Marker(k); m.Valid() {
			ctx[m] = v
		}
	}
	return ctx
}

// WithDefaults returns a copy of ctx with today_date filled in when absent.
func (ctx Context) WithDefaults(now time.Time) Context {
	out := make(Context, len(ctx)+1)
	for k, v := range ctx {
		out[k] = v
	}
	if strings.TrimSpace(out[doc.MarkerTodayDate]) == "" {
		out[doc.MarkerTodayDate] = FrenchDate(now)
	}
	return out
}

var frenchMonths = [...]string{
	"janvier", "février", "mars", "avril", "mai", "juin",
	"juillet", "août", "septembre", "octobre", "novembre", "décembre",
}

// FrenchDate formats t as "17 octobre 2026" ("1er" on the first of a month).
func FrenchDate(t time.Time) string {
	day := t.Format("2")
	if t.Day() == 1 {
		day = "1er"
	}
	return day + " " + frenchMonths[t.Month()-1] + " " + t.Format("2006")
}
