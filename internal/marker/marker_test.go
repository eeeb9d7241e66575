package marker

import (
	"testing"
	"time"

	"github.com/didilebossducode/lettre-motivation-ai/internal/doc"
)

func TestResolve_CompanyTitleRule(t *testing.T) {
	ctx := Context{doc.MarkerCompany: "acme corp"}

	got := Resolve(doc.MarkerCompany, ctx, "LETTRE DE MOTIVATION - [[company]]")
	if got != "ACME CORP" {
		t.Errorf("expected %q, got %q", "ACME CORP", got)
	}
	got = Resolve(doc.MarkerCompany, ctx, "Lettre de motivation pour [[company]]")
	if got != "ACME CORP" {
		t.Errorf("expected case-insensitive title match, got %q", got)
	}
	got = Resolve(doc.MarkerCompany, ctx, "Madame, Monsieur,")
	if got != "acme corp" {
		t.Errorf("expected %q unchanged, got %q", "acme corp", got)
	}
}

func TestResolve_VerbatimAndMissing(t *testing.T) {
	ctx := Context{doc.MarkerPosition: "Développeur", doc.MarkerCustom: "  Texte libre. \n"}
	if got := Resolve(doc.MarkerPosition, ctx, "LETTRE DE MOTIVATION"); got != "Développeur" {
		t.Errorf("expected position verbatim, got %q", got)
	}
	if got := Resolve(doc.MarkerCustom, ctx, ""); got != "Texte libre." {
		t.Errorf("expected trimmed custom text, got %q", got)
	}
	if got := Resolve(doc.MarkerDuration, ctx, ""); got != "" {
		t.Errorf("expected empty string for missing value, got %q", got)
	}
	if got := Resolve(doc.Marker("nope"), ctx, ""); got != "" {
		t.Errorf("expected empty string for unknown marker, got %q", got)
	}
}

func TestEntries_ColorsAndOrder(t *testing.T) {
	entries := Entries()
	if len(entries) != len(doc.Markers) {
		t.Fatalf("expected %d entries, got %d", len(doc.Markers), len(entries))
	}
	for i, e := range entries {
		if e.Marker != doc.Markers[i] {
			t.Errorf("index %d: expected %s, got %s", i, doc.Markers[i], e.Marker)
		}
		if len(e.Color) != 7 || e.Color[0] != '#' {
			t.Errorf("%s: malformed color %q", e.Marker, e.Color)
		}
	}
	if e, _ := Lookup(doc.MarkerCompany); e.Color != "#34C759" {
		t.Errorf("expected company color #34C759, got %q", e.Color)
	}
}

func TestReplacePlain(t *testing.T) {
	got := ReplacePlain("Cher [[company]], je postule pour [[position]].", map[string]string{
		"company":  "Acme",
		"position": "Developer",
	})
	want := "Cher Acme, je postule pour Developer."
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestReplacePlain_KeepsUnknownAndEmpty(t *testing.T) {
	got := ReplacePlain("[[company]] [[duration]] [[other]]", map[string]string{
		"company":  "Acme",
		"duration": "",
	})
	want := "Acme [[duration]] [[other]]"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestReplacePlain_AnyKey(t *testing.T) {
	got := ReplacePlain("[[Nom complet]], dès le [[start-date]] ([[Ville]]) [[]]", map[string]string{
		"Nom complet": "Adrien Lange",
		"start-date":  "1er mars",
	})
	want := "Adrien Lange, dès le 1er mars ([[Ville]]) [[]]"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestPlainKeys(t *testing.T) {
	keys := PlainKeys("[[a]] [[b]] [[a]] [c] [[c_1]]")
	want := []string{"a", "b", "c_1"}
	if len(keys) != len(want) {
		t.Fatalf("expected %v, got %v", want, keys)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("index %d: expected %q, got %q", i, want[i], keys[i])
		}
	}
}

func TestFindPlaceholders(t *testing.T) {
	ph := FindPlaceholders("ab [[company]]!")
	if len(ph) != 1 {
		t.Fatalf("expected 1 placeholder, got %d", len(ph))
	}
	if ph[0].Key != "company" || ph[0].Start != 3 || ph[0].End != 14 {
		t.Errorf("unexpected placeholder %+v", ph[0])
	}
}

func TestFrenchDate(t *testing.T) {
	cases := []struct {
		t    time.Time
		want string
	}{
		{time.Date(2026, time.October, 17, 9, 0, 0, 0, time.UTC), "17 octobre 2026"},
		{time.Date(2025, time.August, 1, 0, 0, 0, 0, time.UTC), "1er août 2025"},
		{time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC), "29 février 2024"},
	}
	for _, c := range cases {
		if got := FrenchDate(c.t); got != c.want {
			t.Errorf("expected %q, got %q", c.want, got)
		}
	}
}

func TestWithDefaults(t *testing.T) {
	now := time.Date(2026, time.March, 3, 0, 0, 0, 0, time.UTC)
	ctx := Context{doc.MarkerCompany: "Acme"}.WithDefaults(now)
	if ctx[doc.MarkerTodayDate] != "3 mars 2026" {
		t.Errorf("expected default today_date, got %q", ctx[doc.MarkerTodayDate])
	}
	kept := Context{doc.MarkerTodayDate: "hier"}.WithDefaults(now)
	if kept[doc.MarkerTodayDate] != "hier" {
		t.Errorf("expected explicit today_date kept, got %q", kept[doc.MarkerTodayDate])
	}
}

func TestFromValues(t *testing.T) {
	ctx := FromValues(map[string]string{"company": "Acme", "format": "pdf"})
	if len(ctx) != 1 || ctx[doc.MarkerCompany] != "Acme" {
		t.Errorf("expected only company, got %v", ctx)
	}
}
