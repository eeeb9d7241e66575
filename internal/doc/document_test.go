package doc

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestPosition_OffsetRoundTrip(t *testing.T) {
	d := New("ab\ncde\n\nf")
	cases := []struct {
		pos Position
		off int
	}{
		{Pos(1, 0), 0},
		{Pos(1, 2), 2}, // newline of line 1
		{Pos(2, 0), 3},
		{Pos(2, 3), 6},
		{Pos(3, 0), 7},
		{Pos(4, 0), 8},
		{Pos(4, 1), 9}, // end of document
	}
	for _, c := range cases {
		off, err := d.Offset(c.pos)
		if err != nil {
			t.Fatalf("Offset(%s): unexpected error: %v", c.pos, err)
		}
		if off != c.off {
			t.Errorf("Offset(%s): expected %d, got %d", c.pos, c.off, off)
		}
		if got := d.PositionAt(c.off); got != c.pos {
			t.Errorf("PositionAt(%d): expected %s, got %s", c.off, c.pos, got)
		}
	}
}

func TestPosition_OutOfBounds(t *testing.T) {
	d := New("ab\ncd")
	for _, p := range []Position{Pos(0, 0), Pos(3, 0), Pos(1, 3), Pos(2, 3)} {
		if _, err := d.Offset(p); err == nil {
			t.Errorf("expected error for %s", p)
		}
	}
}

func TestPosition_CompareAndParse(t *testing.T) {
	if !Pos(1, 9).Before(Pos(2, 0)) {
		t.Error("expected 1.9 before 2.0")
	}
	if Pos(2, 3).Compare(Pos(2, 3)) != 0 {
		t.Error("expected equal positions to compare 0")
	}
	p, err := ParsePosition("12.40")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p != Pos(12, 40) {
		t.Errorf("expected 12.40, got %s", p)
	}
	for _, bad := range []string{"", "3", "a.1", "0.0", "1.-1"} {
		if _, err := ParsePosition(bad); err == nil {
			t.Errorf("expected error parsing %q", bad)
		}
	}
}

func TestAdvanceAndLineStart(t *testing.T) {
	d := New("hello\nworld")
	p, err := d.Advance(Pos(1, 3), 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p != Pos(2, 1) {
		t.Errorf("expected 2.1, got %s", p)
	}
	if _, err := d.Advance(Pos(2, 4), 5); err == nil {
		t.Error("expected error advancing past the end")
	}
	ls, err := d.LineStart(Pos(2, 4))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ls != Pos(2, 0) {
		t.Errorf("expected 2.0, got %s", ls)
	}
	if got := d.LineAt(8); got != "world" {
		t.Errorf("expected line %q, got %q", "world", got)
	}
}

func TestAddTag_InvalidRange(t *testing.T) {
	d := New("hello")
	err := d.AddTag(Bold, Pos(1, 4), Pos(1, 2))
	var rangeErr *InvalidRangeError
	if !errors.As(err, &rangeErr) {
		t.Fatalf("expected InvalidRangeError, got %v", err)
	}
	if err := d.AddTag(Bold, Pos(1, 0), Pos(1, 9)); !errors.As(err, &rangeErr) {
		t.Fatalf("expected InvalidRangeError for out of bounds, got %v", err)
	}
	if len(d.Tags()) != 0 {
		t.Errorf("expected no tags after failed adds, got %d", len(d.Tags()))
	}
}

func TestAddTag_AlignmentExclusive(t *testing.T) {
	d := New("centered then right")
	if err := d.AddTag(AlignCenter, Pos(1, 0), Pos(1, 19)); err != nil {
		t.Fatal(err)
	}
	if err := d.AddTag(AlignRight, Pos(1, 0), Pos(1, 19)); err != nil {
		t.Fatal(err)
	}
	tags := d.Tags()
	if len(tags) != 1 {
		t.Fatalf("expected exactly 1 tag, got %d: %v", len(tags), tags)
	}
	if tags[0].Name != AlignRight {
		t.Errorf("expected %s, got %s", AlignRight, tags[0].Name)
	}
}

func TestAddTag_MarkerReplacesMarker(t *testing.T) {
	d := New("Acme Corp")
	if err := d.AddSpan(MarkerPosition, 0, 9); err != nil {
		t.Fatal(err)
	}
	if err := d.AddSpan(MarkerCompany, 0, 4); err != nil {
		t.Fatal(err)
	}
	got := d.TagsAtOffset(2)
	if len(got) != 1 || got[0] != MarkerCompany {
		t.Errorf("expected only company at offset 2, got %v", got)
	}
	// The position marker survives outside the new marker.
	spans := d.SpansOf(MarkerPosition)
	if len(spans) != 1 || spans[0].Start != 4 || spans[0].End != 9 {
		t.Errorf("expected position clipped to [4,9), got %v", spans)
	}
}

func TestAddTag_BoldItalicCoexist(t *testing.T) {
	d := New("both styles")
	d.AddSpan(Bold, 0, 4)
	d.AddSpan(Italic, 0, 4)
	got := d.TagsAtOffset(1)
	if len(got) != 2 || got[0] != Bold || got[1] != Italic {
		t.Errorf("expected [bold italic], got %v", got)
	}
}

func TestAddTag_SpacingExclusive(t *testing.T) {
	d := New("one line")
	d.AddSpan(Spacing(1.15), 0, 8)
	d.AddSpan(Spacing(2), 0, 4)
	if got := d.TagsAtOffset(1); len(got) != 1 || got[0] != Spacing(2) {
		t.Errorf("expected spacing_2_0 at 1, got %v", got)
	}
	if got := d.TagsAtOffset(6); len(got) != 1 || got[0] != Spacing(1.15) {
		t.Errorf("expected spacing_1_15 at 6, got %v", got)
	}
}

func TestAddTag_MergesSameName(t *testing.T) {
	d := New("abcdefghij")
	d.AddSpan(Bold, 0, 3)
	d.AddSpan(Bold, 5, 8)
	d.AddSpan(Bold, 3, 5)
	ranges := d.RangesOf(Bold)
	if len(ranges) != 1 {
		t.Fatalf("expected merged range, got %v", ranges)
	}
	if ranges[0].Start != Pos(1, 0) || ranges[0].End != Pos(1, 8) {
		t.Errorf("expected [1.0, 1.8), got [%s, %s)", ranges[0].Start, ranges[0].End)
	}
}

func TestRangesOf_DocumentOrder(t *testing.T) {
	d := New("x [[company]] and [[company]]\nline two")
	d.AddSpan(MarkerCompany, 18, 29)
	d.AddSpan(MarkerCompany, 2, 13)
	ranges := d.RangesOf(MarkerCompany)
	if len(ranges) != 2 {
		t.Fatalf("expected 2 ranges, got %d", len(ranges))
	}
	if !ranges[0].Start.Before(ranges[1].Start) {
		t.Errorf("expected ranges in document order, got %v", ranges)
	}
}

func TestRemoveTag_ExactOnly(t *testing.T) {
	d := New("remove me")
	d.AddTag(Italic, Pos(1, 0), Pos(1, 6))
	if err := d.RemoveTag(Italic, Pos(1, 0), Pos(1, 3)); err != nil {
		t.Fatal(err)
	}
	if len(d.Tags()) != 1 {
		t.Fatalf("expected non-matching remove to be a no-op")
	}
	if err := d.RemoveTag(Italic, Pos(1, 0), Pos(1, 6)); err != nil {
		t.Fatal(err)
	}
	if len(d.Tags()) != 0 {
		t.Errorf("expected tag removed, got %v", d.Tags())
	}
}

func TestTagsAt_InsertionOrder(t *testing.T) {
	d := New("abc")
	d.AddSpan(Italic, 0, 3)
	d.AddSpan(AlignCenter, 0, 3)
	d.AddSpan(Bold, 0, 3)
	got := d.TagsAt(Pos(1, 1))
	want := []Name{Italic, AlignCenter, Bold}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestSplice_ShiftsAndInherits(t *testing.T) {
	d := New("Hi XX there")
	d.AddSpan(Bold, 0, 5)   // "Hi XX"
	d.AddSpan(Italic, 6, 11) // "there"
	if err := d.Splice(3, 5, "Acme Corp", []Name{Bold}); err != nil {
		t.Fatal(err)
	}
	if d.Text() != "Hi Acme Corp there" {
		t.Fatalf("unexpected text %q", d.Text())
	}
	bold := d.SpansOf(Bold)
	if len(bold) != 1 || bold[0].Start != 0 || bold[0].End != 12 {
		t.Errorf("expected bold [0,12), got %v", bold)
	}
	italic := d.SpansOf(Italic)
	if len(italic) != 1 || italic[0].Start != 13 || italic[0].End != 18 {
		t.Errorf("expected italic shifted to [13,18), got %v", italic)
	}
}

func TestSplice_EmptyReplacementDropsEmptyTags(t *testing.T) {
	d := New("a[[x]]b")
	d.AddSpan(Bold, 1, 6)
	d.AddSpan(MarkerCustom, 1, 6)
	if err := d.Splice(1, 6, "", []Name{Bold}); err != nil {
		t.Fatal(err)
	}
	if d.Text() != "ab" {
		t.Fatalf("unexpected text %q", d.Text())
	}
	if len(d.Spans()) != 0 {
		t.Errorf("expected empty tags dropped, got %v", d.Spans())
	}
}

func TestClone_Independent(t *testing.T) {
	d := New("shared?")
	d.AddSpan(Bold, 0, 3)
	c := d.Clone()
	c.AddSpan(Italic, 0, 3)
	c.Splice(0, 1, "S", nil)
	if d.Text() != "shared?" || len(d.Spans()) != 1 {
		t.Errorf("expected original untouched, got %q %v", d.Text(), d.Spans())
	}
}

func TestDocumentJSON(t *testing.T) {
	d := New("Bonjour\n[[company]]")
	d.AddTag(Bold, Pos(1, 0), Pos(1, 7))
	d.AddTag(MarkerCompany, Pos(2, 0), Pos(2, 11))

	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Document
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Text() != d.Text() {
		t.Errorf("expected text %q, got %q", d.Text(), back.Text())
	}
	if got := back.RangesOf(MarkerCompany); len(got) != 1 || got[0].Start != Pos(2, 0) {
		t.Errorf("expected company at 2.0, got %v", got)
	}

	if err := json.Unmarshal([]byte(`{"text":"x","tags":[{"tag":"shout","start":"1.0","end":"1.1"}]}`), &back); err == nil {
		t.Error("expected error for unknown tag name")
	}
}

func TestFromRecords_ClampsTrailingEnd(t *testing.T) {
	// Editors commonly store a whole-text tag as ending on the line after the last.
	d, skipped, err := FromRecords("abc", []TagRecord{
		{Tag: "bold", Start: Pos(1, 0), End: Pos(2, 0)},
		{Tag: "sel", Start: Pos(1, 0), End: Pos(1, 1)},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(skipped) != 1 || skipped[0] != "sel" {
		t.Errorf("expected [sel] skipped, got %v", skipped)
	}
	spans := d.SpansOf(Bold)
	if len(spans) != 1 || spans[0].End != 3 {
		t.Errorf("expected bold clamped to [0,3), got %v", spans)
	}
}

func TestSpacingNames(t *testing.T) {
	cases := map[float64]Style{1: "spacing_1_0", 1.15: "spacing_1_15", 2: "spacing_2_0", 1.5: "spacing_1_5"}
	for v, want := range cases {
		if got := Spacing(v); got != want {
			t.Errorf("Spacing(%v): expected %q, got %q", v, want, got)
		}
		back, ok := want.SpacingValue()
		if !ok || back != v {
			t.Errorf("SpacingValue(%q): expected %v, got %v", want, v, back)
		}
	}
	n, err := ParseName("spacing_1_15")
	if err != nil || n.Category() != CategorySpacing {
		t.Errorf("expected spacing category, got %v (%v)", n, err)
	}
	if _, err := ParseName("spacing_x"); err == nil {
		t.Error("expected malformed spacing to be rejected")
	}
}
