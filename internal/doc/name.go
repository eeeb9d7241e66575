package doc

import (
	"fmt"
	"strconv"
	"strings"
)

// Category groups tag names that interact when they overlap.
type Category int

const (
	CategoryMarker Category = iota
	CategoryBold
	CategoryItalic
	CategoryAlignment
	CategorySpacing
)

// Exclusive reports whether two different names of this category may not
// cover the same character.
func (c Category) Exclusive() bool {
	switch c {
	case CategoryMarker, CategoryAlignment, CategorySpacing:
		return true
	}
	return false
}

// Name is a tag name. It is either a Marker or a Style; no other
// implementations exist.
type Name interface {
	String() string
	Category() Category
	isName()
}

// Marker is a semantic placeholder replaced at generation time.
type Marker string

const (
	MarkerCompany   Marker = "company"
	MarkerPosition  Marker = "position"
	MarkerDuration  Marker = "duration"
	MarkerStartDate Marker = "start_date"
	MarkerTodayDate Marker = "today_date"
	MarkerCustom    Marker = "custom"
)

// Markers lists every marker in display order.
var Markers = []Marker{MarkerCompany, MarkerPosition, MarkerDuration, MarkerStartDate, MarkerTodayDate, MarkerCustom}

func (m Marker) String() string     { return string(m) }
func (m Marker) Category() Category { return CategoryMarker }
func (Marker) isName()              {}

// Valid reports whether m is one of the known markers.
func (m Marker) Valid() bool {
	for _, k := range Markers {
		if k == m {
			return true
		}
	}
	return false
}

// Style is a presentation attribute.
type Style string

const (
	Bold         Style = "bold"
	Italic       Style = "italic"
	AlignCenter  Style = "align_center"
	AlignRight   Style = "align_right"
	AlignJustify Style = "align_justify"

	spacingPrefix = "spacing_"
)

// Spacing returns the line-spacing style for v, named like "spacing_1_15".
// Whole values keep one decimal ("spacing_2_0").
func Spacing(v float64) Style {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return Style(spacingPrefix + strings.ReplaceAll(s, ".", "_"))
}

func (s Style) String() string { return string(s) }

func (s Style) Category() Category {
	switch s {
	case Bold:
		return CategoryBold
	case Italic:
		return CategoryItalic
	case AlignCenter, AlignRight, AlignJustify:
		return CategoryAlignment
	}
	return CategorySpacing
}

func (Style) isName() {}

// SpacingValue returns the line-spacing multiplier of a spacing style.
func (s Style) SpacingValue() (float64, bool) {
	raw, ok := strings.CutPrefix(string(s), spacingPrefix)
	if !ok || raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(raw, "_", "."), 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

// Valid reports whether s is a known style or a well-formed spacing style.
func (s Style) Valid() bool {
	switch s {
	case Bold, Italic, AlignCenter, AlignRight, AlignJustify:
		return true
	}
	_, ok := s.SpacingValue()
	return ok
}

// ParseName maps a stored tag name back to its Marker or Style.
func ParseName(s string) (Name, error) {
	if m := Marker(s); m.Valid() {
		return m, nil
	}
	if st := Style(s); st.Valid() {
		return st, nil
	}
	return nil, fmt.Errorf("unknown tag name %q", s)
}

// ValidName reports whether n is a known marker or a valid style.
func ValidName(n Name) bool {
	switch v := n.(type) {
	case Marker:
		return v.Valid()
	case Style:
		return v.Valid()
	}
	return false
}

// IsMarker reports whether n is a marker name.
func IsMarker(n Name) bool {
	return n.Category() == CategoryMarker
}
