package doc

import (
	"fmt"
	"strconv"
	"strings"
)

// Position addresses a character: Line is 1-based, Col is the 0-based rune
// offset within that line. The text form is "line.col".
type Position struct {
	Line int
	Col  int
}

// Pos is shorthand for Position{Line: line, Col: col}.
func Pos(line, col int) Position {
	return Position{Line: line, Col: col}
}

// Compare returns -1, 0 or +1 ordering p before, equal to or after q.
func (p Position) Compare(q Position) int {
	switch {
	case p.Line < q.Line:
		return -1
	case p.Line > q.Line:
		return 1
	case p.Col < q.Col:
		return -1
	case p.Col > q.Col:
		return 1
	}
	return 0
}

// Before reports whether p sorts before q.
func (p Position) Before(q Position) bool {
	return p.Compare(q) < 0
}

func (p Position) String() string {
	return fmt.Sprintf("%d.%d", p.Line, p.Col)
}

// MarshalText encodes p as "line.col".
func (p Position) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText decodes "line.col".
func (p *Position) UnmarshalText(b []byte) error {
	q, err := ParsePosition(string(b))
	if err != nil {
		return err
	}
	*p = q
	return nil
}

// ParsePosition parses "line.col".
func ParsePosition(s string) (Position, error) {
	lineStr, colStr, ok := strings.Cut(strings.TrimSpace(s), ".")
	if !ok {
		return Position{}, fmt.Errorf("position %q: expected line.col", s)
	}
	line, err := strconv.Atoi(lineStr)
	if err != nil {
		return Position{}, fmt.Errorf("position %q: bad line: %w", s, err)
	}
	col, err := strconv.Atoi(colStr)
	if err != nil {
		return Position{}, fmt.Errorf("position %q: bad column: %w", s, err)
	}
	if line < 1 || col < 0 {
		return Position{}, fmt.Errorf("position %q: out of range", s)
	}
	return Position{Line: line, Col: col}, nil
}
