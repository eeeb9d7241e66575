package doc

import "fmt"

// InvalidRangeError reports malformed tag bounds. It signals a caller bug.
type InvalidRangeError struct {
	Name   string
	Start  Position
	End    Position
	Reason string
}

func (e *InvalidRangeError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("invalid range for %s [%s, %s): %s", e.Name, e.Start, e.End, e.Reason)
	}
	return fmt.Sprintf("invalid range [%s, %s): %s", e.Start, e.End, e.Reason)
}
